package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	pagedomain "ereader/internal/modules/pagination/domain"
	progressdomain "ereader/internal/modules/progress/domain"
	"ereader/internal/modules/reader/domain"
	readerout "ereader/internal/modules/reader/port/out"
	apperrors "ereader/internal/platform/errors"
)

// ReaderService drives one reading session: the open document, its layout
// and the page on screen. Calls are serialized; the service is meant to be
// driven from a single interaction loop.
type ReaderService struct {
	documents readerout.DocumentSource
	paginator readerout.Paginator
	progress  readerout.ProgressPort
	renderer  readerout.PageRenderer
	logger    zerolog.Logger

	mu      sync.Mutex
	session *domain.Session
	tracker *domain.PositionTracker
}

// NewReaderService wires a session. renderer may be nil when nothing is
// displayed, e.g. for one-shot CLI commands.
func NewReaderService(
	documents readerout.DocumentSource,
	paginator readerout.Paginator,
	progress readerout.ProgressPort,
	renderer readerout.PageRenderer,
	logger zerolog.Logger,
) *ReaderService {
	return &ReaderService{
		documents: documents,
		paginator: paginator,
		progress:  progress,
		renderer:  renderer,
		logger:    logger,
	}
}

// Open loads ref, records the access, paginates it against mc and resolves
// the stored position. A non-negative page replaces the stored position and
// is persisted; pass -1 to keep it.
func (s *ReaderService) Open(ctx context.Context, ref string, mc pagedomain.MeasurementContext, page int) (domain.Session, error) {
	if err := mc.Validate(); err != nil {
		return domain.Session{}, err
	}
	doc, err := s.documents.Load(ctx, ref)
	if err != nil {
		return domain.Session{}, err
	}
	log := s.logger.With().Str("document", doc.ID).Logger()

	if err := s.progress.RecordAccess(ctx, doc.ID); err != nil {
		log.Warn().Err(err).Msg("record access failed; continuing without persistence")
	}

	layout, err := s.paginator.Paginate(ctx, doc.Text, mc)
	if err != nil {
		return domain.Session{}, fmt.Errorf("paginate %s: %w", doc.ID, err)
	}

	pos, err := s.progress.Load(ctx, doc.ID)
	if err != nil {
		log.Warn().Err(err).Msg("load position failed; starting at the beginning")
		pos = progressdomain.Position{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
	tracker := domain.NewPositionTracker(pos.ChapterIndex)
	session := &domain.Session{
		Document: doc,
		Context:  mc,
		Layout:   layout,
		Position: pos,
	}
	session.Page = tracker.Resolve(pos, layout.Pages, layout.Total, layout.Fingerprint)
	if session.Page < 0 {
		session.Page = 0
	}
	s.session = session
	s.tracker = tracker

	log.Debug().
		Int("pages", len(layout.Pages)).
		Bool("cached", layout.Cached).
		Float64("progress", pos.Progress).
		Int("page", session.Page).
		Msg("document opened")

	var moveErr error
	if page >= 0 && len(layout.Pages) > 0 && page != session.Page {
		moveErr = s.moveLocked(ctx, page)
	} else {
		tracker.Adopt(layout.Fingerprint)
		session.Position.SubrangeIndex = max(session.Page, 0)
	}

	if s.renderer != nil && len(layout.Pages) > 0 {
		token, err := s.renderer.RenderSync(ctx, *session)
		if err != nil {
			log.Warn().Err(err).Msg("first paint failed")
		}
		session.RenderToken = token
	}
	return *session, moveErr
}

// Turn moves delta pages from the current one, clamped to the document.
func (s *ReaderService) Turn(ctx context.Context, delta int) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, errNoSession()
	}
	target := domain.Clamp(s.session.Page+delta, len(s.session.Layout.Pages))
	if target == s.session.Page {
		return *s.session, nil
	}
	err := s.moveLocked(ctx, target)
	s.renderLocked(ctx)
	return *s.session, err
}

// GoTo moves to a 0-based page.
func (s *ReaderService) GoTo(ctx context.Context, page int) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, errNoSession()
	}
	if n := len(s.session.Layout.Pages); page < 0 || page >= n {
		return *s.session, fmt.Errorf("%w: page %d out of range [1,%d]", apperrors.ErrInvalidInput, page+1, n)
	}
	err := s.moveLocked(ctx, page)
	s.renderLocked(ctx)
	return *s.session, err
}

// Relayout re-paginates the open document against mc and keeps the reader on
// the page that holds the same text, as located by the progress fraction.
// The stored progress is left untouched.
func (s *ReaderService) Relayout(ctx context.Context, mc pagedomain.MeasurementContext) (domain.Session, error) {
	if err := mc.Validate(); err != nil {
		return domain.Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, errNoSession()
	}
	if mc == s.session.Context {
		return *s.session, nil
	}
	if s.renderer != nil {
		s.renderer.Invalidate()
	}

	layout, err := s.paginator.Paginate(ctx, s.session.Document.Text, mc)
	if err != nil {
		return *s.session, fmt.Errorf("paginate %s: %w", s.session.Document.ID, err)
	}
	page := s.tracker.Resolve(s.session.Position, layout.Pages, layout.Total, layout.Fingerprint)
	if page < 0 {
		page = 0
	}
	s.session.Context = mc
	s.session.Layout = layout
	s.session.Page = page
	s.session.Position.SubrangeIndex = page
	s.tracker.Adopt(layout.Fingerprint)

	s.logger.Debug().
		Str("document", s.session.Document.ID).
		Int("pages", len(layout.Pages)).
		Int("page", page).
		Msg("relayout")

	s.renderLocked(ctx)
	return *s.session, nil
}

// Current returns the open session.
func (s *ReaderService) Current() (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, errNoSession()
	}
	return *s.session, nil
}

// Close ends the session and discards any in-flight render.
func (s *ReaderService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// Remove deletes the stored progress of documentID, closing it if open.
func (s *ReaderService) Remove(ctx context.Context, documentID string) error {
	if err := s.progress.Remove(ctx, documentID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.Document.ID == documentID {
		s.closeLocked()
	}
	return nil
}

// Paginate loads and paginates ref without opening a session.
func (s *ReaderService) Paginate(ctx context.Context, ref string, mc pagedomain.MeasurementContext) (domain.Document, domain.Layout, error) {
	if err := mc.Validate(); err != nil {
		return domain.Document{}, domain.Layout{}, err
	}
	doc, err := s.documents.Load(ctx, ref)
	if err != nil {
		return domain.Document{}, domain.Layout{}, err
	}
	layout, err := s.paginator.Paginate(ctx, doc.Text, mc)
	if err != nil {
		return domain.Document{}, domain.Layout{}, fmt.Errorf("paginate %s: %w", doc.ID, err)
	}
	return doc, layout, nil
}

// moveLocked advances the tracker to page and persists the new position.
// The session moves even when persisting fails; the error is returned.
func (s *ReaderService) moveLocked(ctx context.Context, page int) error {
	sess := s.session
	pos := s.tracker.Advance(page, sess.Layout.Pages, sess.Layout.Total, sess.Layout.Fingerprint)
	sess.Page = pos.SubrangeIndex
	sess.Position = pos
	if err := s.progress.Save(ctx, sess.Document.ID, pos); err != nil {
		s.logger.Error().Err(err).Str("document", sess.Document.ID).Int("page", page).Msg("save position")
		return err
	}
	return nil
}

func (s *ReaderService) renderLocked(ctx context.Context) {
	if s.renderer == nil || len(s.session.Layout.Pages) == 0 {
		return
	}
	s.session.RenderToken = s.renderer.Render(ctx, *s.session)
}

func (s *ReaderService) closeLocked() {
	if s.renderer != nil {
		s.renderer.Invalidate()
	}
	s.session = nil
	s.tracker = nil
}

func errNoSession() error {
	return fmt.Errorf("%w: no document is open", apperrors.ErrInvalidInput)
}
