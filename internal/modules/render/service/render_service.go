package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"ereader/internal/modules/render/domain"
	renderout "ereader/internal/modules/render/port/out"
	apperrors "ereader/internal/platform/errors"
)

// RenderService draws pages through a generation-token Renderer. It keeps
// the committed drawable so it can be exported, and forwards every commit to
// an optional display surface.
type RenderService[D any] struct {
	renderer *domain.Renderer[D]
	drawer   renderout.PageDrawer[D]
	encoder  renderout.Encoder[D]
	display  domain.Surface[D]
	logger   zerolog.Logger

	mu    sync.Mutex
	last  D
	token domain.Token
}

func NewRenderService[D any](
	dispatcher domain.Dispatcher,
	drawer renderout.PageDrawer[D],
	encoder renderout.Encoder[D],
	display domain.Surface[D],
	logger zerolog.Logger,
) *RenderService[D] {
	s := &RenderService[D]{
		drawer:  drawer,
		encoder: encoder,
		display: display,
		logger:  logger,
	}
	s.renderer = domain.NewRenderer[D](dispatcher, s)
	s.renderer.OnDiscarded(func(token domain.Token) {
		s.logger.Debug().Uint64("token", uint64(token)).Msg("render superseded")
	})
	return s
}

// Render schedules req in the background and returns its token.
func (s *RenderService[D]) Render(ctx context.Context, req domain.Request) domain.Token {
	return s.renderer.RequestRender(ctx, req, s.draw)
}

// RenderSync draws req on the caller and commits it before returning.
func (s *RenderService[D]) RenderSync(ctx context.Context, req domain.Request) (domain.Token, error) {
	token, err := s.renderer.RequestRenderSync(ctx, req, s.draw)
	if err != nil {
		return token, fmt.Errorf("render page %d: %w", req.PageIndex, err)
	}
	return token, nil
}

func (s *RenderService[D]) Invalidate() domain.Token {
	return s.renderer.Invalidate()
}

func (s *RenderService[D]) Status(token domain.Token) domain.State {
	return s.renderer.Status(token)
}

func (s *RenderService[D]) Stats() domain.Stats {
	return s.renderer.Stats()
}

// Committed returns the drawable on display and its token. ok is false
// until the first commit.
func (s *RenderService[D]) Committed() (drawable D, token domain.Token, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.token, s.token != 0
}

// WriteCommitted encodes the drawable on display to w.
func (s *RenderService[D]) WriteCommitted(w io.Writer) error {
	drawable, _, ok := s.Committed()
	if !ok {
		return fmt.Errorf("%w: nothing rendered yet", apperrors.ErrNotFound)
	}
	if err := s.encoder.Encode(w, drawable); err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	return nil
}

// Present implements domain.Surface. The renderer calls it under its commit
// lock, only for the current generation.
func (s *RenderService[D]) Present(token domain.Token, req domain.Request, drawable D) {
	s.mu.Lock()
	s.last = drawable
	s.token = token
	s.mu.Unlock()

	s.logger.Debug().
		Uint64("token", uint64(token)).
		Str("document", req.DocumentID).
		Int("page", req.PageIndex).
		Msg("page committed")
	if s.display != nil {
		s.display.Present(token, req, drawable)
	}
}

func (s *RenderService[D]) draw(ctx context.Context, req domain.Request, current func() bool) (D, error) {
	d, err := s.drawer.Draw(ctx, req, current)
	if err != nil {
		s.logger.Warn().Err(err).Str("document", req.DocumentID).Int("page", req.PageIndex).Msg("render failed")
	}
	return d, err
}
