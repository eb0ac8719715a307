package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	pagedomain "ereader/internal/modules/pagination/domain"
	progressdomain "ereader/internal/modules/progress/domain"
	"ereader/internal/modules/reader/domain"
	"ereader/internal/modules/reader/dto"
	readerin "ereader/internal/modules/reader/port/in"
	readerout "ereader/internal/modules/reader/port/out"
	"ereader/internal/modules/reader/service"
	"ereader/internal/modules/reader/usecase"
	apperrors "ereader/internal/platform/errors"
)

type fakeSource struct {
	docs map[string]string
}

func (s fakeSource) Load(_ context.Context, ref string) (domain.Document, error) {
	text, ok := s.docs[ref]
	if !ok {
		return domain.Document{}, apperrors.ErrNotFound
	}
	return domain.Document{ID: ref, Path: "/books/" + ref + ".txt", Text: []rune(text)}, nil
}

// widthFitter puts Display.Width runes on every page.
type widthFitter int

func (f widthFitter) Fit(text []rune) int { return min(int(f), len(text)) }

type fakePaginator struct {
	calls int
}

func (p *fakePaginator) Paginate(ctx context.Context, text []rune, mc pagedomain.MeasurementContext) (domain.Layout, error) {
	p.calls++
	pages, err := pagedomain.Paginate(ctx, text, mc, widthFitter(mc.Display.Width))
	if err != nil {
		return domain.Layout{}, err
	}
	return domain.Layout{
		Pages:       pages,
		Total:       len(text),
		Fingerprint: pagedomain.Fingerprint(pagedomain.ContentHash(text), mc),
	}, nil
}

func (p *fakePaginator) Invalidate(context.Context) error { return nil }

type fakeProgress struct {
	mu        sync.Mutex
	records   map[string]progressdomain.Position
	saves     []progressdomain.Position
	accessErr error
	saveErr   error
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{records: map[string]progressdomain.Position{}}
}

func (p *fakeProgress) RecordAccess(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accessErr != nil {
		return p.accessErr
	}
	if _, ok := p.records[id]; !ok {
		p.records[id] = progressdomain.Position{}
	}
	return nil
}

func (p *fakeProgress) Load(_ context.Context, id string) (progressdomain.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.records[id], nil
}

func (p *fakeProgress) Save(_ context.Context, id string, pos progressdomain.Position) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	if _, ok := p.records[id]; !ok {
		return apperrors.ErrUnknownDocument
	}
	p.records[id] = pos
	p.saves = append(p.saves, pos)
	return nil
}

func (p *fakeProgress) Remove(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.records, id)
	return nil
}

type fakeRenderer struct {
	token       uint64
	syncPages   []int
	asyncPages  []int
	invalidates int
}

func (r *fakeRenderer) Render(_ context.Context, s domain.Session) uint64 {
	r.token++
	r.asyncPages = append(r.asyncPages, s.Page)
	return r.token
}

func (r *fakeRenderer) RenderSync(_ context.Context, s domain.Session) (uint64, error) {
	r.token++
	r.syncPages = append(r.syncPages, s.Page)
	return r.token, nil
}

func (r *fakeRenderer) Invalidate() {
	r.token++
	r.invalidates++
}

func context500() pagedomain.MeasurementContext {
	return pagedomain.MeasurementContext{Display: pagedomain.Rect{Width: 500, Height: 100}, FontSize: 12}
}

func context1000() pagedomain.MeasurementContext {
	return pagedomain.MeasurementContext{Display: pagedomain.Rect{Width: 1000, Height: 100}, FontSize: 24}
}

func newReader(progress *fakeProgress, renderer *fakeRenderer) readerin.Usecase {
	source := fakeSource{docs: map[string]string{
		"moby":  strings.Repeat("m", 10000),
		"empty": "",
		"short": "call me ishmael",
	}}
	var pageRenderer readerout.PageRenderer
	if renderer != nil {
		pageRenderer = renderer
	}
	return usecase.NewInteractor(service.NewReaderService(source, &fakePaginator{}, progress, pageRenderer, zerolog.Nop()))
}

func TestOpenFreshDocumentStartsAtFirstPage(t *testing.T) {
	t.Parallel()
	progress := newFakeProgress()
	renderer := &fakeRenderer{}
	uc := newReader(progress, renderer)

	out, err := uc.Open(context.Background(), dto.OpenInput{Ref: "moby", Context: context500()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if out.Page != 1 || out.PageCount != 20 || out.Length != 500 {
		t.Fatalf("unexpected first page: %+v", out)
	}
	if _, ok := progress.records["moby"]; !ok {
		t.Fatalf("open should record an access")
	}
	if len(renderer.syncPages) != 1 || renderer.syncPages[0] != 0 {
		t.Fatalf("first paint should render page 0 synchronously, got %v", renderer.syncPages)
	}
	if out.RenderToken != renderer.token {
		t.Fatalf("render token %d does not match latest %d", out.RenderToken, renderer.token)
	}
}

func TestReopenWithLargerPagesResolvesByProgress(t *testing.T) {
	t.Parallel()
	progress := newFakeProgress()
	uc := newReader(progress, &fakeRenderer{})
	ctx := context.Background()

	if _, err := uc.Open(ctx, dto.OpenInput{Ref: "moby", Context: context500()}); err != nil {
		t.Fatalf("open: %v", err)
	}
	out, err := uc.GoTo(ctx, dto.GoToInput{Page: 11})
	if err != nil {
		t.Fatalf("goto: %v", err)
	}
	if out.Progress != 0.5 || out.Start != 5000 {
		t.Fatalf("expected progress 0.5 at offset 5000, got %+v", out)
	}
	if got := progress.records["moby"]; got.SubrangeIndex != 10 || got.Progress != 0.5 {
		t.Fatalf("unexpected stored position: %+v", got)
	}
	if err := uc.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A new session over the same store, as after a restart.
	uc = newReader(progress, &fakeRenderer{})
	out, err = uc.Open(ctx, dto.OpenInput{Ref: "moby", Context: context1000()})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if out.PageCount != 10 || out.Page != 6 {
		t.Fatalf("expected page 6 of 10, got %d of %d", out.Page, out.PageCount)
	}
	if out.Start > 5000 || out.Start+out.Length <= 5000 {
		t.Fatalf("resolved page [%d,%d) does not hold offset 5000", out.Start, out.Start+out.Length)
	}
}

func TestRelayoutKeepsReaderOnSameText(t *testing.T) {
	t.Parallel()
	progress := newFakeProgress()
	renderer := &fakeRenderer{}
	uc := newReader(progress, renderer)
	ctx := context.Background()

	if _, err := uc.Open(ctx, dto.OpenInput{Ref: "moby", Context: context500(), Page: 11}); err != nil {
		t.Fatalf("open: %v", err)
	}
	saves := len(progress.saves)
	invalidates := renderer.invalidates

	out, err := uc.Relayout(ctx, dto.RelayoutInput{Context: context1000()})
	if err != nil {
		t.Fatalf("relayout: %v", err)
	}
	if out.Page != 6 || out.PageCount != 10 {
		t.Fatalf("expected page 6 of 10 after relayout, got %d of %d", out.Page, out.PageCount)
	}
	if out.Progress != 0.5 {
		t.Fatalf("relayout must not move progress, got %v", out.Progress)
	}
	if len(progress.saves) != saves {
		t.Fatalf("relayout should not persist")
	}
	if renderer.invalidates != invalidates+1 || renderer.asyncPages[len(renderer.asyncPages)-1] != 5 {
		t.Fatalf("relayout should invalidate and render page 5, got %d invalidates, pages %v", renderer.invalidates, renderer.asyncPages)
	}

	// Turning back and forth under the new layout stays on the same grid.
	out, err = uc.Turn(ctx, dto.TurnInput{Delta: -1})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if out.Page != 5 || out.Start != 4000 || out.Progress != 0.4 {
		t.Fatalf("unexpected page after turn: %+v", out)
	}
}

func TestTurnClampsAndPersistsInOrder(t *testing.T) {
	t.Parallel()
	progress := newFakeProgress()
	uc := newReader(progress, nil)
	ctx := context.Background()

	if _, err := uc.Open(ctx, dto.OpenInput{Ref: "moby", Context: context500()}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if out, err := uc.Turn(ctx, dto.TurnInput{Delta: -3}); err != nil || out.Page != 1 {
		t.Fatalf("turn before first page should stay on page 1, got %+v, %v", out, err)
	}
	for i := 0; i < 3; i++ {
		if _, err := uc.Turn(ctx, dto.TurnInput{Delta: 1}); err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}
	out, err := uc.Turn(ctx, dto.TurnInput{Delta: 100})
	if err != nil {
		t.Fatalf("turn to end: %v", err)
	}
	if out.Page != 20 {
		t.Fatalf("expected last page, got %d", out.Page)
	}
	var got []int
	for _, s := range progress.saves {
		got = append(got, s.SubrangeIndex)
	}
	want := []int{1, 2, 3, 19}
	if len(got) != len(want) {
		t.Fatalf("unexpected saves %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("saves out of order: %v", got)
		}
	}
}

func TestOpenContinuesWhenAccessRecordingFails(t *testing.T) {
	t.Parallel()
	progress := newFakeProgress()
	progress.accessErr = apperrors.ErrStorageFailure
	uc := newReader(progress, nil)

	out, err := uc.Open(context.Background(), dto.OpenInput{Ref: "short", Context: context500()})
	if err != nil {
		t.Fatalf("open should log and continue, got %v", err)
	}
	if out.Text != "call me ishmael" {
		t.Fatalf("unexpected page text %q", out.Text)
	}
}

func TestTurnPropagatesStorageFailure(t *testing.T) {
	t.Parallel()
	progress := newFakeProgress()
	uc := newReader(progress, nil)
	ctx := context.Background()
	if _, err := uc.Open(ctx, dto.OpenInput{Ref: "moby", Context: context500()}); err != nil {
		t.Fatalf("open: %v", err)
	}
	progress.saveErr = apperrors.ErrStorageFailure
	out, err := uc.Turn(ctx, dto.TurnInput{Delta: 1})
	if !errors.Is(err, apperrors.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if out.Page != 2 {
		t.Fatalf("page should still move, got %d", out.Page)
	}
}

func TestSessionErrors(t *testing.T) {
	t.Parallel()
	uc := newReader(newFakeProgress(), nil)
	ctx := context.Background()

	if _, err := uc.Turn(ctx, dto.TurnInput{Delta: 1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("turn without session should fail with ErrInvalidInput, got %v", err)
	}
	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("current without session should fail, got %v", err)
	}
	if _, err := uc.Open(ctx, dto.OpenInput{Ref: "missing", Context: context500()}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := uc.Open(ctx, dto.OpenInput{Ref: "moby"}); !errors.Is(err, apperrors.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if _, err := uc.Open(ctx, dto.OpenInput{Ref: "moby", Context: context500()}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := uc.GoTo(ctx, dto.GoToInput{Page: 21}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("goto past the end should fail, got %v", err)
	}
	if _, err := uc.Relayout(ctx, dto.RelayoutInput{}); !errors.Is(err, apperrors.ErrInvalidGeometry) {
		t.Fatalf("relayout with no geometry should fail, got %v", err)
	}
}

func TestEmptyDocument(t *testing.T) {
	t.Parallel()
	renderer := &fakeRenderer{}
	uc := newReader(newFakeProgress(), renderer)
	out, err := uc.Open(context.Background(), dto.OpenInput{Ref: "empty", Context: context500()})
	if err != nil {
		t.Fatalf("open empty: %v", err)
	}
	if out.Page != 0 || out.PageCount != 0 || out.Text != "" {
		t.Fatalf("unexpected empty output: %+v", out)
	}
	if len(renderer.syncPages) != 0 {
		t.Fatalf("empty document should not render")
	}
}

func TestRemoveClosesOpenDocument(t *testing.T) {
	t.Parallel()
	progress := newFakeProgress()
	uc := newReader(progress, nil)
	ctx := context.Background()
	if _, err := uc.Open(ctx, dto.OpenInput{Ref: "moby", Context: context500(), Page: 3}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := uc.Remove(ctx, "moby"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := progress.records["moby"]; ok {
		t.Fatalf("record should be gone")
	}
	if _, err := uc.Current(ctx); err == nil {
		t.Fatalf("session should be closed after remove")
	}
}

func TestPaginateDoesNotOpenSession(t *testing.T) {
	t.Parallel()
	uc := newReader(newFakeProgress(), nil)
	ctx := context.Background()
	out, err := uc.Paginate(ctx, dto.PaginateInput{Ref: "moby", Context: context1000()})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if out.Total != 10000 || len(out.Pages) != 10 || out.Pages[9].Start != 9000 {
		t.Fatalf("unexpected pagination: %+v", out)
	}
	if _, err := uc.Current(ctx); err == nil {
		t.Fatalf("paginate must not open a session")
	}
}
