package usecase

import (
	"context"

	"ereader/internal/modules/reader/domain"
	"ereader/internal/modules/reader/dto"
	readerin "ereader/internal/modules/reader/port/in"
	"ereader/internal/modules/reader/service"
)

type Interactor struct {
	svc *service.ReaderService
}

func NewInteractor(svc *service.ReaderService) readerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(ctx context.Context, input dto.OpenInput) (dto.PageOutput, error) {
	session, err := i.svc.Open(ctx, input.Ref, input.Context, input.Page-1)
	if err != nil && session.Document.ID == "" {
		return dto.PageOutput{}, err
	}
	return toPageOutput(session), err
}

func (i *Interactor) Turn(ctx context.Context, input dto.TurnInput) (dto.PageOutput, error) {
	session, err := i.svc.Turn(ctx, input.Delta)
	return toPageOutput(session), err
}

func (i *Interactor) GoTo(ctx context.Context, input dto.GoToInput) (dto.PageOutput, error) {
	session, err := i.svc.GoTo(ctx, input.Page-1)
	return toPageOutput(session), err
}

func (i *Interactor) Relayout(ctx context.Context, input dto.RelayoutInput) (dto.PageOutput, error) {
	session, err := i.svc.Relayout(ctx, input.Context)
	return toPageOutput(session), err
}

func (i *Interactor) Current(context.Context) (dto.PageOutput, error) {
	session, err := i.svc.Current()
	if err != nil {
		return dto.PageOutput{}, err
	}
	return toPageOutput(session), nil
}

func (i *Interactor) Close(context.Context) error {
	i.svc.Close()
	return nil
}

func (i *Interactor) Remove(ctx context.Context, documentID string) error {
	return i.svc.Remove(ctx, documentID)
}

func (i *Interactor) Paginate(ctx context.Context, input dto.PaginateInput) (dto.PaginateOutput, error) {
	doc, layout, err := i.svc.Paginate(ctx, input.Ref, input.Context)
	if err != nil {
		return dto.PaginateOutput{}, err
	}
	out := dto.PaginateOutput{
		DocumentID:  doc.ID,
		Total:       layout.Total,
		Fingerprint: layout.Fingerprint,
		Cached:      layout.Cached,
		Pages:       make([]dto.PageSpan, 0, len(layout.Pages)),
	}
	for _, p := range layout.Pages {
		out.Pages = append(out.Pages, dto.PageSpan{Start: p.Start, Length: p.Length})
	}
	return out, nil
}

func toPageOutput(s domain.Session) dto.PageOutput {
	if s.Document.ID == "" {
		return dto.PageOutput{}
	}
	r := s.PageRange()
	out := dto.PageOutput{
		DocumentID:  s.Document.ID,
		Path:        s.Document.Path,
		PageCount:   len(s.Layout.Pages),
		Start:       r.Start,
		Length:      r.Length,
		Text:        string(s.PageText()),
		Progress:    s.Position.Progress,
		Percent:     s.Position.Progress * 100,
		Fingerprint: s.Layout.Fingerprint,
		RenderToken: s.RenderToken,
	}
	if out.PageCount > 0 {
		out.Page = s.Page + 1
	}
	return out
}
