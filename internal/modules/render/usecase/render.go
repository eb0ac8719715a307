package usecase

import (
	"context"
	"io"

	"ereader/internal/modules/render/domain"
	"ereader/internal/modules/render/dto"
	renderin "ereader/internal/modules/render/port/in"
	"ereader/internal/modules/render/service"
)

type Interactor[D any] struct {
	svc *service.RenderService[D]
}

func NewInteractor[D any](svc *service.RenderService[D]) renderin.Usecase {
	return &Interactor[D]{svc: svc}
}

func (i *Interactor[D]) Render(ctx context.Context, input dto.RenderInput) uint64 {
	return uint64(i.svc.Render(ctx, toRequest(input)))
}

func (i *Interactor[D]) RenderSync(ctx context.Context, input dto.RenderInput) (uint64, error) {
	token, err := i.svc.RenderSync(ctx, toRequest(input))
	return uint64(token), err
}

func (i *Interactor[D]) Invalidate(context.Context) {
	i.svc.Invalidate()
}

func (i *Interactor[D]) Status(_ context.Context, token uint64) dto.StatusOutput {
	_, committed, _ := i.svc.Committed()
	return dto.StatusOutput{
		Token:     token,
		State:     i.svc.Status(domain.Token(token)).String(),
		Committed: uint64(committed),
	}
}

func (i *Interactor[D]) WriteCommitted(_ context.Context, w io.Writer) error {
	return i.svc.WriteCommitted(w)
}

func toRequest(input dto.RenderInput) domain.Request {
	return domain.Request{
		DocumentID: input.DocumentID,
		PageIndex:  input.PageIndex,
		Text:       input.Text,
		Page:       input.Page,
		Context:    input.Context,
	}
}
