package usecase

import (
	"context"

	"ereader/internal/modules/pagination/dto"
	paginationin "ereader/internal/modules/pagination/port/in"
	"ereader/internal/modules/pagination/service"
)

type Interactor struct {
	svc *service.PaginationService
}

func NewInteractor(svc *service.PaginationService) paginationin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Paginate(ctx context.Context, input dto.PaginateInput) (dto.PaginateOutput, error) {
	res, err := i.svc.Paginate(ctx, input.Text, input.Context)
	if err != nil {
		return dto.PaginateOutput{}, err
	}
	return dto.PaginateOutput{
		Pages:       res.Pages,
		Total:       len(input.Text),
		ContentHash: res.ContentHash,
		Fingerprint: res.Fingerprint,
		Cached:      res.Cached,
	}, nil
}

func (i *Interactor) Invalidate(context.Context) error {
	i.svc.Invalidate()
	return nil
}
