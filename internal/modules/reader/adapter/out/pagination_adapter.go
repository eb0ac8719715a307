package out

import (
	"context"

	pagedomain "ereader/internal/modules/pagination/domain"
	paginationdto "ereader/internal/modules/pagination/dto"
	paginationin "ereader/internal/modules/pagination/port/in"
	"ereader/internal/modules/reader/domain"
	readerout "ereader/internal/modules/reader/port/out"
)

type PaginationAdapter struct {
	pagination paginationin.Usecase
}

func NewPaginationAdapter(pagination paginationin.Usecase) readerout.Paginator {
	return &PaginationAdapter{pagination: pagination}
}

func (a *PaginationAdapter) Paginate(ctx context.Context, text []rune, mc pagedomain.MeasurementContext) (domain.Layout, error) {
	out, err := a.pagination.Paginate(ctx, paginationdto.PaginateInput{Text: text, Context: mc})
	if err != nil {
		return domain.Layout{}, err
	}
	return domain.Layout{
		Pages:       out.Pages,
		Total:       out.Total,
		Fingerprint: out.Fingerprint,
		Cached:      out.Cached,
	}, nil
}

func (a *PaginationAdapter) Invalidate(ctx context.Context) error {
	return a.pagination.Invalidate(ctx)
}
