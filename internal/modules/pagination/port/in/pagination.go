package in

import (
	"context"

	"ereader/internal/modules/pagination/dto"
)

type Usecase interface {
	Paginate(ctx context.Context, input dto.PaginateInput) (dto.PaginateOutput, error)
	Invalidate(ctx context.Context) error
}
