package in

import (
	"context"

	"ereader/internal/modules/reader/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.PageOutput, error)
	Turn(ctx context.Context, input dto.TurnInput) (dto.PageOutput, error)
	GoTo(ctx context.Context, input dto.GoToInput) (dto.PageOutput, error)
	Relayout(ctx context.Context, input dto.RelayoutInput) (dto.PageOutput, error)
	Current(ctx context.Context) (dto.PageOutput, error)
	Close(ctx context.Context) error
	Remove(ctx context.Context, documentID string) error
	Paginate(ctx context.Context, input dto.PaginateInput) (dto.PaginateOutput, error)
}
