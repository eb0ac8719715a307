package in

import (
	"context"

	"ereader/internal/modules/reader/dto"
	readerin "ereader/internal/modules/reader/port/in"
)

type CLIHandler struct {
	usecase readerin.Usecase
}

func NewCLIHandler(usecase readerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Open opens input.Ref at the stored position, or at input.Page (1-based)
// when it is positive.
func (h CLIHandler) Open(ctx context.Context, input dto.OpenInput) (dto.PageOutput, error) {
	return h.usecase.Open(ctx, input)
}

func (h CLIHandler) Turn(ctx context.Context, delta int) (dto.PageOutput, error) {
	return h.usecase.Turn(ctx, dto.TurnInput{Delta: delta})
}

func (h CLIHandler) Paginate(ctx context.Context, input dto.PaginateInput) (dto.PaginateOutput, error) {
	return h.usecase.Paginate(ctx, input)
}

func (h CLIHandler) Remove(ctx context.Context, documentID string) error {
	return h.usecase.Remove(ctx, documentID)
}

func (h CLIHandler) Close(ctx context.Context) error {
	return h.usecase.Close(ctx)
}
