package in

import (
	"context"

	"ereader/internal/modules/reader/dto"
	readerin "ereader/internal/modules/reader/port/in"
)

type TUIHandler struct {
	usecase readerin.Usecase
}

func NewTUIHandler(usecase readerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, input dto.OpenInput) (dto.PageOutput, error) {
	return h.usecase.Open(ctx, input)
}

func (h TUIHandler) Turn(ctx context.Context, delta int) (dto.PageOutput, error) {
	return h.usecase.Turn(ctx, dto.TurnInput{Delta: delta})
}

func (h TUIHandler) GoTo(ctx context.Context, page int) (dto.PageOutput, error) {
	return h.usecase.GoTo(ctx, dto.GoToInput{Page: page})
}

func (h TUIHandler) Relayout(ctx context.Context, input dto.RelayoutInput) (dto.PageOutput, error) {
	return h.usecase.Relayout(ctx, input)
}

func (h TUIHandler) Close(ctx context.Context) error {
	return h.usecase.Close(ctx)
}
