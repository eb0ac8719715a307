package in

import (
	"context"

	"ereader/internal/modules/progress/dto"
	progressin "ereader/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListRecent(ctx context.Context) ([]dto.RecentOutput, error) {
	return h.usecase.ListRecent(ctx)
}

func (h CLIHandler) Show(ctx context.Context, documentID string) (dto.PositionDTO, error) {
	return h.usecase.GetPosition(ctx, documentID)
}
