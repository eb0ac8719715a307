package in

import (
	"context"

	"ereader/internal/modules/progress/dto"
)

type Usecase interface {
	RecordAccess(ctx context.Context, input dto.RecordAccessInput) (dto.RecordAccessOutput, error)
	SavePosition(ctx context.Context, input dto.SavePositionInput) error
	GetPosition(ctx context.Context, documentID string) (dto.PositionDTO, error)
	Remove(ctx context.Context, documentID string) error
	ListRecent(ctx context.Context) ([]dto.RecentOutput, error)
}
