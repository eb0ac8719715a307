package usecase

import (
	"context"

	"ereader/internal/modules/progress/domain"
	"ereader/internal/modules/progress/dto"
	progressin "ereader/internal/modules/progress/port/in"
	"ereader/internal/modules/progress/service"
)

type Interactor struct {
	svc *service.ProgressService
}

func NewInteractor(svc *service.ProgressService) progressin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) RecordAccess(ctx context.Context, input dto.RecordAccessInput) (dto.RecordAccessOutput, error) {
	at, err := i.svc.RecordAccess(ctx, input.DocumentID)
	if err != nil {
		return dto.RecordAccessOutput{}, err
	}
	return dto.RecordAccessOutput{DocumentID: input.DocumentID, LastAccess: at}, nil
}

func (i *Interactor) SavePosition(ctx context.Context, input dto.SavePositionInput) error {
	return i.svc.SavePosition(ctx, input.DocumentID, domain.Position{
		ChapterIndex:  input.Position.ChapterIndex,
		SubrangeIndex: input.Position.SubrangeIndex,
		Progress:      input.Position.Progress,
	})
}

func (i *Interactor) GetPosition(ctx context.Context, documentID string) (dto.PositionDTO, error) {
	pos, err := i.svc.GetPosition(ctx, documentID)
	if err != nil {
		return dto.PositionDTO{}, err
	}
	return dto.PositionDTO{ChapterIndex: pos.ChapterIndex, SubrangeIndex: pos.SubrangeIndex, Progress: pos.Progress}, nil
}

func (i *Interactor) Remove(ctx context.Context, documentID string) error {
	return i.svc.Remove(ctx, documentID)
}

func (i *Interactor) ListRecent(ctx context.Context) ([]dto.RecentOutput, error) {
	items, err := i.svc.ListRecent(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecentOutput, 0, len(items))
	for _, item := range items {
		out = append(out, dto.RecentOutput{
			DocumentID: item.DocumentID,
			LastAccess: item.LastAccessTime(),
			Percent:    item.Progress * 100,
		})
	}
	return out, nil
}
