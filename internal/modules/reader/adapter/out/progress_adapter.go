package out

import (
	"context"

	progressdomain "ereader/internal/modules/progress/domain"
	progressdto "ereader/internal/modules/progress/dto"
	progressin "ereader/internal/modules/progress/port/in"
	readerout "ereader/internal/modules/reader/port/out"
)

type ProgressAdapter struct {
	progress progressin.Usecase
}

func NewProgressAdapter(progress progressin.Usecase) readerout.ProgressPort {
	return &ProgressAdapter{progress: progress}
}

func (a *ProgressAdapter) RecordAccess(ctx context.Context, documentID string) error {
	_, err := a.progress.RecordAccess(ctx, progressdto.RecordAccessInput{DocumentID: documentID})
	return err
}

func (a *ProgressAdapter) Load(ctx context.Context, documentID string) (progressdomain.Position, error) {
	p, err := a.progress.GetPosition(ctx, documentID)
	if err != nil {
		return progressdomain.Position{}, err
	}
	return progressdomain.Position{
		ChapterIndex:  p.ChapterIndex,
		SubrangeIndex: p.SubrangeIndex,
		Progress:      p.Progress,
	}, nil
}

func (a *ProgressAdapter) Save(ctx context.Context, documentID string, position progressdomain.Position) error {
	return a.progress.SavePosition(ctx, progressdto.SavePositionInput{
		DocumentID: documentID,
		Position: progressdto.PositionDTO{
			ChapterIndex:  position.ChapterIndex,
			SubrangeIndex: position.SubrangeIndex,
			Progress:      position.Progress,
		},
	})
}

func (a *ProgressAdapter) Remove(ctx context.Context, documentID string) error {
	return a.progress.Remove(ctx, documentID)
}
