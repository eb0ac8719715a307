package service

import (
	"context"
	"fmt"

	"ereader/internal/modules/progress/domain"
	progressout "ereader/internal/modules/progress/port/out"
	"ereader/internal/platform/clock"
	apperrors "ereader/internal/platform/errors"
)

type ProgressService struct {
	clock clock.Clock
	store progressout.ProgressStore
}

func NewProgressService(clock clock.Clock, store progressout.ProgressStore) *ProgressService {
	return &ProgressService{clock: clock, store: store}
}

// RecordAccess stamps the document as opened now, creating its record with
// the default position on first access.
func (s *ProgressService) RecordAccess(ctx context.Context, documentID string) (float64, error) {
	if err := domain.ValidateDocumentID(documentID); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	at := clock.UnixSeconds(s.clock.Now())
	if err := s.store.UpsertAccess(ctx, documentID, at); err != nil {
		return 0, err
	}
	return at, nil
}

func (s *ProgressService) SavePosition(ctx context.Context, documentID string, position domain.Position) error {
	if err := domain.ValidateDocumentID(documentID); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := position.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.store.UpdatePosition(ctx, documentID, position)
}

func (s *ProgressService) GetPosition(ctx context.Context, documentID string) (domain.Position, error) {
	return s.store.GetPosition(ctx, documentID)
}

func (s *ProgressService) Remove(ctx context.Context, documentID string) error {
	if err := domain.ValidateDocumentID(documentID); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.store.Remove(ctx, documentID)
}

func (s *ProgressService) ListRecent(ctx context.Context) ([]domain.Summary, error) {
	return s.store.ListByRecency(ctx)
}
