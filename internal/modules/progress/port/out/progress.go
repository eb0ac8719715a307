package out

import (
	"context"

	"ereader/internal/modules/progress/domain"
)

// ProgressStore persists one record per document. Mutations are applied by
// a single writer in submission order.
type ProgressStore interface {
	UpsertAccess(ctx context.Context, documentID string, lastAccess float64) error
	UpdatePosition(ctx context.Context, documentID string, position domain.Position) error
	GetPosition(ctx context.Context, documentID string) (domain.Position, error)
	Get(ctx context.Context, documentID string) (domain.Record, bool, error)
	Remove(ctx context.Context, documentID string) error
	ListByRecency(ctx context.Context) ([]domain.Summary, error)
	Close() error
}
