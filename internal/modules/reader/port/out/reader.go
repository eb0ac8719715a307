package out

import (
	"context"

	pagedomain "ereader/internal/modules/pagination/domain"
	progressdomain "ereader/internal/modules/progress/domain"
	"ereader/internal/modules/reader/domain"
)

// DocumentSource loads a document by reference (a local path).
type DocumentSource interface {
	Load(ctx context.Context, ref string) (domain.Document, error)
}

type Paginator interface {
	Paginate(ctx context.Context, text []rune, mc pagedomain.MeasurementContext) (domain.Layout, error)
	Invalidate(ctx context.Context) error
}

type ProgressPort interface {
	RecordAccess(ctx context.Context, documentID string) error
	Load(ctx context.Context, documentID string) (progressdomain.Position, error)
	Save(ctx context.Context, documentID string, position progressdomain.Position) error
	Remove(ctx context.Context, documentID string) error
}

// PageRenderer draws the current page of a session. Render returns the token
// of the request; RenderSync draws and commits before returning.
type PageRenderer interface {
	Render(ctx context.Context, session domain.Session) uint64
	RenderSync(ctx context.Context, session domain.Session) (uint64, error)
	Invalidate()
}
