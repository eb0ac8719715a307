package in

import (
	"context"
	"io"

	"ereader/internal/modules/render/dto"
)

type Usecase interface {
	Render(ctx context.Context, input dto.RenderInput) uint64
	RenderSync(ctx context.Context, input dto.RenderInput) (uint64, error)
	Invalidate(ctx context.Context)
	Status(ctx context.Context, token uint64) dto.StatusOutput
	// WriteCommitted encodes the drawable currently on display.
	WriteCommitted(ctx context.Context, w io.Writer) error
}
