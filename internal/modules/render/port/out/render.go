package out

import (
	"context"
	"io"

	"ereader/internal/modules/render/domain"
)

// PageDrawer produces the drawable for one page. Implementations should
// poll current while drawing and stop early once it reports false.
type PageDrawer[D any] interface {
	Draw(ctx context.Context, req domain.Request, current func() bool) (D, error)
}

type Encoder[D any] interface {
	Encode(w io.Writer, drawable D) error
}
