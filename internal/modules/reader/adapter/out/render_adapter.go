package out

import (
	"context"

	"ereader/internal/modules/reader/domain"
	readerout "ereader/internal/modules/reader/port/out"
	renderdto "ereader/internal/modules/render/dto"
	renderin "ereader/internal/modules/render/port/in"
)

type RenderAdapter struct {
	render renderin.Usecase
}

func NewRenderAdapter(render renderin.Usecase) readerout.PageRenderer {
	return &RenderAdapter{render: render}
}

func (a *RenderAdapter) Render(ctx context.Context, session domain.Session) uint64 {
	return a.render.Render(ctx, toRenderInput(session))
}

func (a *RenderAdapter) RenderSync(ctx context.Context, session domain.Session) (uint64, error) {
	return a.render.RenderSync(ctx, toRenderInput(session))
}

func (a *RenderAdapter) Invalidate() {
	a.render.Invalidate(context.Background())
}

func toRenderInput(s domain.Session) renderdto.RenderInput {
	return renderdto.RenderInput{
		DocumentID: s.Document.ID,
		PageIndex:  s.Page,
		Text:       s.Document.Text,
		Page:       s.PageRange(),
		Context:    s.Context,
	}
}
