package out

import (
	"fmt"

	"ereader/internal/modules/pagination/domain"
	paginationout "ereader/internal/modules/pagination/port/out"
	"ereader/internal/platform/typeset"
)

// TypesetEngine measures with font faces served by a typeset.FaceSource.
type TypesetEngine struct {
	faces typeset.FaceSource
}

func NewTypesetEngine(faces typeset.FaceSource) paginationout.LayoutEngine {
	return &TypesetEngine{faces: faces}
}

func (e *TypesetEngine) NewFitter(mc domain.MeasurementContext) (domain.Fitter, func(), error) {
	face, err := e.faces.Face(mc.FontSize)
	if err != nil {
		return nil, nil, fmt.Errorf("open face: %w", err)
	}
	release := func() { _ = face.Close() }
	return typeset.NewFrame(typeset.NewFaceMeasurer(face), mc.Style()), release, nil
}

// CellEngine measures in terminal cells; the display rectangle is in
// columns and rows and the font size is ignored.
type CellEngine struct{}

func NewCellEngine() paginationout.LayoutEngine {
	return CellEngine{}
}

func (CellEngine) NewFitter(mc domain.MeasurementContext) (domain.Fitter, func(), error) {
	return typeset.NewFrame(typeset.CellMeasurer{}, mc.Style()), func() {}, nil
}
