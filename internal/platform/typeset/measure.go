package typeset

import (
	"fmt"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Measurer reports glyph advances and vertical metrics.
// Implementations are not required to be safe for concurrent use.
type Measurer interface {
	// Advance returns the horizontal advance of r when it follows prev.
	// prev is -1 at the start of a line.
	Advance(prev, r rune) fixed.Int26_6
	LineHeight() fixed.Int26_6
	Ascent() fixed.Int26_6
}

// FaceMeasurer measures with a font.Face.
type FaceMeasurer struct {
	face    font.Face
	metrics font.Metrics
	missing fixed.Int26_6
}

func NewFaceMeasurer(face font.Face) *FaceMeasurer {
	missing, ok := face.GlyphAdvance('?')
	if !ok {
		missing = 0
	}
	return &FaceMeasurer{face: face, metrics: face.Metrics(), missing: missing}
}

func (m *FaceMeasurer) Advance(prev, r rune) fixed.Int26_6 {
	adv, ok := m.face.GlyphAdvance(r)
	if !ok {
		adv = m.missing
	}
	if prev >= 0 {
		adv += m.face.Kern(prev, r)
	}
	return adv
}

func (m *FaceMeasurer) LineHeight() fixed.Int26_6 {
	return fixed.I(m.metrics.Height.Ceil())
}

func (m *FaceMeasurer) Ascent() fixed.Int26_6 {
	return m.metrics.Ascent
}

// Face returns the underlying face, for drawing.
func (m *FaceMeasurer) Face() font.Face {
	return m.face
}

// CellMeasurer measures terminal cells: every rune advances by its
// display width and every line is one cell tall.
type CellMeasurer struct{}

func (CellMeasurer) Advance(_, r rune) fixed.Int26_6 {
	if r == '\t' {
		return fixed.I(4)
	}
	return fixed.I(runewidth.RuneWidth(r))
}

func (CellMeasurer) LineHeight() fixed.Int26_6 { return fixed.I(1) }

func (CellMeasurer) Ascent() fixed.Int26_6 { return fixed.I(1) }

// FaceSource hands out faces for a font size. Callers own the returned face
// and must Close it; faces are not shared between goroutines.
type FaceSource interface {
	Face(size float64) (font.Face, error)
}

// GoRegular serves the embedded Go Regular typeface at any size.
type GoRegular struct {
	once sync.Once
	font *opentype.Font
	err  error
}

func (g *GoRegular) Face(size float64) (font.Face, error) {
	g.once.Do(func() {
		g.font, g.err = opentype.Parse(goregular.TTF)
	})
	if g.err != nil {
		return nil, fmt.Errorf("parse go regular: %w", g.err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	face, err := opentype.NewFace(g.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

// Fixed7x13 ignores the size and always serves the 7x13 bitmap face.
// Every glyph is 7 units wide and every line 13 units tall, which keeps
// page capacities easy to predict.
type Fixed7x13 struct{}

func (Fixed7x13) Face(float64) (font.Face, error) {
	return basicfont.Face7x13, nil
}
