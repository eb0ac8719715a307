package domain

import (
	"fmt"
	"strconv"

	apperrors "ereader/internal/platform/errors"
	"ereader/internal/platform/typeset"
)

type Rect struct {
	Width  int
	Height int
}

// MeasurementContext is the geometry and typography a pagination is computed
// against. Two equal contexts always produce the same pages for the same text.
type MeasurementContext struct {
	Display          Rect
	FontSize         float64
	LineSpacing      float64
	ParagraphSpacing float64
	Alignment        typeset.Alignment
	Wrap             typeset.WrapMode
}

func (c MeasurementContext) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("%w: display %dx%d", apperrors.ErrInvalidGeometry, c.Display.Width, c.Display.Height)
	}
	return nil
}

// Key is a stable textual form of the context, used in cache keys and
// layout fingerprints.
func (c MeasurementContext) Key() string {
	return "w=" + strconv.Itoa(c.Display.Width) +
		";h=" + strconv.Itoa(c.Display.Height) +
		";fs=" + strconv.FormatFloat(c.FontSize, 'g', -1, 64) +
		";ls=" + strconv.FormatFloat(c.LineSpacing, 'g', -1, 64) +
		";ps=" + strconv.FormatFloat(c.ParagraphSpacing, 'g', -1, 64) +
		";al=" + c.Alignment.String() +
		";wr=" + c.Wrap.String()
}

// Style converts the context into the layout style of a typeset.Frame.
func (c MeasurementContext) Style() typeset.Style {
	return typeset.Style{
		Width:            c.Display.Width,
		Height:           c.Display.Height,
		LineSpacing:      c.LineSpacing,
		ParagraphSpacing: c.ParagraphSpacing,
		Align:            c.Alignment,
		Wrap:             c.Wrap,
	}
}

// WithDisplay returns a copy of c sized to a new display rectangle.
func (c MeasurementContext) WithDisplay(width, height int) MeasurementContext {
	c.Display = Rect{Width: width, Height: height}
	return c
}
