package out

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"ereader/internal/modules/render/domain"
	renderout "ereader/internal/modules/render/port/out"
	"ereader/internal/platform/typeset"
)

// checkEvery is how many lines are drawn between staleness checks.
const checkEvery = 4

var (
	Paper = color.RGBA{R: 0xfb, G: 0xf8, B: 0xf1, A: 0xff}
	Ink   = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
)

// RasterDrawer draws pages into RGBA images sized to the display rectangle.
type RasterDrawer struct {
	faces      typeset.FaceSource
	background color.Color
	foreground color.Color
}

func NewRasterDrawer(faces typeset.FaceSource) renderout.PageDrawer[*image.RGBA] {
	return &RasterDrawer{faces: faces, background: Paper, foreground: Ink}
}

func (d *RasterDrawer) Draw(ctx context.Context, req domain.Request, current func() bool) (*image.RGBA, error) {
	mc := req.Context
	if err := mc.Validate(); err != nil {
		return nil, err
	}
	face, err := d.faces.Face(mc.FontSize)
	if err != nil {
		return nil, fmt.Errorf("open face: %w", err)
	}
	defer func() { _ = face.Close() }()

	m := typeset.NewFaceMeasurer(face)
	frame := typeset.NewFrame(m, mc.Style())
	lines := pageLines(frame, req)

	img := image.NewRGBA(image.Rect(0, 0, mc.Display.Width, mc.Display.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(d.background), image.Point{}, draw.Src)
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(d.foreground), Face: face}

	for i, line := range lines {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !current() {
				return nil, domain.ErrSuperseded
			}
		}
		xs := frame.Positions(line)
		baseline := line.Top + m.Ascent()
		for j, r := range line.Text {
			if r == ' ' || r == '\t' {
				continue
			}
			drawer.Dot = fixed.Point26_6{X: xs[j], Y: baseline}
			drawer.DrawString(string(r))
		}
	}
	return img, nil
}

// pageLines lays out the page within its document tail and keeps the lines
// that belong to the page.
func pageLines(frame *typeset.Frame, req domain.Request) []typeset.Line {
	lines, _ := frame.Layout(req.Tail())
	for i, line := range lines {
		if line.Start >= req.Page.Length {
			return lines[:i]
		}
	}
	return lines
}
