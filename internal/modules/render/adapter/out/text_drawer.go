package out

import (
	"context"
	"strings"

	"github.com/mattn/go-runewidth"

	"ereader/internal/modules/render/domain"
	renderout "ereader/internal/modules/render/port/out"
	"ereader/internal/platform/typeset"
)

// TextDrawer draws pages as terminal text, one cell per display unit.
type TextDrawer struct{}

func NewTextDrawer() renderout.PageDrawer[string] {
	return TextDrawer{}
}

func (TextDrawer) Draw(ctx context.Context, req domain.Request, current func() bool) (string, error) {
	mc := req.Context
	if err := mc.Validate(); err != nil {
		return "", err
	}
	frame := typeset.NewFrame(typeset.CellMeasurer{}, mc.Style())
	lines := pageLines(frame, req)

	rows := make([]string, 0, mc.Display.Height)
	var b strings.Builder
	for i, line := range lines {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			if !current() {
				return "", domain.ErrSuperseded
			}
		}
		for len(rows) < line.Top.Floor() {
			rows = append(rows, "")
		}
		b.Reset()
		col := 0
		xs := frame.Positions(line)
		for j, r := range line.Text {
			if pad := xs[j].Floor() - col; pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
				col += pad
			}
			if r == '\t' {
				b.WriteString("    ")
				col += 4
				continue
			}
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(rows, "\n"), nil
}
