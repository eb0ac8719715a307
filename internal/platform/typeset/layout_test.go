package typeset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"ereader/internal/platform/typeset"
)

func fixedFrame(style typeset.Style) *typeset.Frame {
	return typeset.NewFrame(typeset.NewFaceMeasurer(basicfont.Face7x13), style)
}

func TestFitCharacterWrap(t *testing.T) {
	t.Parallel()
	// 5 glyphs per line, 2 lines per frame.
	f := fixedFrame(typeset.Style{Width: 35, Height: 26})
	assert.Equal(t, 10, f.Fit([]rune("abcdefghijklmnop")))
	assert.Equal(t, 3, f.Fit([]rune("abc")))
	assert.Equal(t, 0, f.Fit(nil))
}

func TestFitNewlinesConsumeLines(t *testing.T) {
	t.Parallel()
	f := fixedFrame(typeset.Style{Width: 35, Height: 26})
	// "ab\n" is one line, "cd\n" the second; "ef" starts the next frame.
	assert.Equal(t, 6, f.Fit([]rune("ab\ncd\nef")))
	assert.Equal(t, 2, f.Fit([]rune("\n\n\n")))
}

func TestFitParagraphAndLineSpacing(t *testing.T) {
	t.Parallel()
	// Line boxes are 13 tall; a paragraph gap of 13 pushes the second
	// paragraph out of a 26-tall frame.
	f := fixedFrame(typeset.Style{Width: 35, Height: 26, ParagraphSpacing: 13})
	assert.Equal(t, 3, f.Fit([]rune("ab\ncd")))

	g := fixedFrame(typeset.Style{Width: 35, Height: 39, LineSpacing: 13})
	assert.Equal(t, 10, g.Fit([]rune("abcdefghijklmno")))
}

func TestFitPlacesOverWideGlyph(t *testing.T) {
	t.Parallel()
	// Narrower than one glyph: each line still takes exactly one rune.
	f := fixedFrame(typeset.Style{Width: 3, Height: 13})
	assert.Equal(t, 1, f.Fit([]rune("xyz")))
}

func TestFitTooShortFrame(t *testing.T) {
	t.Parallel()
	f := fixedFrame(typeset.Style{Width: 35, Height: 12})
	assert.Equal(t, 0, f.Fit([]rune("abc")))
}

func TestWordWrapBreaksAfterSpaces(t *testing.T) {
	t.Parallel()
	f := fixedFrame(typeset.Style{Width: 42, Height: 39, Wrap: typeset.WrapWordChar})
	lines, n := f.Layout([]rune("ab cdef ghijklmnop"))
	require.Len(t, lines, 3)
	assert.Equal(t, "ab ", string(lines[0].Text))
	assert.Equal(t, "cdef ", string(lines[1].Text))
	// Over-wide word falls back to character breaks.
	assert.Equal(t, "ghijkl", string(lines[2].Text))
	assert.Equal(t, 14, n)
}

func TestPositionsAlignment(t *testing.T) {
	t.Parallel()
	text := []rune("ab")
	left := fixedFrame(typeset.Style{Width: 35, Height: 13})
	lines, _ := left.Layout(text)
	assert.Equal(t, []fixed.Int26_6{0, fixed.I(7)}, left.Positions(lines[0]))

	right := fixedFrame(typeset.Style{Width: 35, Height: 13, Align: typeset.AlignRight})
	lines, _ = right.Layout(text)
	assert.Equal(t, []fixed.Int26_6{fixed.I(21), fixed.I(28)}, right.Positions(lines[0]))

	center := fixedFrame(typeset.Style{Width: 35, Height: 13, Align: typeset.AlignCenter})
	lines, _ = center.Layout(text)
	assert.Equal(t, fixed.I(21)/2, center.Positions(lines[0])[0])
}

func TestPositionsJustifiedSpreadsGaps(t *testing.T) {
	t.Parallel()
	f := fixedFrame(typeset.Style{Width: 49, Height: 26, Align: typeset.AlignJustified, Wrap: typeset.WrapWordChar})
	lines, _ := f.Layout([]rune("a b c d e"))
	require.NotEmpty(t, lines)
	pos := f.Positions(lines[0])
	// First line "a b c " has two inner gaps and 7 units of slack.
	assert.Equal(t, "a b c ", string(lines[0].Text))
	assert.Greater(t, pos[4], fixed.I(28))
}

func TestCellMeasurer(t *testing.T) {
	t.Parallel()
	f := typeset.NewFrame(typeset.CellMeasurer{}, typeset.Style{Width: 4, Height: 2})
	assert.Equal(t, 8, f.Fit([]rune("abcdefghij")))
	// Wide runes take two cells.
	assert.Equal(t, 4, f.Fit([]rune("日本語です")))
}

func TestParseStyleNames(t *testing.T) {
	t.Parallel()
	a, err := typeset.ParseAlignment("justify")
	require.NoError(t, err)
	assert.Equal(t, typeset.AlignJustified, a)
	_, err = typeset.ParseAlignment("diagonal")
	assert.Error(t, err)

	w, err := typeset.ParseWrapMode("word")
	require.NoError(t, err)
	assert.Equal(t, typeset.WrapWordChar, w)
	assert.Equal(t, "char", typeset.WrapChar.String())
}

func TestGoRegularFace(t *testing.T) {
	t.Parallel()
	src := &typeset.GoRegular{}
	face, err := src.Face(16)
	require.NoError(t, err)
	defer func() { _ = face.Close() }()
	m := typeset.NewFaceMeasurer(face)
	assert.Greater(t, m.LineHeight(), fixed.I(0))
	assert.Greater(t, m.Advance(-1, 'W'), m.Advance(-1, 'i'))

	_, err = src.Face(0)
	assert.Error(t, err)
}
