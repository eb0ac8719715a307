package typeset

import "golang.org/x/image/math/fixed"

// Line is one laid-out line of a frame.
type Line struct {
	// Start and End are rune offsets into the laid-out text. End is exclusive
	// and includes a consumed trailing newline.
	Start int
	End   int
	// Text holds the visible runes, without the trailing newline.
	Text []rune
	// Top is the distance from the frame top to the top of the line box.
	Top fixed.Int26_6
	// Width is the natural (unaligned) advance of Text.
	Width fixed.Int26_6
	// ParagraphEnd is set when the line was ended by a newline or by the end
	// of the text rather than by the frame width.
	ParagraphEnd bool
}

// Frame lays text out against one Style with one Measurer.
type Frame struct {
	m     Measurer
	style Style
	width fixed.Int26_6
}

func NewFrame(m Measurer, style Style) *Frame {
	return &Frame{m: m, style: style, width: fixed.I(style.Width)}
}

func (f *Frame) Style() Style {
	return f.style
}

// Fit returns how many leading runes of text fit the frame. It returns 0 only
// when text is empty or not even one line fits the frame height.
func (f *Frame) Fit(text []rune) int {
	_, n := f.layout(text, false)
	return n
}

// Layout lays out as many leading runes of text as fit the frame and reports
// the lines together with the number of runes they consume.
func (f *Frame) Layout(text []rune) ([]Line, int) {
	return f.layout(text, true)
}

func (f *Frame) layout(text []rune, keep bool) ([]Line, int) {
	var lines []Line
	lineHeight := f.m.LineHeight()
	height := fixed.I(f.style.Height)
	lineGap := toFixed(f.style.LineSpacing)
	paraGap := toFixed(f.style.ParagraphSpacing)

	y := fixed.Int26_6(0)
	pos := 0
	for pos < len(text) {
		if y+lineHeight > height {
			break
		}
		line := f.breakLine(text, pos)
		if keep {
			line.Top = y
			lines = append(lines, line)
		}
		pos = line.End
		y += lineHeight + lineGap
		if line.ParagraphEnd {
			y += paraGap
		}
	}
	return lines, pos
}

// breakLine finds the end of the line starting at start. The first rune is
// always placed, however wide, so every line consumes at least one rune.
func (f *Frame) breakLine(text []rune, start int) Line {
	x := fixed.Int26_6(0)
	prev := rune(-1)
	lastBreak := -1
	lastBreakWidth := fixed.Int26_6(0)
	i := start
	for i < len(text) && text[i] != '\n' {
		adv := f.m.Advance(prev, text[i])
		if x+adv > f.width && i > start {
			break
		}
		x += adv
		prev = text[i]
		i++
		if f.style.Wrap == WrapWordChar && isBreakAfter(prev) {
			lastBreak = i
			lastBreakWidth = x
		}
	}

	switch {
	case i < len(text) && text[i] == '\n':
		return Line{Start: start, End: i + 1, Text: text[start:i], Width: x, ParagraphEnd: true}
	case i >= len(text):
		return Line{Start: start, End: i, Text: text[start:i], Width: x, ParagraphEnd: true}
	case f.style.Wrap == WrapWordChar && lastBreak > start:
		return Line{Start: start, End: lastBreak, Text: text[start:lastBreak], Width: lastBreakWidth}
	default:
		return Line{Start: start, End: i, Text: text[start:i], Width: x}
	}
}

// Positions returns the x offset of every rune of line.Text after alignment.
func (f *Frame) Positions(line Line) []fixed.Int26_6 {
	out := make([]fixed.Int26_6, len(line.Text))
	if len(line.Text) == 0 {
		return out
	}
	slack := f.width - line.Width
	if slack < 0 {
		slack = 0
	}

	x := fixed.Int26_6(0)
	var gapExtra fixed.Int26_6
	switch f.style.Align {
	case AlignCenter:
		x = slack / 2
	case AlignRight:
		x = slack
	case AlignJustified:
		if !line.ParagraphEnd {
			if gaps := countGaps(line.Text); gaps > 0 {
				gapExtra = slack / fixed.Int26_6(gaps)
			}
		}
	}

	prev := rune(-1)
	for i, r := range line.Text {
		if prev >= 0 {
			x += f.m.Advance(prev, r) - f.m.Advance(-1, r)
		}
		out[i] = x
		x += f.m.Advance(-1, r)
		if r == ' ' && i < len(line.Text)-1 {
			x += gapExtra
		}
		prev = r
	}
	return out
}

func isBreakAfter(r rune) bool {
	switch r {
	case ' ', '\t', '-', '\u2010', '\u2013', '\u2014', '\u200b':
		return true
	}
	return false
}

func countGaps(text []rune) int {
	end := len(text)
	for end > 0 && text[end-1] == ' ' {
		end--
	}
	n := 0
	for _, r := range text[:end] {
		if r == ' ' {
			n++
		}
	}
	return n
}

func toFixed(v float64) fixed.Int26_6 {
	if v <= 0 {
		return 0
	}
	return fixed.Int26_6(v * 64)
}
