// Package typeset lays out plain text into lines inside a fixed rectangle.
//
// Pagination uses it to find how many characters fit a page, and the page
// renderers use the same line layout to place glyphs, so a page always shows
// exactly the characters the paginator assigned to it.
package typeset

import (
	"fmt"
	"strings"
)

const unknownStr = "unknown"

// Alignment controls horizontal placement of a line. It never changes which
// characters fit a frame.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustified
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustified:
		return "justified"
	default:
		return unknownStr
	}
}

// ParseAlignment accepts the names produced by Alignment.String. Empty means left.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	case "justified", "justify":
		return AlignJustified, nil
	default:
		return AlignLeft, fmt.Errorf("unsupported alignment %q", s)
	}
}

// WrapMode specifies where a line may break when it reaches the frame width.
type WrapMode uint8

const (
	// WrapChar breaks at any character boundary.
	WrapChar WrapMode = iota
	// WrapWordChar breaks after spaces, falling back to character
	// boundaries for words wider than the frame.
	WrapWordChar
)

func (m WrapMode) String() string {
	switch m {
	case WrapChar:
		return "char"
	case WrapWordChar:
		return "word"
	default:
		return unknownStr
	}
}

// ParseWrapMode accepts "char" and "word". Empty means char.
func ParseWrapMode(s string) (WrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "char":
		return WrapChar, nil
	case "word", "wordchar":
		return WrapWordChar, nil
	default:
		return WrapChar, fmt.Errorf("unsupported wrap mode %q", s)
	}
}

// Style is the geometry and spacing a Frame lays text out against.
// Spacings are in the same units as the measurer's advances.
type Style struct {
	Width            int
	Height           int
	LineSpacing      float64
	ParagraphSpacing float64
	Align            Alignment
	Wrap             WrapMode
}
