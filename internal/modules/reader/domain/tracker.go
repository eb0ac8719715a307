package domain

import (
	"math"

	pagedomain "ereader/internal/modules/pagination/domain"
	progressdomain "ereader/internal/modules/progress/domain"
)

// offsetEpsilon absorbs float error when a fraction produced by Advance is
// scaled back into an offset, so start/total*total never lands one rune short.
const offsetEpsilon = 1e-6

// PositionTracker maps stored positions onto a live pagination. It remembers
// the chapter it tracks and the fingerprint of the layout its last position
// was computed against. It does no I/O.
type PositionTracker struct {
	chapter     int
	fingerprint string
}

func NewPositionTracker(chapter int) *PositionTracker {
	return &PositionTracker{chapter: chapter}
}

func (t *PositionTracker) Chapter() int {
	return t.chapter
}

// Fingerprint is the layout the last advanced position belongs to; empty
// until Advance or Adopt is called.
func (t *PositionTracker) Fingerprint() string {
	return t.fingerprint
}

// Adopt marks fingerprint as the layout the tracked position now refers to.
func (t *PositionTracker) Adopt(fingerprint string) {
	t.fingerprint = fingerprint
}

// Resolve returns the page to display for pos. The cached subrange index is
// trusted only when it is in bounds, belongs to the tracked chapter and was
// computed against the same layout; otherwise the page is derived from the
// progress fraction. It returns -1 when pages is empty.
func (t *PositionTracker) Resolve(pos progressdomain.Position, pages []pagedomain.PageRange, total int, fingerprint string) int {
	if len(pages) == 0 {
		return -1
	}
	if t.fingerprint != "" &&
		t.fingerprint == fingerprint &&
		pos.ChapterIndex == t.chapter &&
		pos.SubrangeIndex >= 0 && pos.SubrangeIndex < len(pages) {
		return pos.SubrangeIndex
	}
	return pagedomain.IndexOf(pages, OffsetOf(pos.Progress, total))
}

// Advance moves to page to and returns the position to persist. to is
// clamped to the page range.
func (t *PositionTracker) Advance(to int, pages []pagedomain.PageRange, total int, fingerprint string) progressdomain.Position {
	t.fingerprint = fingerprint
	if len(pages) == 0 {
		return progressdomain.Position{ChapterIndex: t.chapter}
	}
	to = Clamp(to, len(pages))
	return progressdomain.Position{
		ChapterIndex:  t.chapter,
		SubrangeIndex: to,
		Progress:      ProgressOf(pages[to].Start, total),
	}
}

// ProgressOf is the fraction of total that offset represents.
func ProgressOf(offset, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(offset) / float64(total)
	return math.Min(math.Max(p, 0), 1)
}

// OffsetOf scales progress back into a rune offset, rounding down and
// clamping to the last rune.
func OffsetOf(progress float64, total int) int {
	if total <= 0 || progress <= 0 {
		return 0
	}
	offset := int(math.Floor(progress*float64(total) + offsetEpsilon))
	if offset >= total {
		offset = total - 1
	}
	return offset
}

// Clamp limits index to [0, n).
func Clamp(index, n int) int {
	if index < 0 || n <= 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
