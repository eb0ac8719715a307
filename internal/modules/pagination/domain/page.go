package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	apperrors "ereader/internal/platform/errors"
)

// PageRange is a contiguous run of characters (runes) that fills one page.
type PageRange struct {
	Start  int
	Length int
}

func (r PageRange) End() int {
	return r.Start + r.Length
}

func (r PageRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End()
}

// Fitter reports how many leading runes of text fit one page.
type Fitter interface {
	Fit(text []rune) int
}

// Paginate splits text into pages. Every pass must consume at least one rune:
// a pass that consumes nothing fails with ErrNoForwardProgress instead of
// looping. Empty text yields no pages.
func Paginate(ctx context.Context, text []rune, mc MeasurementContext, fitter Fitter) ([]PageRange, error) {
	if err := mc.Validate(); err != nil {
		return nil, err
	}
	pages := make([]PageRange, 0, estimatePages(len(text)))
	cursor := 0
	for cursor < len(text) {
		if len(pages)%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		n := fitter.Fit(text[cursor:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: at offset %d of %d", apperrors.ErrNoForwardProgress, cursor, len(text))
		}
		if remaining := len(text) - cursor; n > remaining {
			n = remaining
		}
		pages = append(pages, PageRange{Start: cursor, Length: n})
		cursor += n
	}
	return pages, nil
}

// Verify checks that pages tile [0, total) with no gaps or overlaps.
func Verify(pages []PageRange, total int) error {
	cursor := 0
	for i, p := range pages {
		if p.Length <= 0 {
			return fmt.Errorf("page %d is empty", i)
		}
		if p.Start != cursor {
			return fmt.Errorf("page %d starts at %d, expected %d", i, p.Start, cursor)
		}
		cursor = p.End()
	}
	if cursor != total {
		return fmt.Errorf("pages cover %d of %d characters", cursor, total)
	}
	return nil
}

// IndexOf returns the page containing offset, clamped to the page range.
// It returns -1 when there are no pages.
func IndexOf(pages []PageRange, offset int) int {
	if len(pages) == 0 {
		return -1
	}
	if offset <= 0 {
		return 0
	}
	lo, hi := 0, len(pages)-1
	if offset >= pages[hi].Start {
		return hi
	}
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if pages[mid].Start <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// ContentHash identifies a text body independently of its layout.
func ContentHash(text []rune) string {
	sum := sha256.Sum256([]byte(string(text)))
	return hex.EncodeToString(sum[:])
}

// Fingerprint identifies one (text, context) layout.
func Fingerprint(contentHash string, mc MeasurementContext) string {
	sum := sha256.Sum256([]byte(contentHash + "|" + mc.Key()))
	return hex.EncodeToString(sum[:16])
}

func estimatePages(n int) int {
	const guess = 1024
	return n/guess + 1
}
