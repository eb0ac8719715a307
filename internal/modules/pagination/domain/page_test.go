package domain_test

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"ereader/internal/modules/pagination/domain"
	apperrors "ereader/internal/platform/errors"
	"ereader/internal/platform/typeset"
)

func frameFor(mc domain.MeasurementContext) *typeset.Frame {
	return typeset.NewFrame(typeset.NewFaceMeasurer(basicfont.Face7x13), mc.Style())
}

func paginate(t *testing.T, text string, mc domain.MeasurementContext) []domain.PageRange {
	t.Helper()
	runes := []rune(text)
	pages, err := domain.Paginate(context.Background(), runes, mc, frameFor(mc))
	require.NoError(t, err)
	return pages
}

type zeroFitter struct{}

func (zeroFitter) Fit([]rune) int { return 0 }

type greedyFitter struct{}

func (greedyFitter) Fit(text []rune) int { return len(text) + 10 }

func randomText(r *rand.Rand, n int) string {
	const alphabet = "abcdefghij klmnopq\nrstuvwxyz,.— 日本"
	letters := []rune(alphabet)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteRune(letters[r.Intn(len(letters))])
	}
	return b.String()
}

func TestPaginateCoverageAndDeterminism(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		text := randomText(r, r.Intn(3000))
		mc := domain.MeasurementContext{
			Display:          domain.Rect{Width: 7 + r.Intn(400), Height: 13 + r.Intn(300)},
			LineSpacing:      float64(r.Intn(4)),
			ParagraphSpacing: float64(r.Intn(10)),
			Wrap:             typeset.WrapMode(r.Intn(2)),
		}
		first := paginate(t, text, mc)
		require.NoError(t, domain.Verify(first, len([]rune(text))), "context %s", mc.Key())
		assert.Equal(t, first, paginate(t, text, mc))
	}
}

func TestPaginateEmptyText(t *testing.T) {
	t.Parallel()
	pages := paginate(t, "", domain.MeasurementContext{Display: domain.Rect{Width: 100, Height: 100}})
	assert.Empty(t, pages)
}

func TestPaginateInvalidGeometry(t *testing.T) {
	t.Parallel()
	for _, rect := range []domain.Rect{{Width: 0, Height: 10}, {Width: 10, Height: -1}} {
		_, err := domain.Paginate(context.Background(), []rune("abc"), domain.MeasurementContext{Display: rect}, greedyFitter{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidGeometry)
	}
}

func TestPaginateNoForwardProgress(t *testing.T) {
	t.Parallel()
	mc := domain.MeasurementContext{Display: domain.Rect{Width: 10, Height: 10}}
	_, err := domain.Paginate(context.Background(), []rune("abc"), mc, zeroFitter{})
	assert.ErrorIs(t, err, apperrors.ErrNoForwardProgress)

	// A frame shorter than one line box cannot place anything.
	short := domain.MeasurementContext{Display: domain.Rect{Width: 100, Height: 5}}
	_, err = domain.Paginate(context.Background(), []rune("abc"), short, frameFor(short))
	assert.ErrorIs(t, err, apperrors.ErrNoForwardProgress)
}

func TestPaginateOverWideGlyphOnePerPage(t *testing.T) {
	t.Parallel()
	mc := domain.MeasurementContext{Display: domain.Rect{Width: 2, Height: 13}}
	pages := paginate(t, "wide", mc)
	require.Len(t, pages, 4)
	for i, p := range pages {
		assert.Equal(t, domain.PageRange{Start: i, Length: 1}, p)
	}
}

func TestPaginateClampsOverlongFit(t *testing.T) {
	t.Parallel()
	mc := domain.MeasurementContext{Display: domain.Rect{Width: 10, Height: 10}}
	pages, err := domain.Paginate(context.Background(), []rune("abc"), mc, greedyFitter{})
	require.NoError(t, err)
	assert.Equal(t, []domain.PageRange{{Start: 0, Length: 3}}, pages)
}

func TestPaginateHonoursCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mc := domain.MeasurementContext{Display: domain.Rect{Width: 10, Height: 10}}
	_, err := domain.Paginate(ctx, []rune("abc"), mc, greedyFitter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPaginateTenThousandCharacters(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("abcdefghij", 1000)
	// 50 glyphs per line, 10 lines: 500 characters per page.
	pages := paginate(t, text, domain.MeasurementContext{Display: domain.Rect{Width: 350, Height: 130}})
	assert.Len(t, pages, 20)
	// 20 lines: 1000 characters per page.
	pages = paginate(t, text, domain.MeasurementContext{Display: domain.Rect{Width: 350, Height: 260}})
	assert.Len(t, pages, 10)
}

func TestIndexOf(t *testing.T) {
	t.Parallel()
	pages := []domain.PageRange{{0, 10}, {10, 5}, {15, 20}}
	assert.Equal(t, 0, domain.IndexOf(pages, 0))
	assert.Equal(t, 0, domain.IndexOf(pages, 9))
	assert.Equal(t, 1, domain.IndexOf(pages, 10))
	assert.Equal(t, 2, domain.IndexOf(pages, 34))
	assert.Equal(t, 2, domain.IndexOf(pages, 1000))
	assert.Equal(t, 0, domain.IndexOf(pages, -3))
	assert.Equal(t, -1, domain.IndexOf(nil, 4))
}

func TestVerifyRejectsGaps(t *testing.T) {
	t.Parallel()
	assert.Error(t, domain.Verify([]domain.PageRange{{0, 2}, {3, 2}}, 5))
	assert.Error(t, domain.Verify([]domain.PageRange{{0, 2}}, 5))
	assert.Error(t, domain.Verify([]domain.PageRange{{0, 0}}, 0))
	assert.NoError(t, domain.Verify(nil, 0))
}

func TestContextKeyAndFingerprint(t *testing.T) {
	t.Parallel()
	a := domain.MeasurementContext{Display: domain.Rect{Width: 300, Height: 400}, FontSize: 16}
	b := a
	b.FontSize = 18
	assert.Equal(t, a.Key(), a.Key())
	assert.NotEqual(t, a.Key(), b.Key())
	hash := domain.ContentHash([]rune("hello"))
	assert.NotEqual(t, domain.Fingerprint(hash, a), domain.Fingerprint(hash, b))
	assert.Equal(t, a.WithDisplay(1, 2).Display, domain.Rect{Width: 1, Height: 2})
}
