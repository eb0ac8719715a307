package domain

import (
	pagedomain "ereader/internal/modules/pagination/domain"
	progressdomain "ereader/internal/modules/progress/domain"
)

// Document is a loaded plain-text document. Text is shared read-only with
// pagination and rendering once loaded.
type Document struct {
	ID   string
	Path string
	Text []rune
}

// Layout is one pagination of a document.
type Layout struct {
	Pages       []pagedomain.PageRange
	Total       int
	Fingerprint string
	Cached      bool
}

// Session is the open document together with its current layout and page.
type Session struct {
	Document Document
	Context  pagedomain.MeasurementContext
	Layout   Layout
	Page     int
	Position progressdomain.Position
	// RenderToken is the token of the latest render requested for Page.
	RenderToken uint64
}

// PageText returns the runes of the current page.
func (s Session) PageText() []rune {
	if s.Page < 0 || s.Page >= len(s.Layout.Pages) {
		return nil
	}
	r := s.Layout.Pages[s.Page]
	return s.Document.Text[r.Start:r.End()]
}

func (s Session) PageRange() pagedomain.PageRange {
	if s.Page < 0 || s.Page >= len(s.Layout.Pages) {
		return pagedomain.PageRange{}
	}
	return s.Layout.Pages[s.Page]
}
