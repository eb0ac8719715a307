package dto

import pagedomain "ereader/internal/modules/pagination/domain"

type OpenInput struct {
	Ref     string
	Context pagedomain.MeasurementContext
	// Page, when set, overrides the stored position (1-based).
	Page int
}

type TurnInput struct {
	Delta int
}

type GoToInput struct {
	// Page is 1-based.
	Page int
}

type RelayoutInput struct {
	Context pagedomain.MeasurementContext
}

type PaginateInput struct {
	Ref     string
	Context pagedomain.MeasurementContext
}

type PageSpan struct {
	Start  int
	Length int
}

type PaginateOutput struct {
	DocumentID  string
	Total       int
	Fingerprint string
	Cached      bool
	Pages       []PageSpan
}

// PageOutput describes the page a session is on. Page is 1-based; it is 0
// only for an empty document.
type PageOutput struct {
	DocumentID  string
	Path        string
	Page        int
	PageCount   int
	Start       int
	Length      int
	Text        string
	Progress    float64
	Percent     float64
	Fingerprint string
	RenderToken uint64
}
