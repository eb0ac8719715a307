package dto

import "ereader/internal/modules/pagination/domain"

type PaginateInput struct {
	Text    []rune
	Context domain.MeasurementContext
}

type PaginateOutput struct {
	Pages       []domain.PageRange
	Total       int
	ContentHash string
	Fingerprint string
	Cached      bool
}
