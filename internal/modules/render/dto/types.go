package dto

import pagedomain "ereader/internal/modules/pagination/domain"

// RenderInput asks for one page of a document. Text is the whole document.
type RenderInput struct {
	DocumentID string
	PageIndex  int
	Text       []rune
	Page       pagedomain.PageRange
	Context    pagedomain.MeasurementContext
}

type StatusOutput struct {
	Token     uint64
	State     string
	Committed uint64
}
