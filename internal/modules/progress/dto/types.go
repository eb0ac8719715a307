package dto

import "time"

type PositionDTO struct {
	ChapterIndex  int
	SubrangeIndex int
	Progress      float64
}

type RecordAccessInput struct {
	DocumentID string
}

type RecordAccessOutput struct {
	DocumentID string
	LastAccess float64
}

type SavePositionInput struct {
	DocumentID string
	Position   PositionDTO
}

type RecentOutput struct {
	DocumentID string
	LastAccess time.Time
	Percent    float64
}
