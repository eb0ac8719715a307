package domain

import (
	"fmt"
	"strings"
	"time"

	"ereader/internal/platform/clock"
)

// Position is where a reader is inside a document. Progress is the
// layout-independent coordinate; SubrangeIndex caches the page it mapped to
// under the layout the position was saved with. The zero value means the
// document was never opened.
type Position struct {
	ChapterIndex  int
	SubrangeIndex int
	Progress      float64
}

func (p Position) Validate() error {
	if p.ChapterIndex < 0 {
		return fmt.Errorf("chapter index must be >= 0, got %d", p.ChapterIndex)
	}
	if p.SubrangeIndex < 0 {
		return fmt.Errorf("subrange index must be >= 0, got %d", p.SubrangeIndex)
	}
	if p.Progress < 0 || p.Progress > 1 {
		return fmt.Errorf("progress must be within [0,1], got %v", p.Progress)
	}
	return nil
}

func (p Position) IsZero() bool {
	return p == Position{}
}

// Record is the persisted progress of one document.
type Record struct {
	DocumentID string
	LastAccess float64
	Position   Position
}

// Summary is one row of the recency listing.
type Summary struct {
	DocumentID string
	LastAccess float64
	Progress   float64
}

func (s Summary) LastAccessTime() time.Time {
	return clock.FromUnixSeconds(s.LastAccess)
}

func ValidateDocumentID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document id is required")
	}
	return nil
}
