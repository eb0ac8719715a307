package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"ereader/internal/modules/reader/domain"
	readerout "ereader/internal/modules/reader/port/out"
	apperrors "ereader/internal/platform/errors"
	"ereader/internal/platform/slug"
)

// LocalTextSource reads plain-text documents from disk. Text is normalized
// to NFC with LF line endings so offsets are stable across platforms.
type LocalTextSource struct{}

func NewLocalTextSource() readerout.DocumentSource {
	return &LocalTextSource{}
}

func (s *LocalTextSource) Load(ctx context.Context, ref string) (domain.Document, error) {
	if strings.TrimSpace(ref) == "" {
		return domain.Document{}, fmt.Errorf("%w: document path is required", apperrors.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	path, err := filepath.Abs(ref)
	if err != nil {
		return domain.Document{}, fmt.Errorf("resolve %s: %w", ref, err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Document{}, fmt.Errorf("%w: %s", apperrors.ErrNotFound, ref)
		}
		return domain.Document{}, fmt.Errorf("read document: %w", err)
	}
	return domain.Document{ID: slug.DocumentID(path), Path: path, Text: []rune(NormalizeText(b))}, nil
}

// NormalizeText converts raw bytes into the canonical text form.
func NormalizeText(b []byte) string {
	s := strings.ToValidUTF8(string(b), "\uFFFD")
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFC.String(s)
}
