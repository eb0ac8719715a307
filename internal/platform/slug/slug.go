package slug

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Make lower-cases input and joins its letter and digit runs with dashes.
// Letters from any script are kept.
func Make(input string) string {
	s := strings.ToLower(norm.NFC.String(strings.TrimSpace(input)))
	s = nonWord.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// FromPath slugs a file name, without directory or extension.
func FromPath(path string) string {
	base := filepath.Base(path)
	return Make(strings.TrimSuffix(base, filepath.Ext(base)))
}

// DocumentID identifies the file at path: the slugged name followed by the
// first eight hex digits of the SHA-256 of the cleaned path. Two files only
// share an id when they share a path.
func DocumentID(path string) string {
	sum := sha256.Sum256([]byte(norm.NFC.String(filepath.Clean(path))))
	return FromPath(path) + "-" + hex.EncodeToString(sum[:4])
}
