package slug_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ereader/internal/platform/slug"
)

func TestMakeKeepsLettersFromAnyScript(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Moby Dick":           "moby-dick",
		"\u4e09\u4f53":        "\u4e09\u4f53",
		"Caf\u00e9 -- Notes!": "caf\u00e9-notes",
		"  ***  ":             "untitled",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), in)
	}
}

func TestDocumentIDDistinguishesPaths(t *testing.T) {
	t.Parallel()
	a := slug.DocumentID(filepath.Join("/books", "三体.txt"))
	b := slug.DocumentID(filepath.Join("/books", "红楼梦.txt"))
	c := slug.DocumentID(filepath.Join("/shelf", "三体.txt"))

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "三体-"), a)
	assert.Equal(t, a, slug.DocumentID("/books/./三体.txt"))
}
