package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ereader/internal/platform/slug"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), "ereader %s: %s", strings.Join(args, " "), out.String())
	return out.String()
}

func TestCommandsReadAcrossLayouts(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	book := filepath.Join(dir, "book.txt")
	require.NoError(t, os.WriteFile(book, []byte(strings.Repeat("abcdefghij", 1000)), 0o644))
	id := slug.DocumentID(book)

	// 7x13 glyphs: 50 per line, 10 lines per page.
	small := []string{"--data-dir", dir, "--log-level", "error", "--font", "7x13",
		"--width", "350", "--height", "130", "--line-spacing", "0", "--paragraph-spacing", "0"}
	large := []string{"--data-dir", dir, "--log-level", "error", "--font", "7x13",
		"--width", "700", "--height", "130", "--line-spacing", "0", "--paragraph-spacing", "0"}

	out := run(t, append([]string{"paginate", book}, small...)...)
	assert.Contains(t, out, id+": 20 pages, 10,000 characters")

	out = run(t, append([]string{"open", book, "--page", "11"}, small...)...)
	assert.Contains(t, out, "page 11/20  50.0%")

	out = run(t, append([]string{"open", book}, large...)...)
	assert.Contains(t, out, "page 6/10")

	out = run(t, append([]string{"open", book, "--next"}, large...)...)
	assert.Contains(t, out, "page 7/10  60.0%")

	out = run(t, "progress", "list", "--data-dir", dir, "--log-level", "error")
	assert.Contains(t, out, id+"\t60.0%")

	out = run(t, "progress", "show", "--id", id, "--data-dir", dir, "--log-level", "error")
	assert.Contains(t, out, "page=7 progress=0.6000")

	pngPath := filepath.Join(dir, "page.png")
	out = run(t, append([]string{"render", book, "--out", pngPath}, small...)...)
	assert.Contains(t, out, "rendered page 13/20")
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 350, cfg.Width)
	assert.Equal(t, 130, cfg.Height)

	out = run(t, "progress", "remove", "--id", id, "--data-dir", dir, "--log-level", "error")
	assert.Contains(t, out, "removed "+id)
	out = run(t, "progress", "list", "--data-dir", dir, "--log-level", "error")
	assert.Contains(t, out, "no documents")
}

func TestInvalidLayoutFlagsFail(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	book := filepath.Join(dir, "book.txt")
	require.NoError(t, os.WriteFile(book, []byte("text"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"paginate", book, "--data-dir", dir, "--align", "diagonal"})
	assert.Error(t, cmd.Execute())
}
