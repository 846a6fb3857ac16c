package dashbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promptScreen builds the screen from the live-suggestion scenario: three
// finished prompt lines above, a partly typed command on row 3, cursor at
// the end of the typed text.
func promptScreen(t *testing.T) *Grid {
	t.Helper()
	g := NewGrid(80, 24)
	g.Feed("$ ls\n$ cd /tmp\n$ cat foo\n$ git ch")
	require.Equal(t, CursorPosition{Row: 3, Col: 8}, g.Cursor())
	return g
}

func TestExtractCursorBounded(t *testing.T) {
	g := promptScreen(t)
	ext := Extractor{Screen: g}

	cmd, ok := ext.Extract(true)
	require.True(t, ok)
	assert.Equal(t, "git ch", cmd)
}

func TestExtractCursorBoundedTruncatesAtCursor(t *testing.T) {
	g := promptScreen(t)
	// Cursor in the middle of the typed text: only what precedes it counts.
	g.SetCursor(3, 6)
	ext := Extractor{Screen: g}

	cmd, ok := ext.Extract(true)
	require.True(t, ok)
	assert.Equal(t, "git ", cmd, "trailing space before the cursor is preserved")
}

func TestExtractCursorBoundedNoFallback(t *testing.T) {
	g := promptScreen(t)
	g.Newline() // cursor on a fresh blank row

	ext := Extractor{Screen: g}
	_, ok := ext.Extract(true)
	assert.False(t, ok, "cursor-bounded mode must not guess a stale row")
}

func TestExtractFullLine(t *testing.T) {
	g := promptScreen(t)
	ext := Extractor{Screen: g}

	cmd, ok := ext.Extract(false)
	require.True(t, ok)
	assert.Equal(t, "git ch", cmd)
}

func TestExtractFullLineFallsBackOneRow(t *testing.T) {
	g := promptScreen(t)
	// The shell advanced the cursor to a fresh row before the repaint.
	g.Newline()

	ext := Extractor{Screen: g}
	cmd, ok := ext.Extract(false)
	require.True(t, ok)
	assert.Equal(t, "git ch", cmd)
}

func TestExtractWrappedCommand(t *testing.T) {
	g := NewGrid(10, 24)
	g.WriteText("$ echo abcdefghijkl")

	ext := Extractor{Screen: g}
	cmd, ok := ext.Extract(false)
	require.True(t, ok)
	assert.Equal(t, "echo abcdefghijkl", cmd)
}

func TestExtractWhitespaceOnlyLine(t *testing.T) {
	g := NewGrid(80, 24)
	g.WriteText("$    ")

	ext := Extractor{Screen: g}
	_, ok := ext.Extract(true)
	assert.False(t, ok, "a prompt with only whitespace typed is no command")
}
