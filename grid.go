package dashbin

import (
	"strings"
	"sync"
)

// defaultRetainedRows is how many rows above the visible screen a Grid keeps
// before the oldest rows become unavailable to RowText.
const defaultRetainedRows = 1000

// Grid is an in-memory screen grid implementing ScreenReader. It stores the
// slice of emulator state the shelf core reads: rows of runes, a per-row
// wrap-continuation flag, a cursor, and scroll bookkeeping. Writes auto-wrap
// at the right edge and flag the continuation row. Tests and the CLI drive
// a Grid directly; a full terminal emulator satisfies the same interface.
type Grid struct {
	mu sync.RWMutex

	cols int
	rows int

	// Rows are indexed absolutely from firstRow; rows before firstRow have
	// been trimmed and are no longer retained.
	lines    [][]rune
	wrapped  []bool
	firstRow int
	retained int

	cursor        CursorPosition
	displayOffset int
}

// NewGrid creates a grid with the given visible dimensions and one empty
// first row.
func NewGrid(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		cols:     cols,
		rows:     rows,
		lines:    [][]rune{nil},
		wrapped:  []bool{false},
		retained: defaultRetainedRows,
	}
}

// --- ScreenReader Methods ---

// Size returns the visible grid dimensions.
func (g *Grid) Size() (cols, rows int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cols, g.rows
}

// RowText returns the written content of the absolute row. Lines hold only
// written cells, so the text already stops at the end-of-content boundary.
func (g *Grid) RowText(row int) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i := row - g.firstRow
	if row < 0 || i < 0 || i >= len(g.lines) {
		return "", false
	}
	return string(g.lines[i]), true
}

// RowWrapped reports whether the absolute row continues the row above.
func (g *Grid) RowWrapped(row int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i := row - g.firstRow
	if i < 0 || i >= len(g.wrapped) {
		return false
	}
	return g.wrapped[i]
}

// Cursor returns the cursor position with an absolute row index.
func (g *Grid) Cursor() CursorPosition {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cursor
}

// ScrollBase returns the absolute row index of the top visible row when the
// view is pinned to the bottom.
func (g *Grid) ScrollBase() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scrollBaseInternal()
}

// DisplayOffset returns how many rows the user has scrolled back.
func (g *Grid) DisplayOffset() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.displayOffset
}

func (g *Grid) scrollBaseInternal() int {
	base := g.firstRow + len(g.lines) - g.rows
	if base < g.firstRow {
		return g.firstRow
	}
	return base
}

// --- Mutation Methods ---

// WriteText writes s at the cursor, overwriting existing cells and wrapping
// at the right edge. Rows created by wrapping are flagged as continuations.
func (g *Grid) WriteText(s string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range s {
		i := g.cursor.Row - g.firstRow
		if g.cursor.Col >= g.cols {
			g.advanceRowInternal(true)
			i = g.cursor.Row - g.firstRow
		}
		line := g.lines[i]
		for len(line) < g.cursor.Col {
			line = append(line, ' ')
		}
		if g.cursor.Col < len(line) {
			line[g.cursor.Col] = r
		} else {
			line = append(line, r)
		}
		g.lines[i] = line
		g.cursor.Col++
	}
	g.trimInternal()
}

// Newline moves the cursor to column 0 of a fresh non-wrapped row, the way
// the emulator reacts to a line feed.
func (g *Grid) Newline() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceRowInternal(false)
	g.trimInternal()
}

// Feed writes newline-separated content, a convenience for building screen
// states in tests and demos.
func (g *Grid) Feed(s string) {
	for i, part := range strings.Split(s, "\n") {
		if i > 0 {
			g.Newline()
		}
		g.WriteText(part)
	}
}

// SetCursor positions the cursor at the absolute row and column, clamped to
// the retained area the way an emulator clamps to its logical screen.
func (g *Grid) SetCursor(row, col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	last := g.firstRow + len(g.lines) - 1
	if row < g.firstRow {
		row = g.firstRow
	}
	if row > last {
		row = last
	}
	if col < 0 {
		col = 0
	}
	if col > g.cols {
		col = g.cols
	}
	g.cursor = CursorPosition{Row: row, Col: col}
}

// Scroll sets the display offset (rows scrolled back from the live view),
// clamped to the retained history.
func (g *Grid) Scroll(offset int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	max := g.scrollBaseInternal() - g.firstRow
	if offset < 0 {
		offset = 0
	}
	if offset > max {
		offset = max
	}
	g.displayOffset = offset
}

// Resize changes the visible dimensions. Existing content is kept as-is;
// callers holding suggestion geometry must recompute it.
func (g *Grid) Resize(cols, rows int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cols >= 1 {
		g.cols = cols
	}
	if rows >= 1 {
		g.rows = rows
	}
}

func (g *Grid) advanceRowInternal(wrap bool) {
	i := g.cursor.Row - g.firstRow
	if i == len(g.lines)-1 {
		g.lines = append(g.lines, nil)
		g.wrapped = append(g.wrapped, wrap)
	} else if wrap {
		g.wrapped[i+1] = true
	}
	g.cursor.Row++
	g.cursor.Col = 0
}

func (g *Grid) trimInternal() {
	over := len(g.lines) - (g.rows + g.retained)
	if over <= 0 {
		return
	}
	g.lines = append([][]rune(nil), g.lines[over:]...)
	g.wrapped = append([]bool(nil), g.wrapped[over:]...)
	g.firstRow += over
}
