// Package dashbin augments a live terminal session with a persistent,
// searchable command shelf and inline ghost-text autocomplete. The core
// reconstructs the logical command line being typed from a wrapped screen
// grid, matches it against shelved history, and computes the on-screen
// geometry needed to paint the suggestion — it never draws pixels or owns a
// process itself. The terminal emulator, the renderer, and on-disk
// persistence are external collaborators reached through narrow interfaces.
package dashbin

// CursorPosition identifies a cell in the terminal grid. Row is an absolute
// row index, stable across scrolling; the display-relative row is recovered
// through the scroll state (see VisibleRow).
type CursorPosition struct {
	Row int
	Col int
}

// ScreenReader is the read-only view of terminal state the shelf core
// consumes. The emulator owns and mutates the grid; the core only reads
// snapshots through this interface, so an implementation must expose scroll
// offset, absolute row indexing, and a wrap-continuation flag per row as
// first-class accessors.
type ScreenReader interface {
	// Size returns the visible grid dimensions in columns and rows.
	Size() (cols, rows int)

	// RowText returns the written content of the absolute row, stopping at
	// the first unwritten cell rather than padding to the declared width.
	// ok is false when the row is not retained (negative, never written, or
	// scrolled out of the kept buffer).
	RowText(row int) (text string, ok bool)

	// RowWrapped reports whether the absolute row is the overflow of the
	// row above, split only by column width, rather than a new logical line.
	RowWrapped(row int) bool

	// Cursor returns the cursor position with an absolute row index.
	Cursor() CursorPosition

	// ScrollBase returns the absolute row index of the top visible row when
	// the view is pinned to the bottom (no manual scrolling).
	ScrollBase() int

	// DisplayOffset returns how many rows the user has scrolled back from
	// the scroll base. Zero means the live view.
	DisplayOffset() int
}

// VisibleRow converts an absolute row index to a display-relative row under
// the reader's current scroll state. ok is false when the row falls outside
// the visible area.
func VisibleRow(r ScreenReader, absRow int) (int, bool) {
	_, rows := r.Size()
	v := absRow - (r.ScrollBase() - r.DisplayOffset())
	if v < 0 || v >= rows {
		return 0, false
	}
	return v, true
}

// AbsoluteRow converts a display-relative row index to an absolute row under
// the reader's current scroll state.
func AbsoluteRow(r ScreenReader, relRow int) int {
	return relRow + (r.ScrollBase() - r.DisplayOffset())
}
