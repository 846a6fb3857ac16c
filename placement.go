package dashbin

import "unicode/utf8"

// CellMetrics gives the pixel size of one terminal cell.
type CellMetrics struct {
	CellWidth  float64
	CellHeight float64
}

// Geometry is the pixel-space rectangle where a ghost-text suffix paints.
// The origin aligns the first glyph with the cursor cell. Width covers the
// span on the anchor row; when the suffix wraps, the following rows run the
// full terminal width starting at column 0 and stack downward at cell
// height, which the renderer recovers from WrappedRows.
type Geometry struct {
	OriginX     float64
	OriginY     float64
	Width       float64
	Height      float64
	WrappedRows int
}

// PlaceSuggestion computes the overlay rectangle for a suggestion suffix at
// the given cursor cell under the given scroll state. ok is false when the
// overlay must be suppressed for this frame: empty suffix, degenerate
// dimensions, or a cursor scrolled outside the visible area.
//
// Geometry is valid for exactly one repaint; it must be recomputed on every
// buffer change and on any layout or resize, never reused across either.
func PlaceSuggestion(suffix string, cur CursorPosition, scrollBase, displayOffset, cols, rows int, m CellMetrics) (Geometry, bool) {
	if suffix == "" || cols <= 0 || rows <= 0 {
		return Geometry{}, false
	}

	visibleRow := cur.Row - (scrollBase - displayOffset)
	if visibleRow < 0 || visibleRow >= rows {
		return Geometry{}, false
	}
	if cur.Col < 0 || cur.Col >= cols {
		return Geometry{}, false
	}

	length := utf8.RuneCountInString(suffix)
	avail := cols - cur.Col
	wrappedRows := 1
	if length > avail {
		wrappedRows += (length - avail + cols - 1) / cols
	}

	span := length
	if span > avail {
		span = avail
	}

	return Geometry{
		OriginX:     float64(cur.Col) * m.CellWidth,
		OriginY:     float64(visibleRow) * m.CellHeight,
		Width:       float64(span) * m.CellWidth,
		Height:      float64(wrappedRows) * m.CellHeight,
		WrappedRows: wrappedRows,
	}, true
}
