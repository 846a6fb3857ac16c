package dashbin

import "strings"

// ReconstructLogicalLine rebuilds the logical line containing targetRow by
// walking upward while rows are flagged as wrapped continuations, then
// concatenating every row of the chain in order. Wrapped rows are a single
// logical line split only by column width, so no separators are inserted.
// ok is false when targetRow is negative or a row in the chain is no longer
// retained by the reader.
func ReconstructLogicalLine(r ScreenReader, targetRow int) (string, bool) {
	return reconstructBounded(r, targetRow, -1)
}

// reconstructBounded is ReconstructLogicalLine with an optional column bound
// applied to the target row only, for cursor-bounded extraction. bound < 0
// means the full row.
func reconstructBounded(r ScreenReader, targetRow, bound int) (string, bool) {
	if targetRow < 0 {
		return "", false
	}
	if _, ok := r.RowText(targetRow); !ok {
		return "", false
	}

	start := targetRow
	for start > 0 && r.RowWrapped(start) {
		start--
	}

	var sb strings.Builder
	for row := start; row <= targetRow; row++ {
		text, ok := r.RowText(row)
		if !ok {
			return "", false
		}
		if row == targetRow && bound >= 0 {
			runes := []rune(text)
			if bound < len(runes) {
				text = string(runes[:bound])
			}
		}
		sb.WriteString(text)
	}
	return sb.String(), true
}
