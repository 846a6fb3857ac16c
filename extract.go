package dashbin

// Extractor composes the line walker and prompt stripper against a live
// screen snapshot to produce the command currently on the cursor's logical
// line.
type Extractor struct {
	Screen ScreenReader
}

// Extract returns the command on the cursor's logical line.
//
// With restrictToCursor set, the cursor row's text is truncated at the
// cursor column before concatenation and trailing whitespace is preserved,
// so the result tracks exactly what has been typed so far. This mode never
// falls back to another row: anchoring a suggestion to a stale line is
// worse than showing none.
//
// Without it, the full logical line is captured and trimmed. A miss is
// retried once at the row above, because on submit the shell may have
// advanced the cursor to a fresh blank row before the screen repaints.
//
// A line that is entirely whitespace is no command in either mode.
func (e Extractor) Extract(restrictToCursor bool) (string, bool) {
	cur := e.Screen.Cursor()
	if restrictToCursor {
		return e.extractAt(cur.Row, cur.Col, true)
	}
	if cmd, ok := e.extractAt(cur.Row, -1, false); ok {
		return cmd, true
	}
	return e.extractAt(cur.Row-1, -1, false)
}

func (e Extractor) extractAt(row, bound int, keepTrailing bool) (string, bool) {
	line, ok := reconstructBounded(e.Screen, row, bound)
	if !ok {
		return "", false
	}
	return StripPrompt(line, keepTrailing)
}
