package dashbin

import "strings"

// Subsequence scoring weights. The model is a simple additive heuristic, not
// an edit distance: exact prefixes score highest, earlier matches cost less,
// and gaps are penalized only through the lost consecutive-run bonus.
const (
	matchBase        = 10.0
	consecutiveBonus = 5.0
	prefixBonus      = 20.0
	positionPenalty  = 0.1
)

// Score rates how well query matches candidate as an ordered subsequence,
// case-insensitively. ok is false when the query is not a subsequence of the
// candidate; absence of a score means no match, not a zero.
//
// Each query character is matched greedily left to right against the first
// occurrence at or after the previous match. A matched character earns the
// base weight, a growing bonus for extending a consecutive run, an extra
// bonus when it lands at position 0, and loses a small penalty scaled by its
// index in the candidate.
func Score(candidate, query string) (float64, bool) {
	cand := []rune(strings.ToLower(candidate))
	q := []rune(strings.ToLower(query))
	if len(q) > len(cand) {
		return 0, false
	}

	score := 0.0
	next := 0 // first candidate index still available
	run := 0  // length of the current consecutive-match run
	prev := -2
	for _, qc := range q {
		idx := -1
		for i := next; i < len(cand); i++ {
			if cand[i] == qc {
				idx = i
				break
			}
		}
		if idx < 0 {
			return 0, false
		}
		if idx == prev+1 {
			run++
		} else {
			run = 0
		}
		score += matchBase + consecutiveBonus*float64(run)
		if idx == 0 {
			score += prefixBonus
		}
		score -= positionPenalty * float64(idx)
		prev = idx
		next = idx + 1
	}
	return score, true
}

// Suggest returns the first entry whose text starts with query,
// case-insensitively, scanning history in the given (recency) order. This
// is a plain prefix search by design: ghost text must only ever propose a
// literal continuation of what the user typed, so fuzzy matches are never
// eligible.
func Suggest(query string, history []string) (string, bool) {
	if strings.TrimSpace(query) == "" {
		return "", false
	}
	q := strings.ToLower(query)
	for _, h := range history {
		if strings.HasPrefix(strings.ToLower(h), q) {
			return h, true
		}
	}
	return "", false
}
