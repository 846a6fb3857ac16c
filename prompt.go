package dashbin

import (
	"strings"
	"unicode"
)

// promptDelimiters are the characters recognized as the final glyph of a
// shell prompt when immediately followed by whitespace. The ASCII set covers
// sh/bash/zsh/root prompts; the rest are glyphs popular prompt themes end
// with.
var promptDelimiters = map[rune]bool{
	'%': true,
	'$': true,
	'#': true,
	'>': true,
	'❯': true,
	'➜': true,
	'»': true,
	'›': true,
	'→': true,
}

// StripPrompt heuristically locates the trailing shell prompt in a logical
// line and returns only the user-typed remainder. It takes the rightmost
// occurrence of a recognized delimiter immediately followed by whitespace;
// everything after that match is the candidate command. Without a delimiter
// the whole line is returned with leading whitespace trimmed. ok is false
// when the candidate is empty after trimming, which distinguishes a prompt
// with no command from command text being present.
//
// keepTrailing preserves trailing whitespace for cursor-bounded extraction,
// where a space typed before the cursor must not be lost; submitted lines
// are captured with keepTrailing false and fully trimmed.
//
// The heuristic is best-effort: output that itself contains a delimiter
// followed by whitespace (a percentage, a redirection) is mistaken for a
// prompt. That limitation is accepted; general prompt detection is not
// attempted.
func StripPrompt(line string, keepTrailing bool) (string, bool) {
	runes := []rune(line)
	cut := -1
	for i := 0; i+1 < len(runes); i++ {
		if promptDelimiters[runes[i]] && unicode.IsSpace(runes[i+1]) {
			cut = i + 2
		}
	}

	var candidate string
	if cut >= 0 {
		candidate = string(runes[cut:])
	} else {
		candidate = line
	}
	candidate = strings.TrimLeftFunc(candidate, unicode.IsSpace)
	if !keepTrailing {
		candidate = strings.TrimRightFunc(candidate, unicode.IsSpace)
	}
	if strings.TrimSpace(candidate) == "" {
		return "", false
	}
	return candidate, true
}
