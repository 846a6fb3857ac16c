package dashbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreSubsequence(t *testing.T) {
	_, ok := Score("git status", "gs")
	assert.True(t, ok, "g then s occur in order")

	_, ok = Score("git status", "sg")
	assert.False(t, ok, "s before g is not an ordered subsequence")

	_, ok = Score("ls", "lsx")
	assert.False(t, ok, "query longer than candidate")

	_, ok = Score("anything", "")
	assert.True(t, ok, "empty query consumes nothing and matches")
}

func TestScoreCaseInsensitive(t *testing.T) {
	lower, ok := Score("git status", "gs")
	require.True(t, ok)
	upper, ok := Score("GIT STATUS", "gs")
	require.True(t, ok)
	assert.Equal(t, lower, upper)
}

func TestScorePrefixBeatsScattered(t *testing.T) {
	prefix, ok := Score("status", "st")
	require.True(t, ok)
	scattered, ok := Score("set top", "st")
	require.True(t, ok)
	assert.Greater(t, prefix, scattered)
}

func TestScoreEarlierMatchBeatsLater(t *testing.T) {
	// Same subsequence, but in the longer candidate the characters sit
	// further right, so the position penalty ranks it below.
	early, ok := Score("gs", "gs")
	require.True(t, ok)
	late, ok := Score("go sync gs later", "gs")
	require.True(t, ok)
	assert.Greater(t, early, late)
}

func TestScoreConsecutiveRunGrows(t *testing.T) {
	// "abc" matched consecutively earns +5 then +10 run bonuses on top of
	// the base and prefix bonuses; the same letters with gaps earn none.
	solid, ok := Score("abc", "abc")
	require.True(t, ok)
	gappy, ok := Score("a b c", "abc")
	require.True(t, ok)
	assert.Greater(t, solid, gappy)
}

func TestScoreExactValue(t *testing.T) {
	// s@0: 10 + 20 prefix; t@1: 10 + 5 run - 0.1 position.
	got, ok := Score("status", "st")
	require.True(t, ok)
	assert.InDelta(t, 44.9, got, 1e-9)
}

func TestSuggestFirstPrefixMatchInOrder(t *testing.T) {
	history := []string{"ls", "git status", "git commit"}

	got, ok := Suggest("gi", history)
	require.True(t, ok)
	assert.Equal(t, "git status", got)
}

func TestSuggestIsNotFuzzy(t *testing.T) {
	// "gt" is a subsequence of "git status" but not a prefix; ghost text
	// must only continue what was literally typed.
	_, ok := Suggest("gt", []string{"git status"})
	assert.False(t, ok)
}

func TestSuggestCaseInsensitive(t *testing.T) {
	got, ok := Suggest("GIT", []string{"git push"})
	require.True(t, ok)
	assert.Equal(t, "git push", got)
}

func TestSuggestEmptyQuery(t *testing.T) {
	_, ok := Suggest("", []string{"ls"})
	assert.False(t, ok)
	_, ok = Suggest("   ", []string{"ls"})
	assert.False(t, ok)
}
