package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCompletion() *Completion {
	return NewCompletion(
		[]string{"ls", "cd", "cat", "cp", "mkdir", "mem", "mv"},
		[]string{"ai create folder", "ai move", "ai show files", "ai show memory"},
	)
}

func TestCompleteOnlyPrefixMatchesNoDuplicates(t *testing.T) {
	c := newTestCompletion()
	c.Observe("cat notes.txt")
	c.Observe("cat notes.txt")
	c.Observe("cd /tmp")

	for _, prefix := range []string{"c", "ca", "m", "ai ", "not", "zz", ""} {
		got := c.Complete(prefix)
		seen := make(map[string]bool)
		for _, s := range got {
			assert.True(t, strings.HasPrefix(s, prefix), "%q must start with %q", s, prefix)
			assert.False(t, seen[s], "duplicate candidate %q", s)
			seen[s] = true
		}
	}
}

func TestCompleteCategoryOrder(t *testing.T) {
	c := newTestCompletion()
	c.Observe("mv a.txt docs/")

	got := c.Complete("m")
	// Command names come first (mv was used most recently), then template
	// heads (none start with "m"), then path-like args (none start with "m").
	assert.Equal(t, "mv", got[0])
	assert.Contains(t, got, "mkdir")
	assert.Contains(t, got, "mem")
}

func TestCompleteRecencyWithinHeads(t *testing.T) {
	c := newTestCompletion()
	c.Observe("ai show memory")

	got := c.Complete("ai show")
	assert.Equal(t, []string{"ai show memory", "ai show files"}, got)
}

func TestCompleteRecencyWithinHeadsLongestWins(t *testing.T) {
	c := NewCompletion(nil, []string{"ai show", "ai show memory"})
	c.Observe("ai show memory now")

	got := c.Complete("ai ")
	assert.Equal(t, "ai show memory", got[0])
}

func TestCompleteRecentPathsLast(t *testing.T) {
	c := newTestCompletion()
	c.Observe("cat notes.txt")
	c.Observe("rm old.log")

	got := c.Complete("")
	idxCat := indexOf(got, "cat")
	idxNotes := indexOf(got, "notes.txt")
	idxHead := indexOf(got, "ai move")

	assert.GreaterOrEqual(t, idxNotes, 0)
	assert.Less(t, idxCat, idxHead, "commands before template heads")
	assert.Less(t, idxHead, idxNotes, "template heads before recent paths")
}

func TestCompleteRecencyWithinPaths(t *testing.T) {
	c := newTestCompletion()
	c.Observe("cat a.txt")
	c.Observe("cat b.txt")
	c.Observe("cat a.txt") // a.txt becomes most recent again

	got := c.Complete("")
	idxA := indexOf(got, "a.txt")
	idxB := indexOf(got, "b.txt")
	assert.GreaterOrEqual(t, idxA, 0)
	assert.GreaterOrEqual(t, idxB, 0)
	assert.Less(t, idxA, idxB)
}

func TestObserveIgnoresFlags(t *testing.T) {
	c := newTestCompletion()
	c.Observe("ls -la ./src")

	got := c.Complete("-")
	assert.Empty(t, got)

	got = c.Complete("./")
	assert.Equal(t, []string{"./src"}, got)
}

func TestReplayRebuildsIndex(t *testing.T) {
	c := newTestCompletion()
	c.Replay([]Entry{
		{Seq: 1, Raw: "cat first.txt"},
		{Seq: 2, Raw: "cat second.txt"},
	})

	got := c.Complete("first")
	assert.Equal(t, []string{"first.txt"}, got)
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
