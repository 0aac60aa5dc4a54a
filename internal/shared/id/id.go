// Package id provides prefixed, lexicographically sortable session IDs.
//
// ULIDs are used so IDs sort by creation time in logs and on disk, and the
// "sess_" prefix keeps them recognizable when they show up in history file
// names and request payloads.
package id

import (
	"crypto/rand"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

const sessionPrefix = "sess"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewSession generates a new session ID, e.g. "sess_01J8ZQ3V9GXK...".
func NewSession() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return sessionPrefix + "_" + ulid.MustNew(ulid.Now(), entropy).String()
}

// IsSession reports whether s carries the session prefix and a valid ULID.
func IsSession(s string) bool {
	rest, ok := strings.CutPrefix(s, sessionPrefix+"_")
	if !ok {
		return false
	}
	_, err := ulid.ParseStrict(rest)
	return err == nil
}
