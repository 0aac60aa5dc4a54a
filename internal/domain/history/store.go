// Package history provides the durable command history log and the
// prefix-completion index.
//
// The log is append-only JSONL: one record per executed invocation, written
// synchronously so entries committed before a clean shutdown survive restart.
// An unwritable store degrades to in-memory history for the session.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// Entry is one executed invocation. Sequence numbers are strictly increasing
// within a session; entries are never reordered or deleted.
type Entry struct {
	Seq       uint64    `json:"seq"`
	Raw       string    `json:"raw"`
	Timestamp time.Time `json:"ts"`
	ExitCode  int       `json:"exit_code"`
}

// Store is an append-only history log for one session.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	file    *os.File // nil when degraded to in-memory
	path    string
}

// Open loads an existing history file (creating it if absent) and returns a
// store positioned after the last committed entry. On I/O failure it returns
// a usable in-memory store alongside the error so the caller can warn once
// and continue.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return s, fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return s, fmt.Errorf("open history file: %w", err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := sonic.Unmarshal(line, &e); err != nil {
			// A torn trailing line from an unclean shutdown is skipped rather
			// than poisoning the whole log.
			continue
		}
		s.entries = append(s.entries, e)
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return s, fmt.Errorf("read history file: %w", err)
	}

	s.file = f
	return s, nil
}

// InMemory creates a store with no backing file.
func InMemory() *Store {
	return &Store{}
}

// Append records an executed invocation, assigns the next sequence number,
// and synchronously persists the record when a backing file is present.
func (s *Store) Append(raw string, exitCode int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{
		Seq:       uint64(len(s.entries)) + 1,
		Raw:       raw,
		Timestamp: time.Now().UTC(),
		ExitCode:  exitCode,
	}
	s.entries = append(s.entries, e)

	if s.file == nil {
		return e, nil
	}
	data, err := sonic.Marshal(e)
	if err != nil {
		return e, fmt.Errorf("marshal history entry: %w", err)
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return e, fmt.Errorf("append history entry: %w", err)
	}
	return e, nil
}

// Entries returns a copy of all entries in original sequence order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Tail returns the most recent n entries in sequence order.
func (s *Store) Tail(n int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, n)
	copy(out, s.entries[len(s.entries)-n:])
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Durable reports whether the store has a backing file.
func (s *Store) Durable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil
}

// Close releases the backing file, if any.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
