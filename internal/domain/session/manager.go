// Package session manages per-session mutable state: working directory,
// history log, and completion index.
//
// There is no process-wide current directory. Every dispatch receives an
// explicit session context, so web sessions and tests run in isolation. Each
// context carries its own mutex; concurrent requests for the same session_id
// are serialized while distinct sessions proceed independently.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/ganesh9880/termipy/internal/domain/history"
	"github.com/ganesh9880/termipy/internal/infrastructure/logging"
)

// LocalID is the implicit session used by the interactive front end.
const LocalID = "local"

// Context is the per-session mutable state. Lock/Unlock serialize cwd
// mutation, history append, and completion updates for one session.
type Context struct {
	id         string
	mu         sync.Mutex
	cwdMu      sync.RWMutex
	cwd        string
	store      *history.Store
	completion *history.Completion
	logger     *logging.Logger
}

// Lock acquires the per-session mutex.
func (c *Context) Lock() { c.mu.Lock() }

// Unlock releases the per-session mutex.
func (c *Context) Unlock() { c.mu.Unlock() }

// ID returns the session identifier.
func (c *Context) ID() string { return c.id }

// CWD returns the session's current working directory. It is guarded
// separately from the dispatch lock so front ends can read it while a
// command runs.
func (c *Context) CWD() string {
	c.cwdMu.RLock()
	defer c.cwdMu.RUnlock()
	return c.cwd
}

// SetCWD moves the session to dir after verifying it is an existing,
// accessible directory. The cwd is never left pointing at an invalid path.
func (c *Context) SetCWD(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	c.cwdMu.Lock()
	c.cwd = dir
	c.cwdMu.Unlock()
	return nil
}

// Record appends a history entry and refreshes the completion index. A
// persistence failure is logged but never fails the dispatch.
func (c *Context) Record(raw string, exitCode int) {
	if _, err := c.store.Append(raw, exitCode); err != nil {
		c.logger.Warn("history append failed",
			zap.String("session_id", c.id),
			zap.Error(err),
		)
	}
	c.completion.Observe(raw)
}

// History returns the session's entries in sequence order.
func (c *Context) History() []history.Entry { return c.store.Entries() }

// Tail returns the most recent n history entries.
func (c *Context) Tail(n int) []history.Entry { return c.store.Tail(n) }

// Complete returns prefix-completion candidates for this session.
func (c *Context) Complete(prefix string) []string { return c.completion.Complete(prefix) }

// Manager creates and tracks session contexts. Contexts are created on first
// interaction; history persists synchronously, so session end needs no flush
// beyond Close.
type Manager struct {
	sessions   sync.Map // session id -> *Context
	historyDir string
	names      []string // registered command names for completion
	heads      []string // template head literals for completion
	logger     *logging.Logger
}

// NewManager creates a session manager persisting histories under historyDir.
// names and heads seed each session's completion index.
func NewManager(historyDir string, names, heads []string, logger *logging.Logger) *Manager {
	return &Manager{
		historyDir: historyDir,
		names:      names,
		heads:      heads,
		logger:     logger,
	}
}

// Get returns the context for a session id, creating and loading it on first
// use. History committed by a previous process is reloaded in sequence order.
func (m *Manager) Get(sessionID string) *Context {
	if v, ok := m.sessions.Load(sessionID); ok {
		return v.(*Context)
	}

	ctx := m.open(sessionID)
	actual, loaded := m.sessions.LoadOrStore(sessionID, ctx)
	if loaded {
		// Lost the creation race; drop the redundant store.
		ctx.store.Close()
	}
	return actual.(*Context)
}

// Local returns the implicit interactive session.
func (m *Manager) Local() *Context { return m.Get(LocalID) }

// Tail exposes recent history to handlers that only know the session id.
func (m *Manager) Tail(sessionID string, n int) []history.Entry {
	return m.Get(sessionID).Tail(n)
}

// Close releases every session's history file.
func (m *Manager) Close() {
	m.sessions.Range(func(_, v interface{}) bool {
		v.(*Context).store.Close()
		return true
	})
}

func (m *Manager) open(sessionID string) *Context {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = string(os.PathSeparator)
	}

	store, err := history.Open(filepath.Join(m.historyDir, sessionID+".jsonl"))
	if err != nil {
		// Reported once at session start; history continues in memory.
		m.logger.Warn("history store unavailable, falling back to in-memory",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	completion := history.NewCompletion(m.names, m.heads)
	completion.Replay(store.Entries())

	return &Context{
		id:         sessionID,
		cwd:        cwd,
		store:      store,
		completion: completion,
		logger:     m.logger,
	}
}
