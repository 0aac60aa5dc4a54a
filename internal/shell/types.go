package shell

import "context"

// Source identifies how an invocation was produced.
type Source string

const (
	SourceDirect          Source = "direct"
	SourceNaturalLanguage Source = "natural_language"
)

// Invocation is a fully parsed, ready-to-dispatch command request.
type Invocation struct {
	Command  string          `json:"command"`
	Args     []string        `json:"args"`
	Flags    map[string]bool `json:"flags"`
	Redirect string          `json:"redirect,omitempty"`
	Source   Source          `json:"source"`
	Raw      string          `json:"raw"`
}

// Empty reports whether the invocation carries nothing to do
// (blank or whitespace-only input).
func (inv *Invocation) Empty() bool {
	return inv.Command == ""
}

// HasFlag reports whether any of the given flag spellings is set.
// Short and long forms of the same flag are registered separately,
// so handlers check both (e.g. "a", "all").
func (inv *Invocation) HasFlag(names ...string) bool {
	for _, n := range names {
		if inv.Flags[n] {
			return true
		}
	}
	return false
}

// Result is the normalized outcome of dispatching one invocation.
type Result struct {
	Stdout      string `json:"stdout"`
	ExitCode    int    `json:"exit_code"`
	SideEffects bool   `json:"side_effects_applied"`

	// NewCwd is set by directory-changing handlers; the dispatcher applies
	// it to the session under the session lock.
	NewCwd string `json:"-"`
}

// Request is the handler-facing view of a validated invocation.
type Request struct {
	Args      []string
	Flags     map[string]bool
	CWD       string
	SessionID string
}

// Flag reports whether any of the given flag spellings is set.
func (r Request) Flag(names ...string) bool {
	for _, n := range names {
		if r.Flags[n] {
			return true
		}
	}
	return false
}

// Handler performs the actual filesystem/process/monitoring work for one
// command. Handlers never see the session directly; directory changes are
// communicated back through Result.NewCwd.
type Handler func(ctx context.Context, req Request) (*Result, error)

// Command describes a registered canonical command. Immutable once registered.
type Command struct {
	Name         string
	Description  string
	Usage        string
	MinArgs      int
	MaxArgs      int // -1 means unbounded
	AllowedFlags []string
	Mutates      bool
	Handler      Handler
}

// AllowsFlag reports whether the flag name is in the command's contract.
func (c Command) AllowsFlag(name string) bool {
	for _, f := range c.AllowedFlags {
		if f == name {
			return true
		}
	}
	return false
}
