package history

import (
	"sort"
	"strings"
	"sync"
)

// Completion is a prefix-completion index over registered command names,
// template head literals, and recently used path-like arguments. Candidates
// come back in that category order, most-recent-use-first within a category,
// with duplicates suppressed.
type Completion struct {
	mu    sync.RWMutex
	names []string // registered command names, sorted
	heads []string // template head literals, registration order

	recentCmds  []string // MRU, most recent first
	recentHeads []string // MRU, most recent first
	recentPaths []string // MRU, most recent first
}

const maxRecent = 200

// NewCompletion creates an index over the static command names and template
// heads.
func NewCompletion(commandNames, templateHeads []string) *Completion {
	names := make([]string, len(commandNames))
	copy(names, commandNames)
	sort.Strings(names)
	heads := make([]string, len(templateHeads))
	copy(heads, templateHeads)
	return &Completion{names: names, heads: heads}
}

// Observe records the command name and path-like arguments of an executed
// invocation, updating recency.
func (c *Completion) Observe(raw string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recentCmds = promote(c.recentCmds, strings.ToLower(fields[0]))
	if head := c.matchHead(strings.ToLower(strings.Join(fields, " "))); head != "" {
		c.recentHeads = promote(c.recentHeads, head)
	}
	for _, arg := range fields[1:] {
		if pathLike(arg) {
			c.recentPaths = promote(c.recentPaths, arg)
		}
	}
}

// matchHead returns the longest registered head the input starts with, on
// token boundaries. Caller holds the lock.
func (c *Completion) matchHead(joined string) string {
	var best string
	for _, h := range c.heads {
		if joined != h && !strings.HasPrefix(joined, h+" ") {
			continue
		}
		if len(h) > len(best) {
			best = h
		}
	}
	return best
}

// Replay rebuilds recency from persisted history, oldest first.
func (c *Completion) Replay(entries []Entry) {
	for _, e := range entries {
		c.Observe(e.Raw)
	}
}

// Complete returns candidates literally starting with prefix: registered
// command names first, then template heads, then recent path-like arguments.
func (c *Completion) Complete(prefix string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] && strings.HasPrefix(s, prefix) {
			seen[s] = true
			out = append(out, s)
		}
	}

	// Command names: recently used first, then the rest alphabetically.
	registered := make(map[string]bool, len(c.names))
	for _, n := range c.names {
		registered[n] = true
	}
	for _, n := range c.recentCmds {
		if registered[n] {
			add(n)
		}
	}
	for _, n := range c.names {
		add(n)
	}

	// Template heads: recently used first, then registration order.
	known := make(map[string]bool, len(c.heads))
	for _, h := range c.heads {
		known[h] = true
	}
	for _, h := range c.recentHeads {
		if known[h] {
			add(h)
		}
	}
	for _, h := range c.heads {
		add(h)
	}

	for _, p := range c.recentPaths {
		add(p)
	}
	return out
}

// promote moves v to the front of an MRU list, inserting it if absent.
func promote(list []string, v string) []string {
	for i, s := range list {
		if s == v {
			copy(list[1:i+1], list[:i])
			list[0] = v
			return list
		}
	}
	list = append([]string{v}, list...)
	if len(list) > maxRecent {
		list = list[:maxRecent]
	}
	return list
}

// pathLike reports whether an argument looks like a filesystem path worth
// offering as a completion candidate. Flags never qualify.
func pathLike(arg string) bool {
	if strings.HasPrefix(arg, "-") || arg == ">" {
		return false
	}
	return strings.ContainsAny(arg, "/.") || strings.HasPrefix(arg, "~")
}
