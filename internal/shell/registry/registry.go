// Package registry holds the canonical command table and the dispatcher that
// routes validated invocations to handlers.
package registry

import (
	"fmt"
	"sort"

	"github.com/ganesh9880/termipy/internal/shell"
)

// Provider contributes a group of related commands to the registry.
type Provider interface {
	Commands() []shell.Command
}

// Registry is the static table of canonical commands. It is populated once at
// startup and read-only thereafter; Register must not be called after the
// first Dispatch.
type Registry struct {
	commands map[string]shell.Command
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{commands: make(map[string]shell.Command)}
}

// Register adds a command. Duplicate names and nil handlers are programming
// errors surfaced at startup.
func (r *Registry) Register(cmd shell.Command) error {
	if cmd.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("command %s: nil handler", cmd.Name)
	}
	if _, exists := r.commands[cmd.Name]; exists {
		return fmt.Errorf("command %s: already registered", cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	return nil
}

// RegisterProvider registers every command of a provider.
func (r *Registry) RegisterProvider(p Provider) error {
	for _, cmd := range p.Commands() {
		if err := r.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (shell.Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns all registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for n := range r.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Commands returns all registered commands sorted by name, for help output.
func (r *Registry) Commands() []shell.Command {
	out := make([]shell.Command, 0, len(r.commands))
	for _, n := range r.Names() {
		out = append(out, r.commands[n])
	}
	return out
}
