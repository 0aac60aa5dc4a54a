// Package builtin implements the interpreter-level commands: history,
// clear, help, and exit. These touch session state rather than the
// filesystem or the OS.
package builtin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ganesh9880/termipy/internal/domain/history"
	"github.com/ganesh9880/termipy/internal/shell"
)

// clearSequence wipes the screen and homes the cursor on ANSI terminals.
const clearSequence = "\x1b[2J\x1b[H"

// historyWindow is how many recent entries the history command shows.
const historyWindow = 20

// HistorySource exposes recent history for a session. Implemented by the
// session manager.
type HistorySource interface {
	Tail(sessionID string, n int) []history.Entry
}

// CommandLister exposes the registered command table for help output.
// Implemented by the registry.
type CommandLister interface {
	Commands() []shell.Command
}

// Provider bundles the builtin command set.
type Provider struct {
	source HistorySource
	lister CommandLister
}

// New creates the builtin provider. The registry is passed as a lister so
// help always reflects what is actually registered.
func New(source HistorySource, lister CommandLister) *Provider {
	return &Provider{source: source, lister: lister}
}

// Commands returns the command table for registration.
func (p *Provider) Commands() []shell.Command {
	return []shell.Command{
		{
			Name:        "history",
			Description: "Show command history",
			Usage:       "history",
			Handler:     p.history,
		},
		{
			Name:        "clear",
			Description: "Clear screen",
			Usage:       "clear",
			Handler:     p.clear,
		},
		{
			Name:        "help",
			Description: "Show available commands",
			Usage:       "help",
			Handler:     p.help,
		},
		{
			Name:        "exit",
			Description: "Exit the terminal",
			Usage:       "exit",
			Handler:     p.exit,
		},
		{
			Name:        "quit",
			Description: "Exit the terminal",
			Usage:       "quit",
			Handler:     p.exit,
		},
	}
}

func (p *Provider) history(ctx context.Context, req shell.Request) (*shell.Result, error) {
	entries := p.source.Tail(req.SessionID, historyWindow)
	if len(entries) == 0 {
		return &shell.Result{Stdout: "No command history"}, nil
	}

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%3d  %s", i+1, e.Raw))
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) clear(ctx context.Context, req shell.Request) (*shell.Result, error) {
	return &shell.Result{Stdout: clearSequence}, nil
}

func (p *Provider) help(ctx context.Context, req shell.Request) (*shell.Result, error) {
	cmds := p.lister.Commands()
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

	width := 0
	for _, c := range cmds {
		if len(c.Usage) > width {
			width = len(c.Usage)
		}
	}

	var b strings.Builder
	b.WriteString("Available Commands:\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "  %-*s - %s\n", width, c.Usage, c.Description)
	}
	b.WriteString("\nNatural Language (prefix with 'ai'):\n")
	b.WriteString("  ai create folder <name>\n")
	b.WriteString("  ai create file <name> with <content>\n")
	b.WriteString("  ai move <src> to <dst>\n")
	b.WriteString("  ai show memory / show cpu / show processes / show disk\n")
	b.WriteString("  ai delete <target> / read <file> / find <pattern>\n")
	b.WriteString("  ai what can you do")
	return &shell.Result{Stdout: b.String()}, nil
}

// exit is a signal to the front end, not an action: the interactive loop
// terminates with code 0, while the web handler returns the message and
// keeps the session.
func (p *Provider) exit(ctx context.Context, req shell.Request) (*shell.Result, error) {
	return &shell.Result{Stdout: "Goodbye!"}, nil
}
