// Package repl is the interactive front end: a line-editing prompt with
// tab completion and history, dispatching into the shared interpreter.
package repl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/ganesh9880/termipy/internal/domain/session"
	"github.com/ganesh9880/termipy/internal/infrastructure/server"
	"github.com/ganesh9880/termipy/internal/shell"
)

const banner = `TermiPy - Natural Language Terminal
Type 'help' for commands, 'ai <phrase>' for natural language, 'exit' to quit.`

// lineEditor is the prompt surface the loop drives. Satisfied by
// liner.State.
type lineEditor interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// REPL drives the interactive loop for the implicit local session.
type REPL struct {
	runtime *server.Runtime
	sess    *session.Context
	line    lineEditor
}

// New creates the interactive loop over an assembled runtime.
func New(rt *server.Runtime) *REPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	sess := rt.Sessions.Local()
	line.SetCompleter(func(prefix string) []string {
		return sess.Complete(prefix)
	})
	for _, e := range sess.History() {
		line.AppendHistory(e.Raw)
	}

	return &REPL{runtime: rt, sess: sess, line: line}
}

// Run reads and dispatches commands until exit or EOF. The returned code is
// the process exit code: 0 for an explicit exit/quit, otherwise the last
// command's exit code (also on EOF).
func (r *REPL) Run(ctx context.Context) int {
	defer r.line.Close()
	fmt.Println(banner)

	lastExit := shell.ExitOK
	for {
		input, err := r.line.Prompt(prompt(r.sess.CWD()))
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println("Use 'exit' to quit")
			continue
		}
		if err != nil {
			// EOF or a broken terminal ends the session; the process
			// reports the last command's outcome.
			fmt.Println()
			return lastExit
		}

		raw := strings.TrimSpace(input)
		if raw == "" {
			continue
		}
		r.line.AppendHistory(raw)

		if raw == "exit" || raw == "quit" {
			fmt.Println("Goodbye!")
			return shell.ExitOK
		}

		res := r.runtime.Dispatcher.Run(ctx, raw, r.sess)
		if res.Stdout != "" {
			fmt.Println(res.Stdout)
		}
		lastExit = res.ExitCode
	}
}

// prompt renders "<dir>> " using the base name of the cwd, keeping the
// prompt short in deep trees.
func prompt(cwd string) string {
	base := filepath.Base(cwd)
	if base == string(filepath.Separator) {
		base = cwd
	}
	return base + "> "
}
