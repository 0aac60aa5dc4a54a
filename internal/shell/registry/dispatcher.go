package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ganesh9880/termipy/internal/infrastructure/logging"
	"github.com/ganesh9880/termipy/internal/shell"
)

// Session is the dispatcher's view of per-session state. The dispatcher holds
// the session lock for the whole of one dispatch, so cwd mutation, history
// append, and completion update are serialized per session.
type Session interface {
	ID() string
	CWD() string
	SetCWD(dir string) error
	Record(raw string, exitCode int)
	Lock()
	Unlock()
}

// Interpreter resolves natural-language input; satisfied by nlp.Translator.
type Interpreter interface {
	Matches(raw string) bool
	Translate(raw string) (*shell.Invocation, error)
}

// ParseFunc resolves direct-syntax input; satisfied by parser.Parse.
type ParseFunc func(raw string) (*shell.Invocation, error)

// Dispatcher validates invocations against the registry, routes them to
// handlers, and normalizes every outcome into a Result. No handler failure
// propagates unhandled to the caller.
type Dispatcher struct {
	registry   *Registry
	translator Interpreter
	parse      ParseFunc
	timeout    time.Duration
	logger     *logging.Logger
}

// NewDispatcher creates a dispatcher over the given command table.
func NewDispatcher(reg *Registry, translator Interpreter, parse ParseFunc, timeout time.Duration, logger *logging.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		registry:   reg,
		translator: translator,
		parse:      parse,
		timeout:    timeout,
		logger:     logger,
	}
}

// Run interprets one raw input line (direct syntax or natural language,
// chosen by the phrase marker) and dispatches it. Interpretation failures are
// recovered here: they never reach a handler and never mutate the session.
func (d *Dispatcher) Run(ctx context.Context, raw string, sess Session) *shell.Result {
	var (
		inv *shell.Invocation
		err error
	)
	if d.translator != nil && d.translator.Matches(raw) {
		inv, err = d.translator.Translate(raw)
	} else {
		inv, err = d.parse(raw)
	}
	if err != nil {
		serr := shell.Normalize(err)
		return &shell.Result{
			Stdout:   "Error: " + serr.Msg,
			ExitCode: serr.Kind.ExitCode(),
		}
	}
	return d.Dispatch(ctx, inv, sess)
}

// Dispatch validates the invocation and routes it to its handler. Every
// dispatched invocation (including failed ones) is recorded in the session
// history with its exit code; blank input is not.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *shell.Invocation, sess Session) *shell.Result {
	if inv.Empty() {
		return &shell.Result{ExitCode: shell.ExitOK}
	}

	sess.Lock()
	defer sess.Unlock()

	res := d.execute(ctx, inv, sess)
	sess.Record(inv.Raw, res.ExitCode)

	if res.ExitCode != shell.ExitOK {
		d.logger.Debug("dispatch failed",
			zap.String("command", inv.Command),
			zap.String("session_id", sess.ID()),
			zap.Int("exit_code", res.ExitCode),
		)
	}
	return res
}

func (d *Dispatcher) execute(ctx context.Context, inv *shell.Invocation, sess Session) *shell.Result {
	cmd, ok := d.registry.Get(inv.Command)
	if !ok {
		return fail(shell.Errorf(shell.KindUnknownCommand, "unknown command: %s", inv.Command))
	}
	if err := validate(cmd, inv); err != nil {
		return fail(err)
	}

	req := shell.Request{
		Args:      inv.Args,
		Flags:     inv.Flags,
		CWD:       sess.CWD(),
		SessionID: sess.ID(),
	}

	res, err := d.invoke(ctx, cmd.Handler, req)
	if err != nil {
		return fail(shell.Normalize(err))
	}
	if res == nil {
		res = &shell.Result{}
	}
	res.ExitCode = shell.ExitOK
	res.SideEffects = cmd.Mutates

	if res.NewCwd != "" {
		if err := sess.SetCWD(res.NewCwd); err != nil {
			return fail(shell.Wrap(shell.KindNotFound, err.Error(), err))
		}
	}

	if inv.Redirect != "" {
		if err := writeRedirect(sess.CWD(), inv.Redirect, res.Stdout); err != nil {
			return fail(shell.Wrap(shell.KindIOFailure, err.Error(), err))
		}
		res.Stdout = ""
		res.SideEffects = true
	}
	return res
}

// invoke runs the handler under the dispatch timeout. A handler that outlives
// the deadline is abandoned; side effects it already committed stand.
func (d *Dispatcher) invoke(ctx context.Context, h shell.Handler, req shell.Request) (*shell.Result, error) {
	hctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type outcome struct {
		res *shell.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := h(hctx, req)
		done <- outcome{res, err}
	}()

	select {
	case out := <-done:
		return out.res, out.err
	case <-hctx.Done():
		return nil, hctx.Err()
	}
}

// writeRedirect writes stdout to the target path, creating or truncating it.
// Append mode and chaining are not supported. Output gains a trailing newline
// when the handler did not provide one.
func writeRedirect(cwd, target, stdout string) error {
	path := target
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	if stdout != "" && !strings.HasSuffix(stdout, "\n") {
		stdout += "\n"
	}
	return os.WriteFile(path, []byte(stdout), 0o644)
}

func validate(cmd shell.Command, inv *shell.Invocation) *shell.Error {
	if len(inv.Args) < cmd.MinArgs {
		return shell.Errorf(shell.KindInvalidArgument, "%s: expected at least %d argument(s), got %d\nusage: %s",
			cmd.Name, cmd.MinArgs, len(inv.Args), cmd.Usage)
	}
	if cmd.MaxArgs >= 0 && len(inv.Args) > cmd.MaxArgs {
		return shell.Errorf(shell.KindInvalidArgument, "%s: expected at most %d argument(s), got %d\nusage: %s",
			cmd.Name, cmd.MaxArgs, len(inv.Args), cmd.Usage)
	}
	for flag := range inv.Flags {
		if !cmd.AllowsFlag(flag) {
			return shell.Errorf(shell.KindInvalidArgument, "%s: unknown flag -%s", cmd.Name, flag)
		}
	}
	return nil
}

func fail(serr *shell.Error) *shell.Result {
	return &shell.Result{
		Stdout:   fmt.Sprintf("Error: %s", serr.Msg),
		ExitCode: serr.Kind.ExitCode(),
	}
}
