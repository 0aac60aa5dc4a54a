package registry

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganesh9880/termipy/internal/infrastructure/logging"
	"github.com/ganesh9880/termipy/internal/shell"
	"github.com/ganesh9880/termipy/internal/shell/nlp"
	"github.com/ganesh9880/termipy/internal/shell/parser"
)

// fakeSession records history in memory for dispatcher tests.
type fakeSession struct {
	mu      sync.Mutex
	id      string
	cwd     string
	records []struct {
		raw  string
		code int
	}
}

func (s *fakeSession) ID() string  { return s.id }
func (s *fakeSession) CWD() string { return s.cwd }
func (s *fakeSession) SetCWD(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return os.ErrInvalid
	}
	s.cwd = dir
	return nil
}
func (s *fakeSession) Record(raw string, code int) {
	s.records = append(s.records, struct {
		raw  string
		code int
	}{raw, code})
}
func (s *fakeSession) Lock()   { s.mu.Lock() }
func (s *fakeSession) Unlock() { s.mu.Unlock() }

func echoCommand() shell.Command {
	return shell.Command{
		Name:    "echo",
		Usage:   "echo [text...]",
		MinArgs: 0,
		MaxArgs: -1,
		Handler: func(ctx context.Context, req shell.Request) (*shell.Result, error) {
			out := ""
			for i, a := range req.Args {
				if i > 0 {
					out += " "
				}
				out += a
			}
			return &shell.Result{Stdout: out}, nil
		},
	}
}

func newTestDispatcher(t *testing.T, cmds ...shell.Command) *Dispatcher {
	t.Helper()
	reg := New()
	for _, c := range cmds {
		require.NoError(t, reg.Register(c))
	}
	return NewDispatcher(reg, nlp.NewDefault(), parser.Parse, time.Second, logging.Nop())
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := newTestDispatcher(t, echoCommand())
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "frobnicate", sess)

	assert.Equal(t, shell.ExitUnknownCommand, res.ExitCode)
	assert.False(t, res.SideEffects)
	assert.Contains(t, res.Stdout, "unknown command")
	// Failed dispatch is recorded with its exit code.
	require.Len(t, sess.records, 1)
	assert.Equal(t, shell.ExitUnknownCommand, sess.records[0].code)
}

func TestDispatchParseErrorNotRecorded(t *testing.T) {
	d := newTestDispatcher(t, echoCommand())
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), `echo "unterminated`, sess)

	assert.Equal(t, shell.ExitParseError, res.ExitCode)
	assert.Empty(t, sess.records, "parse-stage failures must not touch history")
}

func TestDispatchBlankInputIsNoOp(t *testing.T) {
	d := newTestDispatcher(t, echoCommand())
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "   ", sess)

	assert.Equal(t, shell.ExitOK, res.ExitCode)
	assert.Empty(t, res.Stdout)
	assert.Empty(t, sess.records)
}

func TestDispatchArityValidation(t *testing.T) {
	cmd := shell.Command{
		Name:    "mv",
		Usage:   "mv <src> <dst>",
		MinArgs: 2,
		MaxArgs: 2,
		Handler: func(ctx context.Context, req shell.Request) (*shell.Result, error) {
			t.Fatal("handler must not run on validation failure")
			return nil, nil
		},
	}
	d := newTestDispatcher(t, cmd)
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "mv lonely.txt", sess)
	assert.Equal(t, shell.ExitInvalidArgument, res.ExitCode)

	res = d.Run(context.Background(), "mv a b c", sess)
	assert.Equal(t, shell.ExitInvalidArgument, res.ExitCode)
}

func TestDispatchRejectsUnknownFlag(t *testing.T) {
	d := newTestDispatcher(t, echoCommand())
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "echo -z hi", sess)

	assert.Equal(t, shell.ExitInvalidArgument, res.ExitCode)
	assert.Contains(t, res.Stdout, "unknown flag")
}

func TestDispatchRedirectWritesFile(t *testing.T) {
	d := newTestDispatcher(t, echoCommand())
	dir := t.TempDir()
	sess := &fakeSession{id: "t", cwd: dir}

	res := d.Run(context.Background(), "echo hello > out.txt", sess)

	require.Equal(t, shell.ExitOK, res.ExitCode)
	assert.Empty(t, res.Stdout, "redirected output must not reach the caller")
	assert.True(t, res.SideEffects)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	// A second run truncates and overwrites rather than appending.
	res = d.Run(context.Background(), "echo bye > out.txt", sess)
	require.Equal(t, shell.ExitOK, res.ExitCode)
	data, err = os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bye\n", string(data))
}

func TestDispatchRedirectExpandsHome(t *testing.T) {
	d := newTestDispatcher(t, echoCommand())
	home := t.TempDir()
	t.Setenv("HOME", home)
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "echo hi > ~/out.txt", sess)

	require.Equal(t, shell.ExitOK, res.ExitCode)
	data, err := os.ReadFile(filepath.Join(home, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(data))
}

func TestDispatchRedirectFailureIsIOFailure(t *testing.T) {
	d := newTestDispatcher(t, echoCommand())
	dir := t.TempDir()
	sess := &fakeSession{id: "t", cwd: dir}

	res := d.Run(context.Background(), "echo hi > missing/dir/out.txt", sess)

	assert.Equal(t, shell.ExitIOFailure, res.ExitCode)
}

func TestDispatchNaturalLanguageRoute(t *testing.T) {
	mkdirCmd := shell.Command{
		Name:    "mkdir",
		Usage:   "mkdir <dir>...",
		MinArgs: 1,
		MaxArgs: -1,
		Mutates: true,
		Handler: func(ctx context.Context, req shell.Request) (*shell.Result, error) {
			return &shell.Result{Stdout: "Created directory: " + req.Args[0]}, nil
		},
	}
	d := newTestDispatcher(t, mkdirCmd)
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "ai create folder docs", sess)

	assert.Equal(t, shell.ExitOK, res.ExitCode)
	assert.True(t, res.SideEffects)
	assert.Contains(t, res.Stdout, "docs")
}

func TestDispatchUnrecognizedPhraseNotRecorded(t *testing.T) {
	d := newTestDispatcher(t, echoCommand())
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "ai do something impossible please", sess)

	assert.Equal(t, shell.ExitUnrecognizedPhrase, res.ExitCode)
	assert.Empty(t, sess.records)
}

func TestDispatchNormalizesHandlerErrors(t *testing.T) {
	cmd := shell.Command{
		Name:    "boom",
		Usage:   "boom",
		MaxArgs: 0,
		Handler: func(ctx context.Context, req shell.Request) (*shell.Result, error) {
			return nil, os.ErrNotExist
		},
	}
	d := newTestDispatcher(t, cmd)
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "boom", sess)

	assert.Equal(t, shell.ExitNotFound, res.ExitCode)
	assert.False(t, res.SideEffects)
}

func TestDispatchTimeout(t *testing.T) {
	slow := shell.Command{
		Name:    "sleepy",
		Usage:   "sleepy",
		MaxArgs: 0,
		Handler: func(ctx context.Context, req shell.Request) (*shell.Result, error) {
			select {
			case <-time.After(5 * time.Second):
				return &shell.Result{}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
	reg := New()
	require.NoError(t, reg.Register(slow))
	d := NewDispatcher(reg, nlp.NewDefault(), parser.Parse, 50*time.Millisecond, logging.Nop())
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	start := time.Now()
	res := d.Run(context.Background(), "sleepy", sess)

	assert.Equal(t, shell.ExitIOFailure, res.ExitCode)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDispatchAppliesNewCwd(t *testing.T) {
	cd := shell.Command{
		Name:    "cd",
		Usage:   "cd [dir]",
		MaxArgs: 1,
		Mutates: true,
		Handler: func(ctx context.Context, req shell.Request) (*shell.Result, error) {
			return &shell.Result{Stdout: "Changed to: " + req.Args[0], NewCwd: req.Args[0]}, nil
		},
	}
	d := newTestDispatcher(t, cd)
	target := t.TempDir()
	sess := &fakeSession{id: "t", cwd: t.TempDir()}

	res := d.Run(context.Background(), "cd "+target, sess)

	assert.Equal(t, shell.ExitOK, res.ExitCode)
	assert.Equal(t, target, sess.cwd)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(echoCommand()))
	assert.Error(t, reg.Register(echoCommand()))
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := New()
	for _, name := range []string{"mv", "cat", "ls"} {
		cmd := echoCommand()
		cmd.Name = name
		require.NoError(t, reg.Register(cmd))
	}
	assert.Equal(t, []string{"cat", "ls", "mv"}, reg.Names())
}
