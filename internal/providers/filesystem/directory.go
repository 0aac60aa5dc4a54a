package filesystem

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ganesh9880/termipy/internal/shared/format"
	"github.com/ganesh9880/termipy/internal/shell"
)

func (p *Provider) ls(ctx context.Context, req shell.Request) (*shell.Result, error) {
	target := req.CWD
	if len(req.Args) == 1 {
		target = resolve(req.CWD, req.Args[0])
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, err
	}

	showHidden := req.Flag("a", "all")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !showHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return &shell.Result{Stdout: "Directory is empty"}, nil
	}

	if !req.Flag("l", "long") {
		return &shell.Result{Stdout: strings.Join(names, "\n")}, nil
	}

	human := req.Flag("h", "human-readable")
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		info, err := os.Stat(resolve(target, name))
		if err != nil {
			fmt.Fprintf(&b, "? %8s %s", "?", name)
			continue
		}
		mode := "-"
		if info.IsDir() {
			mode = "d"
		}
		size := fmt.Sprintf("%d", info.Size())
		if human {
			size = format.Size(uint64(info.Size()))
		}
		fmt.Fprintf(&b, "%s %8s %s", mode, size, name)
	}
	return &shell.Result{Stdout: b.String()}, nil
}

func (p *Provider) cd(ctx context.Context, req shell.Request) (*shell.Result, error) {
	var target string
	if len(req.Args) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, shell.Wrap(shell.KindIOFailure, "cannot determine home directory", err)
		}
		target = home
	} else {
		target = resolve(req.CWD, req.Args[0])
	}

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return nil, shell.Errorf(shell.KindNotFound, "directory '%s' not found", target)
	}
	return &shell.Result{Stdout: "Changed to: " + target, NewCwd: target}, nil
}

func (p *Provider) pwd(ctx context.Context, req shell.Request) (*shell.Result, error) {
	return &shell.Result{Stdout: req.CWD}, nil
}

func (p *Provider) mkdir(ctx context.Context, req shell.Request) (*shell.Result, error) {
	lines := make([]string, 0, len(req.Args))
	for _, name := range req.Args {
		if err := os.MkdirAll(resolve(req.CWD, name), 0o755); err != nil {
			return nil, err
		}
		lines = append(lines, "Created directory: "+name)
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) rmdir(ctx context.Context, req shell.Request) (*shell.Result, error) {
	lines := make([]string, 0, len(req.Args))
	for _, name := range req.Args {
		full := resolve(req.CWD, name)
		info, err := os.Stat(full)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, shell.Errorf(shell.KindInvalidArgument, "'%s' is not a directory", name)
		}
		entries, err := os.ReadDir(full)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			return nil, shell.Errorf(shell.KindInvalidArgument,
				"directory '%s' is not empty (use 'rm -r' to remove non-empty directories)", name)
		}
		if err := os.Remove(full); err != nil {
			return nil, err
		}
		lines = append(lines, "Removed directory: "+name)
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) rm(ctx context.Context, req shell.Request) (*shell.Result, error) {
	recursive := req.Flag("r", "recursive")
	force := req.Flag("f", "force")

	lines := make([]string, 0, len(req.Args))
	for _, name := range req.Args {
		full := resolve(req.CWD, name)
		info, err := os.Stat(full)
		if err != nil {
			if force {
				continue
			}
			return nil, shell.Errorf(shell.KindNotFound, "'%s' not found", name)
		}
		if info.IsDir() {
			if !recursive {
				return nil, shell.Errorf(shell.KindInvalidArgument,
					"'%s' is a directory (use -r for recursive)", name)
			}
			if err := os.RemoveAll(full); err != nil {
				return nil, err
			}
			lines = append(lines, "Removed directory: "+name)
			continue
		}
		if err := os.Remove(full); err != nil {
			return nil, err
		}
		lines = append(lines, "Removed file: "+name)
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}
