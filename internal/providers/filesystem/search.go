package filesystem

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/ganesh9880/termipy/internal/shared/format"
	"github.com/ganesh9880/termipy/internal/shell"
)

func (p *Provider) find(ctx context.Context, req shell.Request) (*shell.Result, error) {
	pattern := req.Args[0]
	dir := req.CWD
	if len(req.Args) == 2 {
		dir = resolve(req.CWD, req.Args[1])
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	var matches []string
	var err error
	if strings.ContainsAny(pattern, "*?[") {
		matches, err = globMatches(ctx, dir, pattern)
	} else {
		matches, err = substringMatches(ctx, dir, pattern)
	}
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return &shell.Result{Stdout: fmt.Sprintf("No files found matching '%s'", pattern)}, nil
	}
	sort.Strings(matches)
	return &shell.Result{Stdout: strings.Join(matches, "\n")}, nil
}

// globMatches walks dir and matches entry names against a glob pattern.
// Patterns containing a separator (incl. **) match the path relative to dir.
func globMatches(ctx context.Context, dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, shell.Errorf(shell.KindInvalidArgument, "invalid pattern '%s'", pattern)
	}
	onPath := strings.Contains(pattern, "/")

	var mu sync.Mutex
	var matches []string
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || path == dir {
			return nil
		}
		candidate := d.Name()
		if onPath {
			rel, rerr := filepath.Rel(dir, path)
			if rerr != nil {
				return nil
			}
			candidate = rel
		}
		if ok, _ := doublestar.Match(pattern, candidate); ok {
			mu.Lock()
			matches = append(matches, path)
			mu.Unlock()
		}
		return nil
	})
	return matches, err
}

func substringMatches(ctx context.Context, dir, pattern string) ([]string, error) {
	var mu sync.Mutex
	var matches []string
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.Contains(d.Name(), pattern) {
			mu.Lock()
			matches = append(matches, path)
			mu.Unlock()
		}
		return nil
	})
	return matches, err
}

func (p *Provider) grep(ctx context.Context, req shell.Request) (*shell.Result, error) {
	pattern, name := req.Args[0], req.Args[1]
	f, err := os.Open(resolve(req.CWD, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		if strings.Contains(scanner.Text(), pattern) {
			lines = append(lines, fmt.Sprintf("%s:%d:%s", name, lineNum, scanner.Text()))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return &shell.Result{Stdout: fmt.Sprintf("No matches found for '%s' in '%s'", pattern, name)}, nil
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) du(ctx context.Context, req shell.Request) (*shell.Result, error) {
	target := "."
	dir := req.CWD
	if len(req.Args) == 1 {
		target = req.Args[0]
		dir = resolve(req.CWD, target)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var total uint64
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return nil
		}
		mu.Lock()
		total += uint64(info.Size())
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &shell.Result{Stdout: fmt.Sprintf("Total size of '%s': %s", target, format.Size(total))}, nil
}
