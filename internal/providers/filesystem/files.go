package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ganesh9880/termipy/internal/shared/format"
	"github.com/ganesh9880/termipy/internal/shell"
)

func (p *Provider) cat(ctx context.Context, req shell.Request) (*shell.Result, error) {
	parts := make([]string, 0, len(req.Args))
	for _, name := range req.Args {
		data, err := os.ReadFile(resolve(req.CWD, name))
		if err != nil {
			return nil, err
		}
		parts = append(parts, strings.TrimRight(string(data), "\n"))
	}
	return &shell.Result{Stdout: strings.Join(parts, "\n")}, nil
}

func (p *Provider) echo(ctx context.Context, req shell.Request) (*shell.Result, error) {
	return &shell.Result{Stdout: strings.Join(req.Args, " ")}, nil
}

func (p *Provider) touch(ctx context.Context, req shell.Request) (*shell.Result, error) {
	now := time.Now()
	lines := make([]string, 0, len(req.Args))
	for _, name := range req.Args {
		full := resolve(req.CWD, name)
		if _, err := os.Stat(full); err == nil {
			if err := os.Chtimes(full, now, now); err != nil {
				return nil, err
			}
			lines = append(lines, "Updated: "+name)
			continue
		}
		f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		f.Close()
		lines = append(lines, "Created file: "+name)
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) stat(ctx context.Context, req shell.Request) (*shell.Result, error) {
	full := resolve(req.CWD, req.Args[0])
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}

	kind := "file"
	if info.IsDir() {
		kind = "directory"
	}
	lines := []string{
		"Path: " + full,
		"Type: " + kind,
		fmt.Sprintf("Size: %s (%d bytes)", format.Size(uint64(info.Size())), info.Size()),
		"Mode: " + info.Mode().String(),
		"Modified: " + info.ModTime().Format(time.RFC3339),
	}
	if info.Mode().IsRegular() {
		if mtype, err := mimetype.DetectFile(full); err == nil {
			lines = append(lines, "MIME: "+mtype.String())
		}
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) cp(ctx context.Context, req shell.Request) (*shell.Result, error) {
	src := resolve(req.CWD, req.Args[0])
	dst := resolve(req.CWD, req.Args[1])

	info, err := os.Stat(src)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		if !req.Flag("r", "recursive") {
			return nil, shell.Errorf(shell.KindInvalidArgument, "cannot copy directory without -r flag")
		}
		if err := copyTree(ctx, src, dst); err != nil {
			return nil, err
		}
		return &shell.Result{Stdout: fmt.Sprintf("Copied directory '%s' to '%s'", req.Args[0], req.Args[1])}, nil
	}

	// Copying onto an existing directory places the file inside it.
	if di, err := os.Stat(dst); err == nil && di.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if err := copyFile(src, dst, info.Mode()); err != nil {
		return nil, err
	}
	return &shell.Result{Stdout: fmt.Sprintf("Copied file '%s' to '%s'", req.Args[0], req.Args[1])}, nil
}

func (p *Provider) mv(ctx context.Context, req shell.Request) (*shell.Result, error) {
	src := resolve(req.CWD, req.Args[0])
	dst := resolve(req.CWD, req.Args[1])

	if _, err := os.Stat(src); err != nil {
		return nil, err
	}
	if di, err := os.Stat(dst); err == nil && di.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if err := os.Rename(src, dst); err != nil {
		// Cross-device moves fall back to copy and delete.
		info, serr := os.Stat(src)
		if serr != nil {
			return nil, serr
		}
		if info.IsDir() {
			if cerr := copyTree(ctx, src, dst); cerr != nil {
				return nil, cerr
			}
		} else if cerr := copyFile(src, dst, info.Mode()); cerr != nil {
			return nil, cerr
		}
		if rerr := os.RemoveAll(src); rerr != nil {
			return nil, rerr
		}
	}
	return &shell.Result{Stdout: fmt.Sprintf("Moved '%s' to '%s'", req.Args[0], req.Args[1])}, nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode())
	})
}
