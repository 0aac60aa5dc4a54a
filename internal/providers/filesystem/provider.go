package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ganesh9880/termipy/internal/shell"
)

// Provider bundles the filesystem command set.
type Provider struct{}

// New creates the filesystem provider.
func New() *Provider {
	return &Provider{}
}

// Commands returns the command table for registration.
func (p *Provider) Commands() []shell.Command {
	return []shell.Command{
		{
			Name:         "ls",
			Description:  "List directory contents",
			Usage:        "ls [-a] [-l] [-h] [dir]",
			MaxArgs:      1,
			AllowedFlags: []string{"a", "all", "l", "long", "h", "human-readable"},
			Handler:      p.ls,
		},
		{
			Name:        "cd",
			Description: "Change directory",
			Usage:       "cd [dir]",
			MaxArgs:     1,
			Mutates:     true,
			Handler:     p.cd,
		},
		{
			Name:        "pwd",
			Description: "Print working directory",
			Usage:       "pwd",
			Handler:     p.pwd,
		},
		{
			Name:        "mkdir",
			Description: "Create directory",
			Usage:       "mkdir <dir>...",
			MinArgs:     1,
			MaxArgs:     -1,
			Mutates:     true,
			Handler:     p.mkdir,
		},
		{
			Name:         "rm",
			Description:  "Remove files or directories",
			Usage:        "rm [-r] [-f] <target>...",
			MinArgs:      1,
			MaxArgs:      -1,
			AllowedFlags: []string{"r", "recursive", "f", "force"},
			Mutates:      true,
			Handler:      p.rm,
		},
		{
			Name:        "rmdir",
			Description: "Remove empty directories",
			Usage:       "rmdir <dir>...",
			MinArgs:     1,
			MaxArgs:     -1,
			Mutates:     true,
			Handler:     p.rmdir,
		},
		{
			Name:         "cp",
			Description:  "Copy files or directories",
			Usage:        "cp [-r] <src> <dst>",
			MinArgs:      2,
			MaxArgs:      2,
			AllowedFlags: []string{"r", "recursive"},
			Mutates:      true,
			Handler:      p.cp,
		},
		{
			Name:        "mv",
			Description: "Move or rename files or directories",
			Usage:       "mv <src> <dst>",
			MinArgs:     2,
			MaxArgs:     2,
			Mutates:     true,
			Handler:     p.mv,
		},
		{
			Name:        "cat",
			Description: "Display file contents",
			Usage:       "cat <file>...",
			MinArgs:     1,
			MaxArgs:     -1,
			Handler:     p.cat,
		},
		{
			Name:        "echo",
			Description: "Echo text",
			Usage:       "echo [text...]",
			MaxArgs:     -1,
			Handler:     p.echo,
		},
		{
			Name:        "touch",
			Description: "Create empty files or update timestamps",
			Usage:       "touch <file>...",
			MinArgs:     1,
			MaxArgs:     -1,
			Mutates:     true,
			Handler:     p.touch,
		},
		{
			Name:        "stat",
			Description: "Show file metadata",
			Usage:       "stat <path>",
			MinArgs:     1,
			MaxArgs:     1,
			Handler:     p.stat,
		},
		{
			Name:        "find",
			Description: "Find files by name",
			Usage:       "find <pattern> [dir]",
			MinArgs:     1,
			MaxArgs:     2,
			Handler:     p.find,
		},
		{
			Name:        "grep",
			Description: "Search text in a file",
			Usage:       "grep <pattern> <file>",
			MinArgs:     2,
			MaxArgs:     2,
			Handler:     p.grep,
		},
		{
			Name:        "du",
			Description: "Show directory usage",
			Usage:       "du [dir]",
			MaxArgs:     1,
			Handler:     p.du,
		},
	}
}

// resolve turns a user-supplied path into an absolute one relative to the
// session cwd. A leading ~ expands to the user home directory.
func resolve(cwd, path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return filepath.Clean(path)
}
