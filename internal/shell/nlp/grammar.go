package nlp

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// defaultGrammar returns the built-in templates. Order matters: matching is
// first-registered-wins, so more specific phrasings are registered before
// their general forms.
func defaultGrammar() []*Template {
	return []*Template{
		// Create operations
		{Phrase: "create folder {name}", Command: "mkdir", Args: []string{"{name}"}},
		{Phrase: "create directory {name}", Command: "mkdir", Args: []string{"{name}"}},
		{Phrase: "make folder {name}", Command: "mkdir", Args: []string{"{name}"}},
		{Phrase: "make directory {name}", Command: "mkdir", Args: []string{"{name}"}},
		{Phrase: "new folder {name}", Command: "mkdir", Args: []string{"{name}"}},
		{Phrase: "create file {name} with {content}", Command: "echo", Args: []string{"{content}"}, Redirect: "{name}"},
		{Phrase: "create file {name}", Command: "touch", Args: []string{"{name}"}},

		// Move / copy
		{Phrase: "move file {src} to {dst}", Command: "mv", Args: []string{"{src}", "{dst}"}},
		{Phrase: "move {src} to {dst}", Command: "mv", Args: []string{"{src}", "{dst}"}},
		{Phrase: "copy file {src} to {dst}", Command: "cp", Args: []string{"{src}", "{dst}"}},
		{Phrase: "copy {src} to {dst}", Command: "cp", Args: []string{"{src}", "{dst}"}},

		// Delete
		{Phrase: "delete {target}", Command: "rm", Args: []string{"{target}"}},
		{Phrase: "remove {target}", Command: "rm", Args: []string{"{target}"}},

		// Read
		{Phrase: "read {file}", Command: "cat", Args: []string{"{file}"}},
		{Phrase: "open {file}", Command: "cat", Args: []string{"{file}"}},
		{Phrase: "view {file}", Command: "cat", Args: []string{"{file}"}},

		// Listing and system info
		{Phrase: "show hidden files", Command: "ls", Flags: []string{"a"}},
		{Phrase: "show files", Command: "ls"},
		{Phrase: "list files", Command: "ls"},
		{Phrase: "show memory usage", Command: "mem"},
		{Phrase: "show memory", Command: "mem"},
		{Phrase: "show ram", Command: "mem"},
		{Phrase: "show cpu usage", Command: "cpu"},
		{Phrase: "show cpu", Command: "cpu"},
		{Phrase: "show processor", Command: "cpu"},
		{Phrase: "show running processes", Command: "ps"},
		{Phrase: "show processes", Command: "ps"},
		{Phrase: "show disk space", Command: "df"},
		{Phrase: "show disk", Command: "df"},
		{Phrase: "show storage", Command: "df"},

		// Search
		{Phrase: "search for {pattern}", Command: "find", Args: []string{"{pattern}"}},
		{Phrase: "find {pattern}", Command: "find", Args: []string{"{pattern}"}},

		// Help
		{Phrase: "what can you do", Command: "help"},
		{Phrase: "help", Command: "help"},
	}
}

// grammarFile is the YAML shape of a user-supplied grammar extension.
type grammarFile struct {
	Templates []struct {
		Phrase   string   `yaml:"phrase"`
		Command  string   `yaml:"command"`
		Args     []string `yaml:"args"`
		Flags    []string `yaml:"flags"`
		Redirect string   `yaml:"redirect"`
	} `yaml:"templates"`
}

// LoadGrammar reads extra templates from a YAML file. They are appended after
// the built-ins, so built-in phrasings cannot be shadowed.
func LoadGrammar(path string) ([]*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar file: %w", err)
	}
	var f grammarFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse grammar file: %w", err)
	}
	templates := make([]*Template, 0, len(f.Templates))
	for _, t := range f.Templates {
		templates = append(templates, &Template{
			Phrase:   t.Phrase,
			Command:  t.Command,
			Args:     t.Args,
			Flags:    t.Flags,
			Redirect: t.Redirect,
		})
	}
	return templates, nil
}

// NewWithGrammarFile builds a translator from the built-in grammar plus an
// optional extension file (empty path means built-ins only).
func NewWithGrammarFile(path string) (*Translator, error) {
	templates := defaultGrammar()
	if path != "" {
		extra, err := LoadGrammar(path)
		if err != nil {
			return nil, err
		}
		templates = append(templates, extra...)
	}
	return New(templates...)
}
