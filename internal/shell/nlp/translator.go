// Package nlp translates constrained natural-language phrases into canonical
// invocations.
//
// The translator is a deterministic phrase-template matcher, not a language
// model: an ordered set of slot-templates is tried in registration order and
// the first match wins. Input is routed here only when it carries the phrase
// marker ("ai ..."); everything else goes to the parser.
package nlp

import (
	"strings"

	"github.com/ganesh9880/termipy/internal/shell"
)

// Marker is the leading keyword identifying natural-language input.
const Marker = "ai"

// Translator holds the ordered template grammar. Built once at startup and
// read-only thereafter.
type Translator struct {
	marker    string
	templates []*Template
}

// New creates a translator with the given templates, preserving registration
// order. Tie-break between overlapping templates is registration order, not
// specificity.
func New(templates ...*Template) (*Translator, error) {
	tr := &Translator{marker: Marker}
	for _, t := range templates {
		if err := t.compile(); err != nil {
			return nil, err
		}
		tr.templates = append(tr.templates, t)
	}
	return tr, nil
}

// NewDefault creates a translator with the built-in grammar.
func NewDefault() *Translator {
	tr, err := New(defaultGrammar()...)
	if err != nil {
		// The built-in grammar is static; a compile failure is a programming
		// error caught by the package tests.
		panic(err)
	}
	return tr
}

// Matches reports whether the raw input carries the phrase marker.
func (tr *Translator) Matches(raw string) bool {
	fields := strings.Fields(raw)
	return len(fields) > 0 && strings.EqualFold(fields[0], tr.marker)
}

// Translate strips the marker and attempts each template in registration
// order. No match yields an UnrecognizedPhrase error; this layer never
// silently drops input.
func (tr *Translator) Translate(raw string) (*shell.Invocation, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 || !strings.EqualFold(fields[0], tr.marker) {
		return nil, shell.Errorf(shell.KindUnrecognizedPhrase, "input lacks the %q marker", tr.marker)
	}
	tokens := fields[1:]
	if len(tokens) == 0 {
		return nil, shell.Errorf(shell.KindUnrecognizedPhrase, "empty phrase after %q", tr.marker)
	}
	for _, t := range tr.templates {
		captures, ok := t.match(tokens)
		if !ok {
			continue
		}
		inv, err := t.build(raw, captures)
		if err != nil {
			return nil, shell.Wrap(shell.KindUnrecognizedPhrase, err.Error(), err)
		}
		return inv, nil
	}
	return nil, shell.Errorf(shell.KindUnrecognizedPhrase, "no phrase template matches %q", strings.Join(tokens, " "))
}

// Heads returns the distinct leading literals of all templates, prefixed with
// the marker, in registration order. Consumed by the completion index.
func (tr *Translator) Heads() []string {
	seen := make(map[string]bool)
	var heads []string
	for _, t := range tr.templates {
		h := t.head()
		if h == "" {
			continue
		}
		full := tr.marker + " " + h
		if !seen[full] {
			seen[full] = true
			heads = append(heads, full)
		}
	}
	return heads
}
