package nlp

import (
	"fmt"
	"strings"

	"github.com/ganesh9880/termipy/internal/shell"
)

// Template maps a natural-language phrase pattern to a canonical command.
// Pattern tokens are literals or {slot} placeholders; a slot captures one or
// more input tokens up to the next literal token or end of input.
type Template struct {
	// Phrase is the pattern source, e.g. "move file {src} to {dst}".
	Phrase string
	// Command is the canonical command name the template resolves to.
	Command string
	// Args builds the positional arguments: each entry is a literal string
	// or a "{slot}" reference replaced with the captured span.
	Args []string
	// Flags are set verbatim on the produced invocation.
	Flags []string
	// Redirect optionally maps a "{slot}" to the redirect target.
	Redirect string

	tokens []patternToken
}

type patternToken struct {
	literal string // set when the token is a literal
	slot    string // set when the token is a slot
}

func (t patternToken) isSlot() bool { return t.slot != "" }

// compile parses the phrase into pattern tokens. Called once at registration.
func (t *Template) compile() error {
	fields := strings.Fields(t.Phrase)
	if len(fields) == 0 {
		return fmt.Errorf("template %q: empty phrase", t.Phrase)
	}
	if t.Command == "" {
		return fmt.Errorf("template %q: missing target command", t.Phrase)
	}
	t.tokens = make([]patternToken, 0, len(fields))
	for i, f := range fields {
		if strings.HasPrefix(f, "{") && strings.HasSuffix(f, "}") {
			name := f[1 : len(f)-1]
			if name == "" {
				return fmt.Errorf("template %q: unnamed slot", t.Phrase)
			}
			if i > 0 && t.tokens[i-1].isSlot() {
				return fmt.Errorf("template %q: adjacent slots are ambiguous", t.Phrase)
			}
			t.tokens = append(t.tokens, patternToken{slot: name})
			continue
		}
		t.tokens = append(t.tokens, patternToken{literal: strings.ToLower(f)})
	}
	return nil
}

// head returns the leading literal tokens of the pattern, used by the
// completion index.
func (t *Template) head() string {
	var lits []string
	for _, tok := range t.tokens {
		if tok.isSlot() {
			break
		}
		lits = append(lits, tok.literal)
	}
	return strings.Join(lits, " ")
}

// match aligns the pattern against input tokens. Literals must align
// positionally (case-insensitive); each slot captures at least one token, up
// to the next literal or end of input. Returns the captured spans.
func (t *Template) match(tokens []string) (map[string]string, bool) {
	captures := make(map[string]string)
	j := 0
	for i, pat := range t.tokens {
		if !pat.isSlot() {
			if j >= len(tokens) || !strings.EqualFold(tokens[j], pat.literal) {
				return nil, false
			}
			j++
			continue
		}
		if j >= len(tokens) {
			return nil, false
		}
		if i == len(t.tokens)-1 {
			// Trailing slot swallows the rest of the input.
			captures[pat.slot] = strings.Join(tokens[j:], " ")
			j = len(tokens)
			continue
		}
		next := t.tokens[i+1].literal
		end := -1
		for k := j + 1; k < len(tokens); k++ {
			if strings.EqualFold(tokens[k], next) {
				end = k
				break
			}
		}
		if end == -1 {
			return nil, false
		}
		captures[pat.slot] = strings.Join(tokens[j:end], " ")
		j = end
	}
	if j != len(tokens) {
		return nil, false
	}
	return captures, true
}

// build produces the invocation for a successful match.
func (t *Template) build(raw string, captures map[string]string) (*shell.Invocation, error) {
	inv := &shell.Invocation{
		Command: t.Command,
		Args:    make([]string, 0, len(t.Args)),
		Flags:   map[string]bool{},
		Source:  shell.SourceNaturalLanguage,
		Raw:     raw,
	}
	for _, a := range t.Args {
		v, err := t.resolve(a, captures)
		if err != nil {
			return nil, err
		}
		inv.Args = append(inv.Args, v)
	}
	for _, f := range t.Flags {
		inv.Flags[f] = true
	}
	if t.Redirect != "" {
		v, err := t.resolve(t.Redirect, captures)
		if err != nil {
			return nil, err
		}
		inv.Redirect = v
	}
	return inv, nil
}

func (t *Template) resolve(ref string, captures map[string]string) (string, error) {
	if strings.HasPrefix(ref, "{") && strings.HasSuffix(ref, "}") {
		v, ok := captures[ref[1:len(ref)-1]]
		if !ok {
			return "", fmt.Errorf("template %q: mapping references unknown slot %s", t.Phrase, ref)
		}
		return v, nil
	}
	return ref, nil
}
