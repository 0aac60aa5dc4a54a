// Package parser tokenizes raw input lines into invocations.
//
// The grammar is deliberately small: whitespace-separated tokens with single
// or double quoting, short/long flags, and at most one trailing "> path"
// redirect clause. This is not a POSIX shell parser.
package parser

import (
	"strings"

	"github.com/ganesh9880/termipy/internal/shell"
)

type token struct {
	text   string
	quoted bool
}

// Parse converts a raw input line into an Invocation. Blank input yields a
// no-op Invocation; malformed input yields a ParseError.
func Parse(raw string) (*shell.Invocation, error) {
	tokens, err := tokenize(raw)
	if err != nil {
		return nil, err
	}

	inv := &shell.Invocation{
		Args:   []string{},
		Flags:  map[string]bool{},
		Source: shell.SourceDirect,
		Raw:    raw,
	}
	if len(tokens) == 0 {
		return inv, nil
	}

	tokens, redirect, err := splitRedirect(tokens)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, shell.Errorf(shell.KindParseError, "redirect clause without a command")
	}

	inv.Command = strings.ToLower(tokens[0].text)
	inv.Redirect = redirect

	for _, tok := range tokens[1:] {
		switch {
		case !tok.quoted && strings.HasPrefix(tok.text, "--") && len(tok.text) > 2:
			inv.Flags[tok.text[2:]] = true
		case !tok.quoted && strings.HasPrefix(tok.text, "-") && len(tok.text) > 1:
			// Short flags explode: -la sets both l and a.
			for _, r := range tok.text[1:] {
				inv.Flags[string(r)] = true
			}
		default:
			inv.Args = append(inv.Args, tok.text)
		}
	}
	return inv, nil
}

// splitRedirect strips a trailing "> target" clause. At most one redirect
// clause is permitted and it must be the final clause.
func splitRedirect(tokens []token) ([]token, string, error) {
	idx := -1
	for i, tok := range tokens {
		if !tok.quoted && tok.text == ">" {
			if idx != -1 {
				return nil, "", shell.Errorf(shell.KindParseError, "multiple redirect clauses")
			}
			idx = i
		}
	}
	if idx == -1 {
		return tokens, "", nil
	}
	if idx == len(tokens)-1 {
		return nil, "", shell.Errorf(shell.KindParseError, "redirect clause missing target")
	}
	if idx != len(tokens)-2 {
		return nil, "", shell.Errorf(shell.KindParseError, "redirect clause must be the final clause")
	}
	return tokens[:idx], tokens[idx+1].text, nil
}

// tokenize splits on whitespace, honoring single and double quotes. A quoted
// span is a single token even when it contains spaces or flag-like text.
func tokenize(raw string) ([]token, error) {
	var tokens []token
	var cur strings.Builder
	var quote rune
	inToken := false
	wasQuoted := false

	flush := func() {
		if inToken {
			tokens = append(tokens, token{text: cur.String(), quoted: wasQuoted})
			cur.Reset()
			inToken = false
			wasQuoted = false
		}
	}

	for _, r := range raw {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
			wasQuoted = true
		case r == ' ' || r == '\t':
			flush()
		default:
			inToken = true
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, shell.Errorf(shell.KindParseError, "unterminated quote")
	}
	flush()
	return tokens, nil
}
