// Package template parses and renders commit message templates.
//
// A template mixes literal text with two kinds of placeholders:
//
//	{{name}}   an optional variable, replaced by its value or removed
//	<name>     the message slot, filled with the free-form commit message
//
// Names are made of ASCII letters, digits and underscores. After
// substitution the result is tidied so that segments left empty by missing
// variables disappear, e.g. "[{{card_id}}] {{type}}: <message>" with only a
// type renders as "feat: add login".
package template

import (
	"regexp"
	"strings"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
)

// Context maps variable names to their values.
type Context map[string]string

// Parsed describes the placeholders found in a template.
type Parsed struct {
	// Variables lists distinct {{name}} placeholders in first-seen order.
	Variables []string
	// MessagePlaceholder is the name of the first <name> slot.
	MessagePlaceholder string
	// HasMessage is false when the template has no message slot.
	HasMessage bool
}

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenVariable
	tokenMessage
)

type token struct {
	kind  tokenKind
	value string
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// scanIdent returns the end of an identifier starting at i, or i if none.
func scanIdent(s string, i int) int {
	j := i
	for j < len(s) && isIdentByte(s[j]) {
		j++
	}
	return j
}

// tokenize splits tmpl into literal text, variables and message slots.
// A position that does not start a well-formed placeholder is literal and
// scanning resumes at the next byte.
func tokenize(tmpl string) []token {
	var tokens []token
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, token{kind: tokenText, value: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(tmpl); {
		if strings.HasPrefix(tmpl[i:], "{{") {
			end := scanIdent(tmpl, i+2)
			if end > i+2 && strings.HasPrefix(tmpl[end:], "}}") {
				flush()
				tokens = append(tokens, token{kind: tokenVariable, value: tmpl[i+2 : end]})
				i = end + 2
				continue
			}
		}
		if tmpl[i] == '<' {
			end := scanIdent(tmpl, i+1)
			if end > i+1 && end < len(tmpl) && tmpl[end] == '>' {
				flush()
				tokens = append(tokens, token{kind: tokenMessage, value: tmpl[i+1 : end]})
				i = end + 1
				continue
			}
		}
		text.WriteByte(tmpl[i])
		i++
	}
	flush()
	return tokens
}

// Parse extracts the variables and the message slot of a template.
// It never fails: text that is not a placeholder is simply literal.
func Parse(tmpl string) Parsed {
	var p Parsed
	seen := make(map[string]bool)
	for _, tok := range tokenize(tmpl) {
		switch tok.kind {
		case tokenVariable:
			if !seen[tok.value] {
				seen[tok.value] = true
				p.Variables = append(p.Variables, tok.value)
			}
		case tokenMessage:
			if !p.HasMessage {
				p.HasMessage = true
				p.MessagePlaceholder = tok.value
			}
		}
	}
	return p
}

// Render substitutes ctx and message into tmpl and tidies the result.
//
// Missing variables render as empty. Only the first message slot is
// filled; later <name> occurrences are kept verbatim. An empty message is
// an error when the template has a message slot.
func Render(tmpl string, ctx Context, message string) (string, error) {
	tokens := tokenize(tmpl)

	var sb strings.Builder
	filled := false
	for _, tok := range tokens {
		switch tok.kind {
		case tokenText:
			sb.WriteString(tok.value)
		case tokenVariable:
			sb.WriteString(ctx[tok.value])
		case tokenMessage:
			if filled {
				sb.WriteString("<" + tok.value + ">")
				continue
			}
			if message == "" {
				return "", apperrors.Newf(apperrors.ErrMissingMessage,
					"commit message is required for placeholder <%s>", tok.value).
					WithContext("placeholder", tok.value)
			}
			sb.WriteString(message)
			filled = true
		}
	}

	return Cleanup(sb.String()), nil
}

// space matches any Unicode whitespace: ASCII \s leaves out \v, NBSP and
// the other separators.
const space = `[\s\v\p{Z}\x{FEFF}]`

var (
	emptyParens   = regexp.MustCompile(`\(` + space + `*\)`)
	emptyBrackets = regexp.MustCompile(`\[` + space + `*\]`)
	emptyBraces   = regexp.MustCompile(`\{` + space + `*\}`)
	whitespaceRun = regexp.MustCompile(space + `+`)
	spaceColon    = regexp.MustCompile(` :`)
)

// Cleanup removes empty (), [] and {} groups, collapses whitespace, drops
// a space before a colon and trims. Each step runs once, so "([])" becomes
// "()" rather than "".
func Cleanup(s string) string {
	s = emptyParens.ReplaceAllString(s, "")
	s = emptyBrackets.ReplaceAllString(s, "")
	s = emptyBraces.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = spaceColon.ReplaceAllString(s, ":")
	return strings.TrimSpace(s)
}

// Merge returns a new context holding defaults overlaid by overrides.
// Neither input is modified.
func Merge(defaults, overrides Context) Context {
	out := make(Context, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
