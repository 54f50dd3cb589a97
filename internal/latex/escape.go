// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex renders the structural document model as LaTeX source.
// The normalizer half escapes reserved characters and applies abbreviation
// substitution; the generator half emits per-block templates.
package latex

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/minutes-engine/internal/rules"
)

// Normalizer escapes reserved LaTeX characters and expands configured
// abbreviations in raw extracted text.
type Normalizer struct {
	escapes map[rune]string
	abbrevs []compiledAbbrev
}

type compiledAbbrev struct {
	re          *regexp.Regexp
	replacement string
}

// NewNormalizer compiles the escape table and abbreviation rules. It fails
// only on an invalid abbreviation pattern in the rules file.
func NewNormalizer(r rules.Rules) (*Normalizer, error) {
	n := &Normalizer{escapes: make(map[rune]string, len(r.Escapes))}

	for _, e := range r.Escapes {
		if e.Char == "" {
			continue
		}
		ch, _ := utf8.DecodeRuneInString(e.Char)
		n.escapes[ch] = e.Replacement
	}

	for _, a := range r.Abbreviations {
		// Patterns match whole words only, case-insensitively.
		re, err := regexp.Compile(`(?i)\b(?:` + a.Pattern + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("compiling abbreviation pattern %q: %w", a.Pattern, err)
		}
		n.abbrevs = append(n.abbrevs, compiledAbbrev{re: re, replacement: a.Replacement})
	}

	return n, nil
}

// Escape maps reserved characters to their LaTeX control sequences in a
// single left-to-right pass. It is applied exactly once, to raw text only:
// replacement output is never rescanned, so already-produced markup cannot
// be escaped a second time.
func (n *Normalizer) Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if repl, ok := n.escapes[ch]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Abbreviate applies the abbreviation rules in declaration order. A match
// whose first letter is uppercase keeps an uppercase replacement.
func (n *Normalizer) Abbreviate(s string) string {
	for _, a := range n.abbrevs {
		s = a.re.ReplaceAllStringFunc(s, func(word string) string {
			first, _ := utf8.DecodeRuneInString(word)
			if unicode.IsUpper(first) {
				return capitalizeFirst(a.replacement)
			}
			return a.replacement
		})
	}
	return s
}

// capitalizeFirst uppercases the first letter of a text.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}

// ensurePunctuation appends a period when the text does not already end
// with sentence punctuation.
func ensurePunctuation(s string) string {
	trimmed := strings.TrimRight(s, " \t")
	if trimmed == "" {
		return trimmed
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '?', '!':
		return trimmed
	}
	return trimmed + "."
}
