package decoder

import (
	"fmt"
	"strings"

	"github.com/WendelHime/napcheck/internal/shared/models"
)

// Tokenize splits a message into whitespace separated fields. A double quoted
// run is one field with the quotes removed and inner whitespace kept.
// Backslashes are literal so Windows style paths pass through untouched.
// Single quotes are literal too: servers only ever double quote, and file
// names routinely carry apostrophes.
func Tokenize(s string) ([]string, error) {
	tokens := make([]string, 0)
	var b strings.Builder
	inToken := false
	inQuote := false
	for _, r := range s {
		switch {
		case inQuote:
			if r == '"' {
				inQuote = false
				continue
			}
			b.WriteRune(r)
		case r == '"':
			inQuote = true
			inToken = true
		case isSpace(r):
			if inToken {
				tokens = append(tokens, b.String())
				b.Reset()
				inToken = false
			}
		default:
			b.WriteRune(r)
			inToken = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote in %q", models.ErrProtocolViolation, s)
	}
	if inToken {
		tokens = append(tokens, b.String())
	}

	return tokens, nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func tokenizeN(s string, n int) ([]string, error) {
	fields, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	if len(fields) != n {
		return nil, fmt.Errorf("%w: expected %d fields, got %d in %q", models.ErrProtocolViolation, n, len(fields), s)
	}
	return fields, nil
}
