// Package highlight colors SQL text for the terminal.
package highlight

import (
	"strings"

	"github.com/nhath/ezquery/internal/guardrail"
)

// Kind classifies a token
type Kind int

const (
	Plain Kind = iota
	Keyword
	Forbidden
	Number
	String
	Wildcard
	Identifier
)

var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"JOIN": true, "LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true,
	"ON": true, "AS": true, "ORDER": true, "BY": true, "GROUP": true,
	"HAVING": true, "LIMIT": true, "OFFSET": true, "DISTINCT": true, "WITH": true,
	"NULL": true, "NOT": true, "IN": true, "LIKE": true, "BETWEEN": true,
	"IS": true, "TRUE": true, "FALSE": true, "ASC": true, "DESC": true,
	"UNION": true, "ALL": true, "EXISTS": true, "CASE": true, "WHEN": true,
	"THEN": true, "ELSE": true, "END": true, "COUNT": true, "SUM": true,
	"AVG": true, "MIN": true, "MAX": true,
}

var forbidden = func() map[string]bool {
	m := make(map[string]bool, len(guardrail.ForbiddenKeywords))
	for _, kw := range guardrail.ForbiddenKeywords {
		m[kw] = true
	}
	return m
}()

// ANSI foreground codes; reset only the foreground so surrounding styles survive
const (
	fgCyan   = "\x1b[38;5;110m"
	fgRed    = "\x1b[38;5;203m"
	fgPurple = "\x1b[38;5;183m"
	fgGreen  = "\x1b[38;5;150m"
	fgOrange = "\x1b[38;5;209m"
	fgGray   = "\x1b[38;5;253m"
	fgReset  = "\x1b[39m"
)

var colors = map[Kind]string{
	Keyword:    fgCyan,
	Forbidden:  fgRed,
	Number:     fgPurple,
	String:     fgGreen,
	Wildcard:   fgOrange,
	Identifier: fgGray,
}

// Token is a run of SQL text with one Kind
type Token struct {
	Kind Kind
	Text string
}

// Tokenize splits sql into tokens. Concatenating the Text of every token
// yields sql unchanged.
func Tokenize(sql string) []Token {
	var tokens []Token
	plainStart := -1
	flush := func(end int) {
		if plainStart >= 0 {
			tokens = append(tokens, Token{Kind: Plain, Text: sql[plainStart:end]})
			plainStart = -1
		}
	}

	i := 0
	for i < len(sql) {
		c := sql[i]
		switch {
		case c == '*':
			flush(i)
			tokens = append(tokens, Token{Kind: Wildcard, Text: "*"})
			i++
		case c == '\'' || c == '"':
			flush(i)
			j := i + 1
			for j < len(sql) && sql[j] != c {
				j++
			}
			if j < len(sql) {
				j++
			}
			tokens = append(tokens, Token{Kind: String, Text: sql[i:j]})
			i = j
		case isDigit(c):
			flush(i)
			j := i
			for j < len(sql) && (isDigit(sql[j]) || sql[j] == '.') {
				j++
			}
			tokens = append(tokens, Token{Kind: Number, Text: sql[i:j]})
			i = j
		case isWordStart(c):
			flush(i)
			j := i
			for j < len(sql) && (isWordStart(sql[j]) || isDigit(sql[j])) {
				j++
			}
			word := sql[i:j]
			upper := strings.ToUpper(word)
			kind := Identifier
			if forbidden[upper] {
				kind = Forbidden
			} else if sqlKeywords[upper] {
				kind = Keyword
			}
			tokens = append(tokens, Token{Kind: kind, Text: word})
			i = j
		default:
			if plainStart < 0 {
				plainStart = i
			}
			i++
		}
	}
	flush(len(sql))
	return tokens
}

// SQL returns sql with foreground-only ANSI colors applied
func SQL(sql string) string {
	var b strings.Builder
	for _, tok := range Tokenize(sql) {
		color, ok := colors[tok.Kind]
		if !ok {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(color)
		b.WriteString(tok.Text)
		b.WriteString(fgReset)
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
