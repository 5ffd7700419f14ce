package query

import (
	"errors"
	"strings"
)

// ErrMultipleStatements is returned when text holds more than one statement.
var ErrMultipleStatements = errors.New("you can only execute one statement at a time")

// firstStatement returns the first statement in text without its terminating
// semicolon, and everything after it. Semicolons inside quotes, bracketed
// identifiers and comments do not end a statement.
func firstStatement(text string) (head, tail string) {
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\'', '"', '`':
			i = skipQuoted(text, i, c)
		case '[':
			i = skipQuoted(text, i, ']')
		case '-':
			if strings.HasPrefix(text[i:], "--") {
				i = skipLineComment(text, i)
			}
		case '/':
			if strings.HasPrefix(text[i:], "/*") {
				i = skipBlockComment(text, i)
			}
		case ';':
			return text[:i], text[i+1:]
		}
	}
	return text, ""
}

// onlyTrivia reports whether s holds nothing but whitespace, comments and stray semicolons.
func onlyTrivia(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == ';':
		case strings.HasPrefix(s[i:], "--"):
			i = skipLineComment(s, i)
		case strings.HasPrefix(s[i:], "/*"):
			i = skipBlockComment(s, i)
		default:
			return false
		}
	}
	return true
}

// singleStatement rejects text that carries anything but trivia after its first statement.
func singleStatement(text string) (string, error) {
	head, tail := firstStatement(text)
	if !onlyTrivia(tail) {
		return "", ErrMultipleStatements
	}
	return head, nil
}

// skipQuoted returns the index of the closing delimiter; a doubled delimiter is an escape.
func skipQuoted(s string, start int, closing byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != closing {
			continue
		}
		if closing != ']' && i+1 < len(s) && s[i+1] == closing {
			i++
			continue
		}
		return i
	}
	return len(s)
}

func skipLineComment(s string, start int) int {
	if n := strings.IndexByte(s[start:], '\n'); n >= 0 {
		return start + n
	}
	return len(s)
}

func skipBlockComment(s string, start int) int {
	if n := strings.Index(s[start+2:], "*/"); n >= 0 {
		return start + 2 + n + 1
	}
	return len(s)
}
