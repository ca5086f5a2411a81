// Package syntax tokenizes and parses schema source text into an ir.File.
package syntax

import (
	"fmt"

	j "github.com/goccy/go-json"

	"github.com/nixCodeX/jtson/internal/ir"
)

// Type is a lexical token type.
type Type int

const (
	EOF Type = iota
	Ident
	String
	Punct // one of = { } [ ] < > , : ?
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Punct:
		return "punctuation"
	}
	return "unknown"
}

// Token is one lexical unit. For String tokens Value holds the unquoted text.
type Token struct {
	Type  Type
	Value string
	Pos   ir.Pos
}

func (t Token) describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case String:
		return fmt.Sprintf("string %q", t.Value)
	}
	return fmt.Sprintf("%q", t.Value)
}

// Error is a syntax error at a source position.
type Error struct {
	Pos ir.Pos
	Msg string
}

func (e *Error) Error() string { return e.Pos.String() + ": " + e.Msg }

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer { return &lexer{src: src, line: 1, col: 1} }

func (l *lexer) advance() {
	if l.src[l.off] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off++
}

func (l *lexer) skipSpaceAndComments() {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '#' || (c == '/' && l.off+1 < len(l.src) && l.src[l.off+1] == '/'):
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}

// IsIdent reports whether s can be written as a bare identifier.
func IsIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

func (l *lexer) next() (Token, error) {
	l.skipSpaceAndComments()
	pos := ir.Pos{Line: l.line, Col: l.col}
	if l.off >= len(l.src) {
		return Token{Type: EOF, Pos: pos}, nil
	}
	c := l.src[l.off]
	switch {
	case isIdentStart(c):
		start := l.off
		for l.off < len(l.src) && isIdentPart(l.src[l.off]) {
			l.advance()
		}
		return Token{Type: Ident, Value: l.src[start:l.off], Pos: pos}, nil
	case c == '"':
		return l.quoted(pos)
	case c == '=' || c == '{' || c == '}' || c == '[' || c == ']' ||
		c == '<' || c == '>' || c == ',' || c == ':' || c == '?':
		l.advance()
		return Token{Type: Punct, Value: string(c), Pos: pos}, nil
	}
	return Token{}, &Error{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", c)}
}

// quoted scans a JSON string literal and unescapes it.
func (l *lexer) quoted(pos ir.Pos) (Token, error) {
	start := l.off
	l.advance()
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch c {
		case '\\':
			l.advance()
			if l.off < len(l.src) {
				l.advance()
			}
			continue
		case '\n':
			return Token{}, &Error{Pos: pos, Msg: "newline in string literal"}
		case '"':
			l.advance()
			var s string
			if err := j.Unmarshal([]byte(l.src[start:l.off]), &s); err != nil {
				return Token{}, &Error{Pos: pos, Msg: "invalid string literal: " + err.Error()}
			}
			return Token{Type: String, Value: s, Pos: pos}, nil
		}
		l.advance()
	}
	return Token{}, &Error{Pos: pos, Msg: "unterminated string literal"}
}
