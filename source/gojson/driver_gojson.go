// Package gojson turns JSON text into engine tokens using goccy/go-json's
// streaming decoder.
package gojson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/nixCodeX/jtson/internal/engine"
)

type frame struct {
	object    bool
	expectKey bool
}

// ErrInvalidLiteral reports a top-level scalar that is not a complete JSON
// literal, such as "tru" or "-".
var ErrInvalidLiteral = errors.New("gojson: invalid literal")

type source struct {
	dec   *j.Decoder
	head  *headReader
	stack []frame
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	h := &headReader{r: r}
	dec := j.NewDecoder(h)
	dec.UseNumber()
	return &source{dec: dec, head: h}
}

// headReader remembers the first bytes of the document after leading
// whitespace. The decoder accepts truncated top-level literals at EOF, so
// they are checked against these bytes.
type headReader struct {
	r    io.Reader
	head []byte
}

const headLen = 6

func (h *headReader) Read(p []byte) (int, error) {
	n, err := h.r.Read(p)
	for _, b := range p[:n] {
		if len(h.head) >= headLen {
			break
		}
		if len(h.head) == 0 && isSpace(b) {
			continue
		}
		h.head = append(h.head, b)
	}
	return n, err
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// checkTop validates a scalar read at the top level.
func (s *source) checkTop(lit string) error {
	if len(s.stack) > 0 {
		return nil
	}
	if !bytes.HasPrefix(s.head.head, []byte(lit)) {
		return fmt.Errorf("%w: %q", ErrInvalidLiteral, s.head.head)
	}
	if len(s.head.head) > len(lit) && isIdentByte(s.head.head[len(lit)]) {
		return fmt.Errorf("%w: %q", ErrInvalidLiteral, s.head.head)
	}
	return nil
}

func isIdentByte(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' }

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{object: true, expectKey: true})
			return eng.Token{Kind: eng.KindBeginObject, Offset: -1}, nil
		case '[':
			s.stack = append(s.stack, frame{})
			return eng.Token{Kind: eng.KindBeginArray, Offset: -1}, nil
		case '}':
			s.pop()
			return eng.Token{Kind: eng.KindEndObject, Offset: -1}, nil
		case ']':
			s.pop()
			return eng.Token{Kind: eng.KindEndArray, Offset: -1}, nil
		}
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1].expectKey {
			s.stack[n-1].expectKey = false
			return eng.Token{Kind: eng.KindKey, String: v, Offset: -1}, nil
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: -1}, nil
	case bool:
		if err := s.checkTop(strconv.FormatBool(v)); err != nil {
			return eng.Token{}, err
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		if len(s.stack) == 0 && !j.Valid([]byte(v)) {
			return eng.Token{}, fmt.Errorf("%w: %q", ErrInvalidLiteral, string(v))
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	case nil:
		if err := s.checkTop("null"); err != nil {
			return eng.Token{}, err
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
	}
	return eng.Token{}, fmt.Errorf("gojson: unexpected token %T", tok)
}

// pop closes the innermost container, which is itself the value of its parent.
func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

// valueDone re-arms an enclosing object to expect its next member name.
func (s *source) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1].object {
		s.stack[n-1].expectKey = true
	}
}

func (s *source) Location() int64 { return -1 }
