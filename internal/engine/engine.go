package engine

import (
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string // literal text, never converted here
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Builder assembles tree nodes of type V from decoded tokens. Object members
// arrive in input order, duplicates included.
type Builder[V any] interface {
	Null() V
	Bool(b bool) V
	Number(lit string) V
	String(s string) V
	Array(elems []V) V
	Object(keys []string, vals []V) V
}

// ErrTrailingData is returned by DecodeDocument when tokens follow the first
// complete value.
var ErrTrailingData = errors.New("engine: unexpected data after top-level value")

// Decode builds one value from the streaming token source.
func Decode[V any](src TokenSource, b Builder[V]) (V, error) {
	tok, err := src.NextToken()
	if err != nil {
		var zero V
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return zero, err
	}
	return decodeValue(src, tok, b)
}

// DecodeDocument is Decode followed by a check that the source is exhausted.
func DecodeDocument[V any](src TokenSource, b Builder[V]) (V, error) {
	v, err := Decode(src, b)
	if err != nil {
		return v, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		var zero V
		if err == nil {
			err = ErrTrailingData
		}
		return zero, err
	}
	return v, nil
}

func decodeValue[V any](src TokenSource, tok Token, b Builder[V]) (V, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src, b)
	case KindBeginArray:
		return decodeArray(src, b)
	case KindString:
		return b.String(tok.String), nil
	case KindNumber:
		return b.Number(tok.Number), nil
	case KindBool:
		return b.Bool(tok.Bool), nil
	case KindNull:
		return b.Null(), nil
	default:
		var zero V
		return zero, io.ErrUnexpectedEOF
	}
}

func decodeObject[V any](src TokenSource, b Builder[V]) (V, error) {
	var zero V
	var keys []string
	var vals []V
	for {
		tok, err := src.NextToken()
		if err != nil {
			return zero, eofIsUnexpected(err)
		}
		if tok.Kind == KindEndObject {
			return b.Object(keys, vals), nil
		}
		if tok.Kind != KindKey {
			return zero, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return zero, eofIsUnexpected(err)
		}
		v, err := decodeValue(src, vt, b)
		if err != nil {
			return zero, err
		}
		keys = append(keys, tok.String)
		vals = append(vals, v)
	}
}

func decodeArray[V any](src TokenSource, b Builder[V]) (V, error) {
	var zero V
	var arr []V
	for {
		tok, err := src.NextToken()
		if err != nil {
			return zero, eofIsUnexpected(err)
		}
		if tok.Kind == KindEndArray {
			return b.Array(arr), nil
		}
		v, err := decodeValue(src, tok, b)
		if err != nil {
			return zero, err
		}
		arr = append(arr, v)
	}
}

func eofIsUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
