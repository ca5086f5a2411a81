// Package yaml turns YAML documents into engine tokens. Mapping order is
// preserved by walking yaml.v3's node tree instead of decoding into maps.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/nixCodeX/jtson/internal/engine"
)

// ErrNonFinite reports .inf or .nan scalars, which have no JSON counterpart.
var ErrNonFinite = errors.New("yaml: non-finite number")

// NewBytes returns a token source over the first document in b.
// An empty input yields a single null.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

// NewReader returns a token source over the first document read from r.
// The document is parsed eagerly; errors surface from the first NextToken.
func NewReader(r io.Reader) eng.TokenSource {
	var doc yaml.Node
	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return eng.NewSliceSource([]eng.Token{{Kind: eng.KindNull, Offset: -1}})
	}
	if err != nil {
		return &failed{err: err}
	}
	var toks []eng.Token
	if err := walk(&doc, &toks, 0); err != nil {
		return &failed{err: err}
	}
	return eng.NewSliceSource(toks)
}

type failed struct{ err error }

func (f *failed) NextToken() (eng.Token, error) { return eng.Token{}, f.err }
func (f *failed) Location() int64               { return -1 }

// maxAliasDepth bounds alias expansion so that self-referencing anchors fail
// instead of recursing forever.
const maxAliasDepth = 64

func walk(n *yaml.Node, out *[]eng.Token, aliases int) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			*out = append(*out, eng.Token{Kind: eng.KindNull, Offset: -1})
			return nil
		}
		return walk(n.Content[0], out, aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth {
			return fmt.Errorf("yaml: line %d: alias nesting too deep", n.Line)
		}
		return walk(n.Alias, out, aliases+1)
	case yaml.SequenceNode:
		*out = append(*out, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, c := range n.Content {
			if err := walk(c, out, aliases); err != nil {
				return err
			}
		}
		*out = append(*out, eng.Token{Kind: eng.KindEndArray, Offset: -1})
		return nil
	case yaml.MappingNode:
		*out = append(*out, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("yaml: line %d: mapping keys must be scalars", k.Line)
			}
			*out = append(*out, eng.Token{Kind: eng.KindKey, String: k.Value, Offset: -1})
			if err := walk(n.Content[i+1], out, aliases); err != nil {
				return err
			}
		}
		*out = append(*out, eng.Token{Kind: eng.KindEndObject, Offset: -1})
		return nil
	case yaml.ScalarNode:
		tok, err := scalar(n)
		if err != nil {
			return err
		}
		*out = append(*out, tok)
		return nil
	}
	return fmt.Errorf("yaml: line %d: unsupported node kind %d", n.Line, n.Kind)
}

func scalar(n *yaml.Node) (eng.Token, error) {
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return eng.Token{}, err
		}
		return eng.Token{Kind: eng.KindBool, Bool: b, Offset: -1}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// beyond int64: keep the literal when it is plain decimal
			if _, perr := strconv.ParseFloat(n.Value, 64); perr != nil {
				return eng.Token{}, err
			}
			return eng.Token{Kind: eng.KindNumber, Number: n.Value, Offset: -1}, nil
		}
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10), Offset: -1}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return eng.Token{}, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return eng.Token{}, fmt.Errorf("%w at line %d", ErrNonFinite, n.Line)
		}
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(f, 'g', -1, 64), Offset: -1}, nil
	default:
		return eng.Token{Kind: eng.KindString, String: n.Value, Offset: -1}, nil
	}
}
