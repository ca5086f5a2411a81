package gojson

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	eng "github.com/nixCodeX/jtson/internal/engine"
)

func drain(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, tok)
	}
}

func TestTokens_KeysAndStringsAreDistinguished(t *testing.T) {
	toks := drain(t, NewBytes([]byte(`{"a":["b",1.50,true,null],"c":{"d":"e"},"f":[]}`)))
	var kinds []eng.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindBeginArray, eng.KindString, eng.KindNumber, eng.KindBool, eng.KindNull, eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject,
		eng.KindKey, eng.KindBeginArray, eng.KindEndArray,
		eng.KindEndObject,
	}, kinds)
	require.Equal(t, "a", toks[1].String)
	require.Equal(t, "b", toks[3].String)
	require.Equal(t, "1.50", toks[4].Number, "number literals are kept verbatim")
	require.True(t, toks[5].Bool)
	require.Equal(t, "d", toks[10].String)
	require.Equal(t, "f", toks[13].String)
}

func TestTokens_LargeIntegerLiteral(t *testing.T) {
	toks := drain(t, NewBytes([]byte(`[123456789012345678901234567890]`)))
	require.Len(t, toks, 3)
	require.Equal(t, "123456789012345678901234567890", toks[1].Number)
}

func TestTokens_DecodeThroughEngine(t *testing.T) {
	_, err := eng.DecodeDocument[int](NewBytes([]byte(`{"a":`)), countBuilder{})
	require.Error(t, err)

	n, err := eng.DecodeDocument[int](NewBytes([]byte(`{"a":[1,2],"b":null}`)), countBuilder{})
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

// countBuilder counts nodes.
type countBuilder struct{}

func (countBuilder) Null() int         { return 1 }
func (countBuilder) Bool(bool) int     { return 1 }
func (countBuilder) Number(string) int { return 1 }
func (countBuilder) String(string) int { return 1 }
func (countBuilder) Array(elems []int) int {
	n := 1
	for _, e := range elems {
		n += e
	}
	return n
}
func (countBuilder) Object(_ []string, vals []int) int {
	n := 1
	for _, v := range vals {
		n += v
	}
	return n
}

func TestTokens_TopLevelLiterals(t *testing.T) {
	for _, in := range []string{"true", " false\n", "null", "\t-1.5e3 ", "0"} {
		_, err := eng.DecodeDocument[int](NewBytes([]byte(in)), countBuilder{})
		require.NoError(t, err, "input %q", in)
	}
	for _, in := range []string{"nul", "tru", "fals", " nul", "-", "1.", "[tru]", `{"a":nul}`} {
		_, err := eng.DecodeDocument[int](NewBytes([]byte(in)), countBuilder{})
		require.Error(t, err, "input %q", in)
	}
	_, err := eng.Decode[int](NewBytes([]byte("tru")), countBuilder{})
	require.ErrorIs(t, err, ErrInvalidLiteral)
}
