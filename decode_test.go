package jtson_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nixCodeX/jtson"
	"github.com/nixCodeX/jtson/value"
)

const listInput = `{"tag":"cons","x":3,"xs":{"tag":"cons","x":1,"xs":{"tag":"cons","x":4,"xs":{"tag":"cons","x":1,"xs":{"tag":"cons","x":5,"xs":{"tag":"nil"}}}}}}`

func decodeJSON(t *testing.T, d *jtson.Decl, in string, opts ...jtson.DecodeOpt) (jtson.Typed, error) {
	t.Helper()
	v, err := value.ParseJSON([]byte(in))
	require.NoError(t, err)
	return d.Decode(v, opts...)
}

func collect(u *jtson.Union) []int64 {
	var out []int64
	for {
		next := jtson.Match(u,
			jtson.Case("nil", func(*jtson.Record) *jtson.Union { return nil }),
			jtson.Case("cons", func(r *jtson.Record) *jtson.Union {
				out = append(out, r.Int("x"))
				return r.Union("xs")
			}),
		)
		if next == nil {
			return out
		}
		u = next
	}
}

func TestDecode_LinkedList(t *testing.T) {
	d := jtson.MustCompile(listSchema).MustLookup("obj")
	got, err := decodeJSON(t, d, listInput)
	require.NoError(t, err)
	u, ok := got.(*jtson.Union)
	require.True(t, ok)
	require.Equal(t, "cons", u.Tag())
	require.Equal(t, 1, u.CaseIndex())
	require.Equal(t, []int64{3, 1, 4, 1, 5}, collect(u))
	require.Equal(t, listInput, got.Untype().String())
}

func TestDecode_UnknownTag(t *testing.T) {
	d := jtson.MustCompile(listSchema).MustLookup("obj")
	_, err := decodeJSON(t, d, `{"tag":"cons","x":3,"xs":{"tag":"bogus"}}`)
	iss, ok := jtson.AsIssues(err)
	require.True(t, ok, "got %v", err)
	require.Len(t, iss, 1)
	require.Equal(t, jtson.CodeUnknownTag, iss[0].Code)
	require.Equal(t, "/xs", iss[0].Path)
	require.Contains(t, iss[0].Hint, `"tag"`)
	require.Contains(t, iss[0].Hint, `"nil", "cons"`)
	require.Equal(t, `unknown tag "bogus"`, iss[0].Message)
}

func TestDecode_TagProblems(t *testing.T) {
	d := jtson.MustCompile(listSchema).MustLookup("obj")

	_, err := decodeJSON(t, d, `{"x":1}`)
	iss, _ := jtson.AsIssues(err)
	require.True(t, iss.Has(jtson.CodeMissingField, "/tag"), "%v", iss)

	_, err = decodeJSON(t, d, `{"tag":7}`)
	iss, _ = jtson.AsIssues(err)
	require.True(t, iss.Has(jtson.CodeTypeMismatch, "/tag"), "%v", iss)

	_, err = decodeJSON(t, d, `[]`)
	iss, _ = jtson.AsIssues(err)
	require.True(t, iss.Has(jtson.CodeTypeMismatch, ""), "%v", iss)
}

func TestDecode_ProviderRoundTrip(t *testing.T) {
	d := jtson.MustCompile(providerSchema).MustLookup("provider")
	in := `{"id":"p1","type":"root","config":{"tag":"raw","raw":{"a":[1,2.50,null]}},` +
		`"children":[{"provider":{"id":"p2","type":"leaf","config":{"tag":"provider","provider":` +
		`{"id":"p3","type":"leaf","config":{"tag":"raw","raw":null},"children":[]}},"children":[]},` +
		`"downstream":{"k":"v","k2":"w"}}]}`
	got, err := decodeJSON(t, d, in)
	require.NoError(t, err)
	require.True(t, value.Equal(value.MustParseJSON(in), got.Untype()), "got %s", got.Untype())

	rec := got.(*jtson.Record)
	require.Equal(t, "p1", rec.Str("id"))
	raw := rec.Union("config").Case().Any("raw")
	require.Equal(t, `{"a":[1,2.50,null]}`, raw.String())

	child := rec.Array("children").At(0).(*jtson.Record)
	ds := child.Dict("downstream")
	v, ok := ds.Get("k2")
	require.True(t, ok)
	require.Equal(t, jtson.Str("w"), v)
	require.Equal(t, []string{"k", "k2"}, ds.Keys())

	inner := child.Record("provider").Union("config").Case().Record("provider")
	require.Equal(t, "p3", inner.Str("id"))
}

func TestDecode_CollectsAllIssues(t *testing.T) {
	d := jtson.MustCompile(`r = { a: integer, b: string, c: [boolean] }`).MustLookup("r")
	_, err := decodeJSON(t, d, `{"a":"x","c":[true,1,false,"no"]}`)
	iss, ok := jtson.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 4)
	require.True(t, iss.Has(jtson.CodeTypeMismatch, "/a"))
	require.True(t, iss.Has(jtson.CodeMissingField, "/b"))
	require.True(t, iss.Has(jtson.CodeTypeMismatch, "/c/1"))
	require.True(t, iss.Has(jtson.CodeTypeMismatch, "/c/3"))
	require.Equal(t, "expected integer, got string", iss[0].Message)

	_, err = decodeJSON(t, d, `{"a":"x","c":[true,1,false,"no"]}`, jtson.DecodeOpt{FailFast: true})
	iss, _ = jtson.AsIssues(err)
	require.Len(t, iss, 1)
	require.Equal(t, "/a", iss[0].Path)
}

func TestDecode_Integers(t *testing.T) {
	d := jtson.MustCompile(`n = integer`).MustLookup("n")
	for in, want := range map[string]jtson.Int{"42": 42, "-1": -1, "1e2": 100, "3.0": 3} {
		got, err := decodeJSON(t, d, in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"1.5", `"1"`, "true", "null", "99999999999999999999"} {
		_, err := decodeJSON(t, d, in)
		iss, ok := jtson.AsIssues(err)
		require.True(t, ok, in)
		require.Equal(t, jtson.CodeTypeMismatch, iss[0].Code, in)
	}
}

func TestDecode_NumberKeepsLiteral(t *testing.T) {
	d := jtson.MustCompile(`n = number`).MustLookup("n")
	got, err := decodeJSON(t, d, `12345678901234567890.000000000001`)
	require.NoError(t, err)
	n := got.(jtson.Num)
	require.Equal(t, jtson.Num("12345678901234567890.000000000001"), n)
	require.Equal(t, `12345678901234567890.000000000001`, n.Untype().String())
	_, ok := n.Int64()
	require.False(t, ok)
}

func TestDecode_Optional(t *testing.T) {
	d := jtson.MustCompile(`r = { a: opt<integer>, b: maybe }
maybe = opt<string>`).MustLookup("r")

	got, err := decodeJSON(t, d, `{}`)
	require.NoError(t, err)
	rec := got.(*jtson.Record)
	require.False(t, rec.Opt("a").Present())
	require.False(t, rec.Opt("a").WasNull())
	require.False(t, rec.Opt("b").Present(), "optional behind a reference may be absent")
	require.Equal(t, `{}`, got.Untype().String())

	got, err = decodeJSON(t, d, `{"a":null,"b":"x"}`)
	require.NoError(t, err)
	rec = got.(*jtson.Record)
	require.True(t, rec.Opt("a").WasNull())
	require.Equal(t, jtson.Str("x"), rec.Opt("b").Value())
	require.Equal(t, `{"a":null,"b":"x"}`, got.Untype().String())
}

func TestDecode_UnknownKeys(t *testing.T) {
	d := jtson.MustCompile(listSchema).MustLookup("obj")
	in := `{"tag":"cons","x":1,"extra":true,"xs":{"tag":"nil"}}`

	got, err := decodeJSON(t, d, in)
	require.NoError(t, err)
	require.Equal(t, `{"tag":"cons","x":1,"xs":{"tag":"nil"}}`, got.Untype().String())

	_, err = decodeJSON(t, d, in, jtson.DecodeOpt{Unknown: jtson.UnknownStrict})
	iss, _ := jtson.AsIssues(err)
	require.Len(t, iss, 1)
	require.True(t, iss.Has(jtson.CodeUnknownKey, "/extra"))
}

func TestDecode_DuplicateMembersLastWins(t *testing.T) {
	d := jtson.MustCompile(`r = { a: integer, d: dict<integer> }`).MustLookup("r")
	got, err := decodeJSON(t, d, `{"a":1,"d":{"k":1,"k":2},"a":2}`)
	require.NoError(t, err)
	rec := got.(*jtson.Record)
	require.Equal(t, int64(2), rec.Int("a"))
	v, _ := rec.Dict("d").Get("k")
	require.Equal(t, jtson.Int(2), v)
	require.Equal(t, 2, rec.Dict("d").Len())
}

func TestDecode_AnyIsACopy(t *testing.T) {
	d := jtson.MustCompile(`r = { v: any }`).MustLookup("r")
	in := value.Object(value.M("v", value.Array(value.String("x"))))
	got, err := d.Decode(in)
	require.NoError(t, err)
	require.True(t, value.Equal(in.MemberAt(0).Value, got.(*jtson.Record).Any("v")))
}

func TestDecode_PathEscaping(t *testing.T) {
	d := jtson.MustCompile(`r = dict<integer>`).MustLookup("r")
	_, err := decodeJSON(t, d, `{"a/b~c":"x"}`)
	iss, _ := jtson.AsIssues(err)
	require.Equal(t, "/a~1b~0c", iss[0].Path)
}

func TestRecord_AccessorsPanic(t *testing.T) {
	d := jtson.MustCompile(`r = { a: integer }`).MustLookup("r")
	got, err := decodeJSON(t, d, `{"a":1}`)
	require.NoError(t, err)
	rec := got.(*jtson.Record)
	require.Panics(t, func() { rec.Get("nope") })
	require.Panics(t, func() { rec.Str("a") })
	_, ok := rec.Lookup("nope")
	require.False(t, ok)

	var names []string
	for name, v := range rec.All() {
		names = append(names, fmt.Sprintf("%s=%v", name, v))
	}
	require.Equal(t, []string{"a=1"}, names)
}

func TestContext_DecodeType(t *testing.T) {
	ctx := jtson.MustCompile(listSchema)
	got, err := ctx.DecodeType(jtson.ArrayOf(jtson.Ref("obj")), value.MustParseJSON(`[{"tag":"nil"}]`))
	require.NoError(t, err)
	require.Equal(t, 1, got.(*jtson.Array).Len())

	_, err = ctx.DecodeType(jtson.Ref("nope"), value.Null())
	require.True(t, jtson.IsSchemaError(err))
}

func TestDecode_Concurrent(t *testing.T) {
	d := jtson.MustCompile(listSchema).MustLookup("obj")
	v := value.MustParseJSON(listInput)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := d.Decode(v)
			if err != nil {
				errs <- err
				return
			}
			if s := got.Untype().String(); s != listInput {
				errs <- fmt.Errorf("round trip mismatch: %s", s)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestDecode_DeepList(t *testing.T) {
	d := jtson.MustCompile(listSchema).MustLookup("obj")
	const n = 2000
	in := strings.Repeat(`{"tag":"cons","x":7,"xs":`, n) + `{"tag":"nil"}` + strings.Repeat("}", n)
	got, err := decodeJSON(t, d, in)
	require.NoError(t, err)
	require.Len(t, collect(got.(*jtson.Union)), n)
}

func TestDecode_RootAndEmptyKeyPathsDiffer(t *testing.T) {
	d := jtson.MustCompile(`r = { "": integer }`).MustLookup("r")

	_, err := decodeJSON(t, d, `{"":"x"}`)
	iss, _ := jtson.AsIssues(err)
	require.True(t, iss.Has(jtson.CodeTypeMismatch, "/"), "%v", iss)
	require.Equal(t, "/", iss[0].Where())

	_, err = decodeJSON(t, d, `"x"`)
	iss, _ = jtson.AsIssues(err)
	require.True(t, iss.Has(jtson.CodeTypeMismatch, ""), "%v", iss)
	require.Equal(t, "(root)", iss[0].Where())
	require.Contains(t, iss.Error(), "type_mismatch at (root)")
}
