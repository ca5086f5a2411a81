package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nixCodeX/jtson/value"
)

func TestParseJSON_KeepsOrderAndDuplicates(t *testing.T) {
	v, err := value.ParseJSON([]byte(`{"b":1,"a":[true,null,"x"],"b":2.50}`))
	require.NoError(t, err)
	require.Equal(t, value.KindObject, v.Kind())
	require.Equal(t, 3, v.Len())
	require.Equal(t, "b", v.MemberAt(0).Key)
	require.Equal(t, "a", v.MemberAt(1).Key)

	b, ok := v.Get("b")
	require.True(t, ok)
	lit, _ := b.NumberText()
	require.Equal(t, "2.50", lit, "number literal kept verbatim")

	require.Equal(t, `{"b":1,"a":[true,null,"x"],"b":2.50}`, v.String())
}

func TestParseJSON_Errors(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,`, `{"a":1} {"b":2}`, `nul`, `tru`, `fals`} {
		_, err := value.ParseJSON([]byte(in))
		require.Error(t, err, "input %q", in)
	}
}

func TestParseYAML_MatchesJSON(t *testing.T) {
	y, err := value.ParseYAML([]byte(`
tag: cons
x: 3
xs:
  tag: nil
flags: [true, false, ~]
ratio: 0.5
`))
	require.NoError(t, err)
	want := value.MustParseJSON(`{"tag":"cons","x":3,"xs":{"tag":"nil"},"flags":[true,false,null],"ratio":0.5}`)
	require.True(t, value.Equal(want, y), "got %s", y)
}

func TestParseYAML_Empty(t *testing.T) {
	v, err := value.ParseYAML(nil)
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestEqual(t *testing.T) {
	require.True(t, value.Equal(value.Number("1e2"), value.Int(100)))
	require.True(t, value.Equal(value.Number("2.0"), value.Number("2")))
	require.False(t, value.Equal(value.Number("2.1"), value.Number("2")))
	require.False(t, value.Equal(value.String("1"), value.Int(1)))

	a := value.Object(value.M("x", value.Int(1)), value.M("y", value.Int(2)))
	b := value.Object(value.M("y", value.Int(2)), value.M("x", value.Int(1)))
	require.False(t, value.Equal(a, b), "member order is significant")
	require.True(t, value.Equal(a, a.Clone()))
}

func TestInt64(t *testing.T) {
	for lit, want := range map[string]int64{"42": 42, "-7": -7, "1e3": 1000, "2.0": 2} {
		got, ok := value.Number(lit).Int64()
		require.True(t, ok, lit)
		require.Equal(t, want, got, lit)
	}
	for _, lit := range []string{"1.5", "1e-1", "9223372036854775808", "1e99999"} {
		_, ok := value.Number(lit).Int64()
		require.False(t, ok, lit)
	}
	_, ok := value.String("1").Int64()
	require.False(t, ok)
}

func TestConstructorsCopyInput(t *testing.T) {
	elems := []value.Value{value.Int(1)}
	arr := value.Array(elems...)
	elems[0] = value.Int(2)
	got, _ := arr.Index(0).Int64()
	require.Equal(t, int64(1), got)
}

func TestFromAnyToAny(t *testing.T) {
	v, err := value.FromAny(map[string]any{"b": []any{1, 2.5, "s"}, "a": nil})
	require.NoError(t, err)
	require.Equal(t, `{"a":null,"b":[1,2.5,"s"]}`, v.String())

	back := value.ToAny(v).(map[string]any)
	require.Nil(t, back["a"])
	require.Len(t, back["b"], 3)

	_, err = value.FromAny(struct{}{})
	require.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	for _, ok := range []string{"0", "-0", "1.25", "1e10", "-3.5E-2"} {
		_, err := value.ParseNumber(ok)
		require.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "01", "1.", ".5", "+1", "1e", "NaN"} {
		_, err := value.ParseNumber(bad)
		require.Error(t, err, bad)
	}
}

func TestIndent(t *testing.T) {
	out, err := value.MustParseJSON(`{"a":[1]}`).Indent("", "  ")
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", string(out))
}
