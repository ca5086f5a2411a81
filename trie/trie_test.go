package trie

import (
	"math/rand"
	"slices"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmplaceLookup_AnyInsertionOrder(t *testing.T) {
	keys := []string{"tag", "t", "ta", "x", "xs", "", "cons", "nil", "\xff", "\x00a"}
	for seed := int64(0); seed < 8; seed++ {
		r := rand.New(rand.NewSource(seed))
		perm := r.Perm(len(keys))
		tr := New[int]()
		for _, i := range perm {
			tr.Emplace(keys[i], i)
		}
		require.Equal(t, len(keys), tr.Len())
		for i, k := range keys {
			v, ok := tr.Lookup(k)
			require.True(t, ok, "key %q", k)
			require.Equal(t, i, v)
		}
	}
}

func TestLookup_Absent(t *testing.T) {
	tr := New[string]()
	tr.Emplace("cons", "c")

	for _, k := range []string{"", "c", "con", "consx", "nil"} {
		_, ok := tr.Lookup(k)
		require.False(t, ok, "key %q", k)
		require.Nil(t, tr.Get(k))
	}

	var empty Trie[int]
	_, ok := empty.Lookup("anything")
	require.False(t, ok)
}

func TestEmplace_Overwrites(t *testing.T) {
	tr := New[int]()
	tr.Emplace("a", 1)
	tr.Emplace("a", 2)
	require.Equal(t, 1, tr.Len())
	v, _ := tr.Lookup("a")
	require.Equal(t, 2, v)

	*tr.Get("a") = 3
	v, _ = tr.Lookup("a")
	require.Equal(t, 3, v)
}

func TestEmptyKey_UsesRootSlot(t *testing.T) {
	tr := New[int]()
	tr.Emplace("", 7)
	v, ok := tr.Lookup("")
	require.True(t, ok)
	require.Equal(t, 7, v)
	require.Equal(t, []string{""}, tr.Keys())
}

func TestEnumeration_SortedNoDuplicates(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	want := map[string]int{}
	tr := New[int]()
	for i := 0; i < 500; i++ {
		n := r.Intn(6)
		b := make([]byte, n)
		for j := range b {
			// a narrow alphabet forces shared prefixes and deep backtracking
			b[j] = []byte{0x00, 'a', 'b', 0x7f, 0x80, 0xff}[r.Intn(6)]
		}
		k := string(b)
		want[k] = i
		tr.Emplace(k, i)
	}

	var got []string
	for k, v := range tr.All() {
		require.Equal(t, want[k], v, "payload for %q", k)
		got = append(got, k)
	}
	exp := make([]string, 0, len(want))
	for k := range want {
		exp = append(exp, k)
	}
	sort.Strings(exp)
	require.Equal(t, exp, got)
	require.True(t, slices.IsSorted(got))
	require.Equal(t, len(want), tr.Len())
}

func TestEnumeration_Empty(t *testing.T) {
	tr := New[int]()
	require.True(t, tr.Begin().Equal(tr.End()))
	for range tr.All() {
		t.Fatalf("empty trie yielded a pair")
	}

	var nilTrie *Trie[int]
	require.Empty(t, nilTrie.Keys())
}

func TestEnumeration_ResumesAfterExhaustedChild(t *testing.T) {
	tr := New[string]()
	for _, k := range []string{"ab", "a", "b", "abc", "ac", "\xff\xff", "\xff"} {
		tr.Emplace(k, k)
	}
	require.Equal(t, []string{"a", "ab", "abc", "ac", "b", "\xff", "\xff\xff"}, tr.Keys())
}

func TestCursor_EqualityIsPositional(t *testing.T) {
	tr := New[int]()
	tr.Emplace("a", 1)
	tr.Emplace("b", 1)

	a := tr.Begin()
	b := tr.Begin()
	b.Next()
	require.Equal(t, a.Value(), b.Value())
	require.False(t, a.Equal(b), "same payload, different position")

	c := a
	c.Next()
	require.True(t, c.Equal(b))
	require.Equal(t, "a", a.Key(), "copy advanced independently")

	c.Next()
	require.True(t, c.Equal(tr.End()))
	c.Next()
	require.True(t, c.Equal(tr.End()))

	other := New[int]()
	require.False(t, other.End().Equal(tr.End()))
}

func TestCursor_NestedEnumeration(t *testing.T) {
	tr := New[int]()
	for i := 0; i < 5; i++ {
		tr.Emplace(strconv.Itoa(i), i)
	}
	pairs := 0
	for o := tr.Begin(); !o.Equal(tr.End()); o.Next() {
		for i := tr.Begin(); !i.Equal(o); i.Next() {
			require.Less(t, i.Key(), o.Key())
			pairs++
		}
	}
	require.Equal(t, 10, pairs)
}

func TestClone_IsDeep(t *testing.T) {
	orig := New[int]()
	orig.Emplace("x", 1)
	orig.Emplace("xs", 2)

	cp := orig.Clone()
	cp.Emplace("x", 10)
	cp.Emplace("y", 3)
	*cp.Get("xs") = 20

	require.Equal(t, []string{"x", "xs"}, orig.Keys())
	v, _ := orig.Lookup("x")
	require.Equal(t, 1, v)
	v, _ = orig.Lookup("xs")
	require.Equal(t, 2, v)

	orig.Emplace("z", 4)
	require.False(t, cp.Contains("z"))
	require.Equal(t, []string{"x", "xs", "y"}, cp.Keys())
}

type box struct{ items []int }

func (b box) Clone() box { return box{items: slices.Clone(b.items)} }

func TestClone_UsesPayloadClone(t *testing.T) {
	orig := New[box]()
	orig.Emplace("k", box{items: []int{1, 2}})

	cp := orig.Clone()
	cp.Get("k").items[0] = 99

	require.Equal(t, []int{1, 2}, orig.Get("k").items)
}

func TestTrieOfTries_CloneIsDeep(t *testing.T) {
	inner := New[int]()
	inner.Emplace("n", 1)
	outer := New[*Trie[int]]()
	outer.Emplace("t", inner)

	cp := outer.CloneFunc(func(t *Trie[int]) *Trie[int] { return t.Clone() })
	(*cp.Get("t")).Emplace("n", 2)
	v, _ := inner.Lookup("n")
	require.Equal(t, 1, v)
	got, ok := cp.Lookup("t")
	require.True(t, ok)
	v, _ = got.Lookup("n")
	require.Equal(t, 2, v)
}

func TestMove_LeavesSourceEmpty(t *testing.T) {
	src := New[int]()
	src.Emplace("a", 1)

	dst := src.Move()
	require.Equal(t, 0, src.Len())
	require.False(t, src.Contains("a"))
	require.True(t, src.Begin().Equal(src.End()))
	v, ok := dst.Lookup("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	src.Emplace("b", 2)
	require.False(t, dst.Contains("b"))
}
