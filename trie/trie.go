// Package trie implements a byte-indexed prefix tree mapping string keys to
// payloads of any type.
//
// Every node carries an optional payload and 256 optional children, one per
// byte value. Nodes live in a contiguous arena and reference their children by
// index, so lookups cost one array index per key byte regardless of how many
// keys are stored.
//
// Only exact-key lookup and ordered enumeration are defined. Prefix structure
// is an implementation detail: no key is ever reported as a match for another.
//
// A Trie is not safe for concurrent mutation. Once construction is finished it
// may be read from any number of goroutines.
package trie

import "iter"

// fanout is the number of children per node, one per possible byte value.
const fanout = 256

// none marks an absent child or payload slot. Node 0 is always the root and is
// never anybody's child, so 0 doubles as "no child".
const none = 0

type node struct {
	// here is 1 + the index of this node's payload in Trie.vals, or none.
	here  uint32
	nexts [fanout]uint32
}

// Trie maps byte-string keys to payloads of type T.
// The zero value is an empty trie ready to use.
type Trie[T any] struct {
	nodes []node
	vals  []T
	n     int
}

// New returns an empty trie.
func New[T any]() *Trie[T] { return &Trie[T]{} }

func (t *Trie[T]) root() {
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, node{})
	}
}

// Len reports the number of stored keys.
func (t *Trie[T]) Len() int {
	if t == nil {
		return 0
	}
	return t.n
}

// Emplace stores v under key, overwriting any previous payload. Missing
// intermediate nodes are created on the way down. The empty key addresses the
// root's own payload slot.
func (t *Trie[T]) Emplace(key string, v T) {
	t.root()
	cur := uint32(0)
	for i := 0; i < len(key); i++ {
		b := key[i]
		next := t.nodes[cur].nexts[b]
		if next == none {
			t.nodes = append(t.nodes, node{})
			next = uint32(len(t.nodes) - 1)
			t.nodes[cur].nexts[b] = next
		}
		cur = next
	}
	if slot := t.nodes[cur].here; slot != none {
		t.vals[slot-1] = v
		return
	}
	t.vals = append(t.vals, v)
	t.nodes[cur].here = uint32(len(t.vals))
	t.n++
}

// find descends byte by byte and returns the node reached by key.
func (t *Trie[T]) find(key string) (uint32, bool) {
	if t == nil || len(t.nodes) == 0 {
		return 0, false
	}
	cur := uint32(0)
	for i := 0; i < len(key); i++ {
		cur = t.nodes[cur].nexts[key[i]]
		if cur == none {
			return 0, false
		}
	}
	return cur, true
}

// Get returns a reference to the payload stored under key, or nil when the
// key is absent. The reference stays valid until the next Emplace.
func (t *Trie[T]) Get(key string) *T {
	n, ok := t.find(key)
	if !ok {
		return nil
	}
	slot := t.nodes[n].here
	if slot == none {
		return nil
	}
	return &t.vals[slot-1]
}

// Lookup returns the payload stored under key.
func (t *Trie[T]) Lookup(key string) (T, bool) {
	if p := t.Get(key); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Contains reports whether a payload is stored under key.
func (t *Trie[T]) Contains(key string) bool { return t.Get(key) != nil }

// Clone returns a deep copy. The copy shares no storage with t: mutating one
// never affects the other. Payloads that implement Clone() T are duplicated
// through that method; all others are copied by assignment.
func (t *Trie[T]) Clone() *Trie[T] {
	return t.CloneFunc(func(v T) T {
		if c, ok := any(v).(interface{ Clone() T }); ok {
			return c.Clone()
		}
		return v
	})
}

// CloneFunc is like Clone but duplicates every payload with dup.
func (t *Trie[T]) CloneFunc(dup func(T) T) *Trie[T] {
	out := &Trie[T]{}
	if t == nil {
		return out
	}
	out.n = t.n
	out.nodes = make([]node, len(t.nodes))
	copy(out.nodes, t.nodes)
	out.vals = make([]T, len(t.vals))
	for i, v := range t.vals {
		out.vals[i] = dup(v)
	}
	return out
}

// Move transfers the whole structure to a new trie and leaves t empty.
// Nothing is copied.
func (t *Trie[T]) Move() *Trie[T] {
	out := &Trie[T]{nodes: t.nodes, vals: t.vals, n: t.n}
	t.nodes, t.vals, t.n = nil, nil, 0
	return out
}

// All yields every stored (key, payload) pair in ascending byte order.
func (t *Trie[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for c := t.Begin(); !c.Equal(t.End()); c.Next() {
			if !yield(c.Key(), c.Value()) {
				return
			}
		}
	}
}

// Keys returns every stored key in ascending byte order.
func (t *Trie[T]) Keys() []string {
	keys := make([]string, 0, t.Len())
	for k := range t.All() {
		keys = append(keys, k)
	}
	return keys
}
