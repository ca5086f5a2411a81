package trie

import "slices"

// Cursor is a position in an ordered enumeration of a Trie.
//
// A cursor records the sequence of nodes from the root to its current node.
// Two cursors are equal iff they walk the same trie and hold an identical node
// sequence; payload equality plays no part. The end cursor holds an empty
// sequence.
type Cursor[T any] struct {
	t    *Trie[T]
	key  []byte
	path []uint32
}

// Begin returns a cursor at the smallest stored key, or End when the trie is
// empty.
func (t *Trie[T]) Begin() Cursor[T] {
	if t == nil || len(t.nodes) == 0 {
		return t.End()
	}
	c := Cursor[T]{t: t, path: []uint32{0}}
	c.advanceToActive()
	return c
}

// End returns the end-of-enumeration sentinel.
func (t *Trie[T]) End() Cursor[T] { return Cursor[T]{t: t} }

// Valid reports whether the cursor points at a stored pair.
func (c Cursor[T]) Valid() bool { return len(c.path) > 0 }

// Key returns the key at the cursor. It must only be called on a valid cursor.
func (c Cursor[T]) Key() string { return string(c.key) }

// Value returns the payload at the cursor. It must only be called on a valid
// cursor.
func (c Cursor[T]) Value() T {
	n := c.t.nodes[c.path[len(c.path)-1]]
	return c.t.vals[n.here-1]
}

// Equal reports whether both cursors hold the same traversal position.
func (c Cursor[T]) Equal(o Cursor[T]) bool {
	return c.t == o.t && slices.Equal(c.path, o.path)
}

// Next advances to the following stored key in ascending byte order.
// Advancing the end cursor is a no-op.
func (c *Cursor[T]) Next() {
	if !c.Valid() {
		return
	}
	// Copies of a cursor must not observe each other's moves.
	c.path = slices.Clone(c.path)
	c.key = slices.Clone(c.key)
	c.step()
	c.advanceToActive()
}

// firstChild returns the lowest present child of n at byte index from or
// above.
func (c *Cursor[T]) firstChild(n uint32, from int) (uint32, byte, bool) {
	nexts := &c.t.nodes[n].nexts
	for i := from; i < fanout; i++ {
		if nexts[i] != none {
			return nexts[i], byte(i), true
		}
	}
	return 0, 0, false
}

// step moves one node forward in depth-first order: into the lowest child of
// the current node, or else back up to the nearest ancestor with an unvisited
// child. Backtracking resumes right after the byte of the child just
// exhausted.
func (c *Cursor[T]) step() {
	next, b, ok := c.firstChild(c.path[len(c.path)-1], 0)
	for !ok {
		if len(c.path) == 1 {
			c.path = c.path[:0]
			c.key = c.key[:0]
			return
		}
		last := c.key[len(c.key)-1]
		c.key = c.key[:len(c.key)-1]
		c.path = c.path[:len(c.path)-1]
		next, b, ok = c.firstChild(c.path[len(c.path)-1], int(last)+1)
	}
	c.key = append(c.key, b)
	c.path = append(c.path, next)
}

func (c *Cursor[T]) advanceToActive() {
	for c.Valid() && c.t.nodes[c.path[len(c.path)-1]].here == none {
		c.step()
	}
}
