package jtson

import (
	"fmt"
	"strings"
)

// CaseFunc is one handler of a union match.
type CaseFunc[R any] struct {
	tag string
	fn  func(*Record) R
}

// Case pairs a case tag with its handler.
func Case[R any](tag string, fn func(*Record) R) CaseFunc[R] {
	return CaseFunc[R]{tag: tag, fn: fn}
}

// Matcher dispatches a union value to exactly one handler per declared case.
// Exhaustiveness is checked once, when the Matcher is created.
type Matcher[R any] struct {
	typ *UnionType
	fns []func(*Record) R
}

// NewMatcher checks that cases handle every case of t exactly once and
// nothing else.
func NewMatcher[R any](t *UnionType, cases ...CaseFunc[R]) (*Matcher[R], error) {
	fns := make([]func(*Record) R, len(t.cases))
	var problems []string
	for _, c := range cases {
		i, ok := t.CaseIndex(c.tag)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("handler for undeclared case %q", c.tag))
		case fns[i] != nil:
			problems = append(problems, fmt.Sprintf("case %q handled twice", c.tag))
		case c.fn == nil:
			problems = append(problems, fmt.Sprintf("nil handler for case %q", c.tag))
		default:
			fns[i] = c.fn
		}
	}
	for i, fn := range fns {
		if fn == nil && !containsTag(cases, t.cases[i].Tag) {
			problems = append(problems, fmt.Sprintf("case %q not handled", t.cases[i].Tag))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("jtson: non-exhaustive match on %q: %s", t.tagField, strings.Join(problems, "; "))
	}
	return &Matcher[R]{typ: t, fns: fns}, nil
}

func containsTag[R any](cases []CaseFunc[R], tag string) bool {
	for _, c := range cases {
		if c.tag == tag {
			return true
		}
	}
	return false
}

// MustMatcher is like NewMatcher but panics on error.
func MustMatcher[R any](t *UnionType, cases ...CaseFunc[R]) *Matcher[R] {
	m, err := NewMatcher(t, cases...)
	if err != nil {
		panic(err)
	}
	return m
}

// Match runs the handler for u's case. u must have been decoded against the
// Matcher's union type, or one declaring the same tags.
func (m *Matcher[R]) Match(u *Union) R {
	i := u.index
	if u.typ != m.typ {
		var ok bool
		if i, ok = m.typ.CaseIndex(u.Tag()); !ok {
			panic(fmt.Sprintf("jtson: matcher has no case %q", u.Tag()))
		}
	}
	return m.fns[i](u.rec)
}

// Match dispatches u to the handler for its case. The handlers must cover
// exactly the declared cases of u's union type; anything else panics.
//
//	sum := jtson.Match(u,
//		jtson.Case("nil", func(*jtson.Record) int { return 0 }),
//		jtson.Case("cons", func(r *jtson.Record) int { return int(r.Int("x")) }),
//	)
func Match[R any](u *Union, cases ...CaseFunc[R]) R {
	return MustMatcher(u.typ, cases...).Match(u)
}

// Visit calls fn with u's tag and case record. Unlike Match it imposes no
// exhaustiveness.
func Visit[R any](u *Union, fn func(tag string, r *Record) R) R {
	return fn(u.Tag(), u.rec)
}

// Visit calls fn with the tag and case record of u.
func (u *Union) Visit(fn func(tag string, r *Record)) { fn(u.Tag(), u.rec) }
