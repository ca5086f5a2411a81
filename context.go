package jtson

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nixCodeX/jtson/internal/syntax"
	"github.com/nixCodeX/jtson/trie"
)

// Context is a closed set of named declarations. Every reference inside it
// resolves to one of its own declarations. A Context is immutable once built
// and may be used from any number of goroutines.
type Context struct {
	decls []*Decl
	index *trie.Trie[int]
}

// Decl is a named type declaration owned by a Context.
type Decl struct {
	ctx  *Context
	name string
	typ  Type
	pos  Pos
}

// Name is the declared name.
func (d *Decl) Name() string { return d.name }

// Type is the declared descriptor.
func (d *Decl) Type() Type { return d.typ }

// Context returns the owning Context.
func (d *Decl) Context() *Context { return d.ctx }

// Pos is where the declaration appears in schema source, if anywhere.
func (d *Decl) Pos() Pos { return d.pos }

// Len reports the number of declarations.
func (c *Context) Len() int { return len(c.decls) }

// Lookup finds a declaration by name.
func (c *Context) Lookup(name string) (*Decl, bool) {
	i, ok := c.index.Lookup(name)
	if !ok {
		return nil, false
	}
	return c.decls[i], true
}

// MustLookup is like Lookup but panics when name is not declared.
func (c *Context) MustLookup(name string) *Decl {
	d, ok := c.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("jtson: no declaration named %q", name))
	}
	return d
}

// Decls returns the declarations in declaration order.
func (c *Context) Decls() []*Decl { return append([]*Decl(nil), c.decls...) }

// Names returns the declared names in ascending byte order.
func (c *Context) Names() []string { return c.index.Keys() }

// Resolve follows references until it reaches a non-reference descriptor.
// References to undeclared names resolve to nil.
func (c *Context) Resolve(t Type) Type {
	for {
		r, ok := t.(*RefType)
		if !ok {
			return t
		}
		d, ok := c.Lookup(r.name)
		if !ok {
			return nil
		}
		t = d.typ
	}
}

// caseRecord resolves the record a union case decodes into.
func (c *Context) caseRecord(v Variant) (*RecordType, bool) {
	rt, ok := c.Resolve(v.Type).(*RecordType)
	return rt, ok
}

// Builder assembles a Context from programmatically built descriptors.
//
//	ctx, err := jtson.NewBuilder().
//		Declare("obj", jtson.UnionOf("tag",
//			jtson.On("nil", jtson.RecordOf()),
//			jtson.On("cons", jtson.RecordOf(
//				jtson.F("x", jtson.IntegerType),
//				jtson.F("xs", jtson.Ref("obj")))))).
//		Build()
type Builder struct {
	decls []*Decl
	index *trie.Trie[int]
	errs  SchemaErrors
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{index: trie.New[int]()} }

// Declare adds a named declaration. Problems are reported by Build.
func (b *Builder) Declare(name string, t Type) *Builder {
	b.declareAt(name, t, Pos{})
	return b
}

// reserve registers name without a type so later declarations may refer to
// it. It returns the declaration slot, or -1 for a duplicate.
func (b *Builder) reserve(name string, pos Pos) int {
	switch {
	case !syntax.IsIdent(name) || syntax.IsKeyword(name):
		b.errs = append(b.errs, &SchemaError{Code: SchemaInvalidName, Pos: pos, Decl: name,
			Message: fmt.Sprintf("%q is not a valid declaration name", name)})
		return -1
	case b.index.Contains(name):
		b.errs = append(b.errs, &SchemaError{Code: SchemaDuplicateDecl, Pos: pos, Decl: name,
			Message: fmt.Sprintf("%q is already declared", name)})
		return -1
	}
	b.index.Emplace(name, len(b.decls))
	b.decls = append(b.decls, &Decl{name: name, pos: pos})
	return len(b.decls) - 1
}

func (b *Builder) declareAt(name string, t Type, pos Pos) {
	if slot := b.reserve(name, pos); slot >= 0 {
		b.decls[slot].typ = t
	}
}

// Build validates the declarations and returns the Context. All problems are
// reported together as SchemaErrors.
func (b *Builder) Build() (*Context, error) {
	ctx := &Context{decls: b.decls, index: b.index}
	for _, d := range ctx.decls {
		d.ctx = ctx
	}
	v := &validator{ctx: ctx, errs: append(SchemaErrors(nil), b.errs...)}
	for _, d := range ctx.decls {
		v.decl = d.name
		if d.typ == nil {
			v.fail(SchemaSyntax, d.pos, "declaration has no type")
			continue
		}
		v.walk(d.typ, d.pos)
	}
	v.cycles()
	if len(v.errs) > 0 {
		Logger().Debug("schema rejected", zap.Int("errors", len(v.errs)))
		return nil, v.errs
	}
	b.decls, b.index, b.errs = nil, trie.New[int](), nil
	Logger().Debug("schema built", zap.Int("decls", len(ctx.decls)))
	return ctx, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Context {
	ctx, err := b.Build()
	if err != nil {
		panic("jtson: " + err.Error())
	}
	return ctx
}

type validator struct {
	ctx  *Context
	decl string
	errs SchemaErrors
}

func (v *validator) fail(code string, pos Pos, format string, args ...any) {
	v.errs = append(v.errs, &SchemaError{Code: code, Pos: pos, Decl: v.decl, Message: fmt.Sprintf(format, args...)})
}

// posOr prefers a node's own position over its parent's.
func posOr(p, fallback Pos) Pos {
	if p.IsValid() {
		return p
	}
	return fallback
}

func (v *validator) walk(t Type, at Pos) {
	switch t := t.(type) {
	case nil:
		v.fail(SchemaSyntax, at, "missing type")
	case *ScalarType:
	case *RecordType:
		at = posOr(t.pos, at)
		for _, f := range t.dups {
			v.fail(SchemaDuplicateField, posOr(f.pos, at), "duplicate field %q", f.Name)
		}
		for _, f := range t.fields {
			v.walk(f.Type, posOr(f.pos, at))
		}
	case *UnionType:
		at = posOr(t.pos, at)
		if len(t.cases) == 0 {
			v.fail(SchemaEmptyUnion, at, "union on %q has no cases", t.tagField)
		}
		for _, c := range t.dups {
			v.fail(SchemaDuplicateTag, posOr(c.pos, at), "duplicate case tag %q", c.Tag)
		}
		for _, c := range t.cases {
			cp := posOr(c.pos, at)
			v.walk(c.Type, cp)
			if c.Type == nil {
				continue
			}
			if r, ok := c.Type.(*RefType); ok && v.ctx.Resolve(r) == nil {
				continue // already reported as undeclared
			}
			rt, ok := v.ctx.caseRecord(c)
			if !ok {
				v.fail(SchemaCaseNotRecord, cp, "case %q must be a record, got %s", c.Tag, c.Type.Kind())
				continue
			}
			if _, clash := rt.FieldIndex(t.tagField); clash {
				v.fail(SchemaTagConflict, cp, "case %q declares a field named like the tag %q", c.Tag, t.tagField)
			}
		}
	case *ArrayType:
		v.walk(t.elem, posOr(t.pos, at))
	case *DictType:
		v.walk(t.value, posOr(t.pos, at))
	case *OptionalType:
		v.walk(t.inner, posOr(t.pos, at))
	case *RefType:
		if _, ok := v.ctx.Lookup(t.name); !ok {
			v.fail(SchemaUndeclaredRef, posOr(t.pos, at), "undeclared reference %q", t.name)
		}
	default:
		v.fail(SchemaSyntax, at, "unsupported descriptor %T", t)
	}
}

// head is the declaration a type immediately stands for without consuming
// any input structure: references and optionals are transparent.
func (v *validator) head(t Type) (int, bool) {
	for {
		switch tt := t.(type) {
		case *RefType:
			return v.ctx.index.Lookup(tt.name)
		case *OptionalType:
			t = tt.inner
		default:
			return 0, false
		}
	}
}

// cycles rejects declarations that expand into themselves without passing
// through a record, union, array or dict.
func (v *validator) cycles() {
	const (
		unvisited = iota
		active
		done
	)
	state := make([]int, len(v.ctx.decls))
	for start := range v.ctx.decls {
		var chain []int
		i := start
		for state[i] == unvisited {
			state[i] = active
			chain = append(chain, i)
			next, ok := v.head(v.ctx.decls[i].typ)
			if !ok {
				i = -1
				break
			}
			i = next
		}
		if i >= 0 && state[i] == active {
			d := v.ctx.decls[i]
			v.decl = d.name
			v.fail(SchemaCyclicRef, d.pos, "declaration %q refers to itself without an intervening structure", d.name)
		}
		for _, k := range chain {
			state[k] = done
		}
	}
}
