package jtson

import (
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/nixCodeX/jtson/internal/syntax"
	"github.com/nixCodeX/jtson/value"
)

// quoteName renders a field, tag or declaration name, quoting it as a JSON
// string unless it is a plain identifier. Schema source reads quoted names
// back as JSON strings.
func quoteName(s string) string {
	if syntax.IsIdent(s) {
		return s
	}
	raw, err := j.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(raw)
}

func (r *RecordType) String() string {
	var b strings.Builder
	writeType(&b, r)
	return b.String()
}

func (u *UnionType) String() string {
	var b strings.Builder
	writeType(&b, u)
	return b.String()
}

func (a *ArrayType) String() string    { return "[" + a.elem.String() + "]" }
func (d *DictType) String() string     { return "dict<" + d.value.String() + ">" }
func (o *OptionalType) String() string { return "opt<" + o.inner.String() + ">" }
func (r *RefType) String() string {
	if syntax.IsIdent(r.name) && !syntax.IsKeyword(r.name) {
		return r.name
	}
	return "rec<" + quoteName(r.name) + ">"
}

func writeType(b *strings.Builder, t Type) {
	switch t := t.(type) {
	case *RecordType:
		if len(t.fields) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteName(f.Name))
			b.WriteString(": ")
			writeType(b, f.Type)
		}
		b.WriteString(" }")
	case *UnionType:
		b.WriteString("? ")
		b.WriteString(quoteName(t.tagField))
		b.WriteString(" < ")
		for i, c := range t.cases {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteName(c.Tag))
			b.WriteString(": ")
			writeType(b, c.Type)
		}
		b.WriteString(" >")
	default:
		b.WriteString(t.String())
	}
}

// Format renders t in schema syntax. The output compiles back to an
// equivalent descriptor.
func Format(t Type) string { return t.String() }

// String renders every declaration in schema syntax, one per line, in
// declaration order.
func (c *Context) String() string {
	var b strings.Builder
	for _, d := range c.decls {
		b.WriteString(d.name)
		b.WriteString(" = ")
		writeType(&b, d.typ)
		b.WriteByte('\n')
	}
	return b.String()
}

// Describe renders t as a value:
//
//	{"kind":"integer"}
//	{"kind":"record","fields":{"x":{...}}}
//	{"kind":"union","tag":"tag","cases":{"nil":{...}}}
//	{"kind":"array","elem":{...}}
//	{"kind":"dict","value":{...}}
//	{"kind":"optional","inner":{...}}
//	{"kind":"ref","name":"obj"}
func Describe(t Type) value.Value {
	kind := func(k string, rest ...value.Member) value.Value {
		return value.Object(append([]value.Member{value.M("kind", value.String(k))}, rest...)...)
	}
	switch t := t.(type) {
	case *ScalarType:
		return kind(t.scalar.String())
	case *RecordType:
		fs := make([]value.Member, len(t.fields))
		for i, f := range t.fields {
			fs[i] = value.M(f.Name, Describe(f.Type))
		}
		return kind("record", value.M("fields", value.Object(fs...)))
	case *UnionType:
		cs := make([]value.Member, len(t.cases))
		for i, c := range t.cases {
			cs[i] = value.M(c.Tag, Describe(c.Type))
		}
		return kind("union", value.M("tag", value.String(t.tagField)), value.M("cases", value.Object(cs...)))
	case *ArrayType:
		return kind("array", value.M("elem", Describe(t.elem)))
	case *DictType:
		return kind("dict", value.M("value", Describe(t.value)))
	case *OptionalType:
		return kind("optional", value.M("inner", Describe(t.inner)))
	case *RefType:
		return kind("ref", value.M("name", value.String(t.name)))
	}
	return value.Null()
}

// Describe renders every declaration as an object keyed by name.
func (c *Context) Describe() value.Value {
	ms := make([]value.Member, len(c.decls))
	for i, d := range c.decls {
		ms[i] = value.M(d.name, Describe(d.typ))
	}
	return value.Object(ms...)
}
