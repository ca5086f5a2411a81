package jtson

import (
	"fmt"
	"strconv"

	"github.com/nixCodeX/jtson/value"
)

// Decode checks v against the declaration and converts it into a typed
// value. On failure the error is Issues listing every mismatch found, or just
// the first one when FailFast is set.
func (d *Decl) Decode(v value.Value, opts ...DecodeOpt) (Typed, error) {
	return d.ctx.decode(d.typ, v, lastOpt(opts))
}

// DecodeType decodes v against an arbitrary descriptor whose references
// resolve in c. The descriptor is validated first; a defective descriptor
// yields SchemaErrors.
func (c *Context) DecodeType(t Type, v value.Value, opts ...DecodeOpt) (Typed, error) {
	val := &validator{ctx: c}
	val.walk(t, Pos{})
	if len(val.errs) > 0 {
		return nil, val.errs
	}
	return c.decode(t, v, lastOpt(opts))
}

func (c *Context) decode(t Type, v value.Value, opt DecodeOpt) (Typed, error) {
	dec := &decoder{ctx: c, opt: opt}
	out, ok := dec.value(t, v, rootPath)
	if !ok {
		return nil, dec.issues
	}
	return out, nil
}

type decoder struct {
	ctx    *Context
	opt    DecodeOpt
	issues Issues
}

func (d *decoder) report(iss Issue) {
	d.issues = AppendIssues(d.issues, iss)
}

// halted reports whether decoding should stop collecting.
func (d *decoder) halted() bool { return d.opt.FailFast && len(d.issues) > 0 }

func (d *decoder) mismatch(p *path, want string, v value.Value) {
	d.report(p.Issue(CodeTypeMismatch, "expected", want, "got", v.Kind().String()))
}

func (d *decoder) value(t Type, v value.Value, p *path) (Typed, bool) {
	switch t := t.(type) {
	case *ScalarType:
		return d.scalar(t, v, p)
	case *RecordType:
		r, ok := d.record(t, v, p, "")
		if !ok {
			return nil, false
		}
		return r, true
	case *UnionType:
		return d.union(t, v, p)
	case *ArrayType:
		return d.array(t, v, p)
	case *DictType:
		return d.dict(t, v, p)
	case *OptionalType:
		if v.IsNull() {
			return &Optional{typ: t, wasNull: true}, true
		}
		inner, ok := d.value(t.inner, v, p)
		if !ok {
			return nil, false
		}
		return &Optional{typ: t, inner: inner}, true
	case *RefType:
		decl, ok := d.ctx.Lookup(t.name)
		if !ok {
			panic(fmt.Sprintf("jtson: unresolved reference %q", t.name))
		}
		return d.value(decl.typ, v, p)
	}
	panic(fmt.Sprintf("jtson: unsupported descriptor %T", t))
}

func (d *decoder) scalar(t *ScalarType, v value.Value, p *path) (Typed, bool) {
	switch t.scalar {
	case ScalarString:
		if s, ok := v.AsString(); ok {
			return Str(s), true
		}
	case ScalarBoolean:
		if b, ok := v.AsBool(); ok {
			return Bool(b), true
		}
	case ScalarInteger:
		if i, ok := v.Int64(); ok {
			return Int(i), true
		}
		if lit, ok := v.NumberText(); ok {
			d.report(p.Issue(CodeTypeMismatch, "expected", "integer", "got", strconv.Quote(lit)))
			return nil, false
		}
	case ScalarNumber:
		if lit, ok := v.NumberText(); ok {
			return Num(lit), true
		}
	case ScalarAny:
		return Any{v: v.Clone()}, true
	}
	d.mismatch(p, t.scalar.String(), v)
	return nil, false
}

// record decodes the members of an object. skip names a member consumed by
// an enclosing union and never counted as unknown.
func (d *decoder) record(t *RecordType, v value.Value, p *path, skip string) (*Record, bool) {
	if v.Kind() != value.KindObject {
		d.mismatch(p, "record", v)
		return nil, false
	}
	n := len(t.fields)
	slots := make([]int, n)
	for i := range slots {
		slots[i] = -1
	}
	ok := true
	for i := 0; i < v.Len(); i++ {
		m := v.MemberAt(i)
		if idx, known := t.FieldIndex(m.Key); known {
			slots[idx] = i // last duplicate wins
			continue
		}
		if d.opt.Unknown == UnknownStrict && m.Key != skip {
			d.report(p.Field(m.Key).Issue(CodeUnknownKey, "key", m.Key))
			ok = false
			if d.halted() {
				return nil, false
			}
		}
	}
	fields := make([]Typed, n)
	for i, f := range t.fields {
		fp := p.Field(f.Name)
		if slots[i] < 0 {
			if ot, isOpt := d.ctx.Resolve(f.Type).(*OptionalType); isOpt {
				fields[i] = &Optional{typ: ot}
				continue
			}
			d.report(fp.Issue(CodeMissingField, "field", f.Name))
			ok = false
		} else if fv, fok := d.value(f.Type, v.MemberAt(slots[i]).Value, fp); fok {
			fields[i] = fv
		} else {
			ok = false
		}
		if !ok && d.halted() {
			return nil, false
		}
	}
	if !ok {
		return nil, false
	}
	return &Record{typ: t, fields: fields}, true
}

func (d *decoder) union(t *UnionType, v value.Value, p *path) (Typed, bool) {
	if v.Kind() != value.KindObject {
		d.mismatch(p, "union", v)
		return nil, false
	}
	tp := p.Field(t.tagField)
	tv, ok := v.Get(t.tagField)
	if !ok {
		d.report(tp.Issue(CodeMissingField, "field", t.tagField))
		return nil, false
	}
	tag, ok := tv.AsString()
	if !ok {
		d.mismatch(tp, "string", tv)
		return nil, false
	}
	idx, ok := t.CaseIndex(tag)
	if !ok {
		iss := p.Issue(CodeUnknownTag, "tag", strconv.Quote(tag))
		iss.Hint = fmt.Sprintf("field %q must be one of %s", t.tagField, tagList(t))
		d.report(iss)
		return nil, false
	}
	rt, ok := d.ctx.caseRecord(t.cases[idx])
	if !ok {
		panic(fmt.Sprintf("jtson: union case %q is not a record", tag))
	}
	rec, ok := d.record(rt, v, p, t.tagField)
	if !ok {
		return nil, false
	}
	return &Union{typ: t, index: idx, rec: rec}, true
}

func tagList(t *UnionType) string {
	var b []byte
	for i, c := range t.cases {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = strconv.AppendQuote(b, c.Tag)
	}
	return string(b)
}

func (d *decoder) array(t *ArrayType, v value.Value, p *path) (Typed, bool) {
	if v.Kind() != value.KindArray {
		d.mismatch(p, "array", v)
		return nil, false
	}
	elems := make([]Typed, v.Len())
	ok := true
	for i := range elems {
		e, eok := d.value(t.elem, v.Index(i), p.Index(i))
		if !eok {
			ok = false
			if d.halted() {
				return nil, false
			}
			continue
		}
		elems[i] = e
	}
	if !ok {
		return nil, false
	}
	return &Array{typ: t, elems: elems}, true
}

func (d *decoder) dict(t *DictType, v value.Value, p *path) (Typed, bool) {
	if v.Kind() != value.KindObject {
		d.mismatch(p, "dict", v)
		return nil, false
	}
	n := v.Len()
	keys := make([]string, n)
	vals := make([]Typed, n)
	ok := true
	for i := 0; i < n; i++ {
		m := v.MemberAt(i)
		e, eok := d.value(t.value, m.Value, p.Field(m.Key))
		if !eok {
			ok = false
			if d.halted() {
				return nil, false
			}
			continue
		}
		keys[i], vals[i] = m.Key, e
	}
	if !ok {
		return nil, false
	}
	return &Dict{typ: t, keys: keys, vals: vals}, true
}
