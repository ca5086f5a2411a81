package jtson

import (
	"fmt"
	"iter"
	"math/big"
	"strconv"
	"sync"

	"github.com/nixCodeX/jtson/trie"
	"github.com/nixCodeX/jtson/value"
)

// Typed is a decoded value. Its concrete type is determined by the descriptor
// it was decoded against:
//
//	string   Str
//	integer  Int
//	boolean  Bool
//	number   Num
//	any      Any
//	record   *Record
//	union    *Union
//	array    *Array
//	dict     *Dict
//	opt<T>   *Optional
//
// References decode as whatever their declaration decodes as. Typed values
// never alias the input they were decoded from and are safe for concurrent
// reads.
type Typed interface {
	// Type is the descriptor the value was decoded against.
	Type() Type
	// Untype converts back to an untyped value.
	Untype() value.Value
}

// Str is a decoded string.
type Str string

func (Str) Type() Type            { return StringType }
func (s Str) Untype() value.Value { return value.String(string(s)) }

// Int is a decoded integer.
type Int int64

func (Int) Type() Type            { return IntegerType }
func (i Int) Untype() value.Value { return value.Int(int64(i)) }

// Bool is a decoded boolean.
type Bool bool

func (Bool) Type() Type            { return BooleanType }
func (b Bool) Untype() value.Value { return value.Bool(bool(b)) }

// Num is a decoded number. It keeps the literal text so that no precision is
// lost.
type Num string

func (Num) Type() Type            { return NumberType }
func (n Num) Untype() value.Value { return value.Number(string(n)) }

// Float64 converts to the nearest float64.
func (n Num) Float64() float64 {
	f, _ := strconv.ParseFloat(string(n), 64)
	return f
}

// Int64 converts to int64 if the number is integral and in range.
func (n Num) Int64() (int64, bool) { return value.Number(string(n)).Int64() }

// Rat converts to an exact rational.
func (n Num) Rat() (*big.Rat, bool) { return new(big.Rat).SetString(string(n)) }

// Any holds an arbitrary value decoded against the any type.
type Any struct{ v value.Value }

func (Any) Type() Type            { return AnyType }
func (a Any) Untype() value.Value { return a.v }
func (a Any) Value() value.Value  { return a.v }

// Record is a decoded record. Fields are stored in declaration order.
type Record struct {
	typ    *RecordType
	fields []Typed
}

func (r *Record) Type() Type              { return r.typ }
func (r *Record) RecordType() *RecordType { return r.typ }

// Len reports the number of declared fields.
func (r *Record) Len() int { return len(r.fields) }

// At returns the i'th field in declaration order.
func (r *Record) At(i int) Typed { return r.fields[i] }

// Lookup returns the named field.
func (r *Record) Lookup(name string) (Typed, bool) {
	i, ok := r.typ.FieldIndex(name)
	if !ok {
		return nil, false
	}
	return r.fields[i], true
}

// Get returns the named field. Asking for a field the record type does not
// declare is a programming error and panics.
func (r *Record) Get(name string) Typed {
	t, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("jtson: record has no field %q", name))
	}
	return t
}

// All yields fields in declaration order.
func (r *Record) All() iter.Seq2[string, Typed] {
	return func(yield func(string, Typed) bool) {
		for i, f := range r.typ.fields {
			if !yield(f.Name, r.fields[i]) {
				return
			}
		}
	}
}

func fieldAs[T Typed](r *Record, name string) T {
	t := r.Get(name)
	v, ok := t.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("jtson: field %q is %s, not %T", name, t.Type(), want))
	}
	return v
}

// Str returns a string field.
func (r *Record) Str(name string) string { return string(fieldAs[Str](r, name)) }

// Int returns an integer field.
func (r *Record) Int(name string) int64 { return int64(fieldAs[Int](r, name)) }

// Bool returns a boolean field.
func (r *Record) Bool(name string) bool { return bool(fieldAs[Bool](r, name)) }

// Num returns a number field.
func (r *Record) Num(name string) Num { return fieldAs[Num](r, name) }

// Any returns an any field.
func (r *Record) Any(name string) value.Value { return fieldAs[Any](r, name).v }

// Record returns a record field.
func (r *Record) Record(name string) *Record { return fieldAs[*Record](r, name) }

// Union returns a union field.
func (r *Record) Union(name string) *Union { return fieldAs[*Union](r, name) }

// Array returns an array field.
func (r *Record) Array(name string) *Array { return fieldAs[*Array](r, name) }

// Dict returns a dict field.
func (r *Record) Dict(name string) *Dict { return fieldAs[*Dict](r, name) }

// Opt returns an optional field.
func (r *Record) Opt(name string) *Optional { return fieldAs[*Optional](r, name) }

// Untype emits the declared fields in order. Absent optionals are omitted
// and explicit nulls are kept.
func (r *Record) Untype() value.Value { return value.Object(r.members(nil)...) }

func (r *Record) members(dst []value.Member) []value.Member {
	for i, f := range r.typ.fields {
		fv := r.fields[i]
		if o, ok := fv.(*Optional); ok && !o.Present() && !o.wasNull {
			continue
		}
		dst = append(dst, value.M(f.Name, fv.Untype()))
	}
	return dst
}

// Union is a decoded tagged union: the selected case and its record.
type Union struct {
	typ   *UnionType
	index int
	rec   *Record
}

func (u *Union) Type() Type            { return u.typ }
func (u *Union) UnionType() *UnionType { return u.typ }

// Tag is the selected case tag.
func (u *Union) Tag() string { return u.typ.cases[u.index].Tag }

// CaseIndex is the selected case's declaration index.
func (u *Union) CaseIndex() int { return u.index }

// Case is the selected case's record.
func (u *Union) Case() *Record { return u.rec }

// Untype emits the tag member first, followed by the case's fields.
func (u *Union) Untype() value.Value {
	ms := make([]value.Member, 0, 1+len(u.rec.fields))
	ms = append(ms, value.M(u.typ.tagField, value.String(u.Tag())))
	return value.Object(u.rec.members(ms)...)
}

// Array is a decoded array.
type Array struct {
	typ   *ArrayType
	elems []Typed
}

func (a *Array) Type() Type     { return a.typ }
func (a *Array) Len() int       { return len(a.elems) }
func (a *Array) At(i int) Typed { return a.elems[i] }

// All yields elements in order.
func (a *Array) All() iter.Seq2[int, Typed] {
	return func(yield func(int, Typed) bool) {
		for i, e := range a.elems {
			if !yield(i, e) {
				return
			}
		}
	}
}

func (a *Array) Untype() value.Value {
	out := make([]value.Value, len(a.elems))
	for i, e := range a.elems {
		out[i] = e.Untype()
	}
	return value.Array(out...)
}

// Dict is a decoded dict. Entries keep input order; duplicate keys are kept
// as entries and Get sees the last one.
type Dict struct {
	typ  *DictType
	keys []string
	vals []Typed

	once  sync.Once
	index *trie.Trie[int]
}

func (d *Dict) Type() Type { return d.typ }
func (d *Dict) Len() int   { return len(d.keys) }

// Entry returns the i'th entry in input order.
func (d *Dict) Entry(i int) (string, Typed) { return d.keys[i], d.vals[i] }

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Typed, bool) {
	d.once.Do(func() {
		idx := trie.New[int]()
		for i, k := range d.keys {
			idx.Emplace(k, i)
		}
		d.index = idx
	})
	i, ok := d.index.Lookup(key)
	if !ok {
		return nil, false
	}
	return d.vals[i], true
}

// Keys returns the keys in input order.
func (d *Dict) Keys() []string { return append([]string(nil), d.keys...) }

// All yields entries in input order.
func (d *Dict) All() iter.Seq2[string, Typed] {
	return func(yield func(string, Typed) bool) {
		for i, k := range d.keys {
			if !yield(k, d.vals[i]) {
				return
			}
		}
	}
}

func (d *Dict) Untype() value.Value {
	ms := make([]value.Member, len(d.keys))
	for i, k := range d.keys {
		ms[i] = value.M(k, d.vals[i].Untype())
	}
	return value.Object(ms...)
}

// Optional is a decoded optional. It remembers whether the input said null
// explicitly or left the member out, so that Untype reproduces the input.
type Optional struct {
	typ     *OptionalType
	inner   Typed
	wasNull bool
}

func (o *Optional) Type() Type { return o.typ }

// Present reports whether a value is held.
func (o *Optional) Present() bool { return o.inner != nil }

// Value returns the held value, or nil.
func (o *Optional) Value() Typed { return o.inner }

// WasNull reports whether the input held an explicit null.
func (o *Optional) WasNull() bool { return o.wasNull }

// Untype emits the held value, or null.
func (o *Optional) Untype() value.Value {
	if o.inner == nil {
		return value.Null()
	}
	return o.inner.Untype()
}
