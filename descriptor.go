package jtson

import (
	"github.com/nixCodeX/jtson/trie"
)

// Kind classifies a type descriptor.
type Kind int

const (
	KindScalar Kind = iota
	KindRecord
	KindUnion
	KindArray
	KindDict
	KindOptional
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindOptional:
		return "optional"
	case KindRef:
		return "ref"
	}
	return "unknown"
}

// Type is an immutable type descriptor. Descriptors are built once, either by
// Compile or with the constructors below, and are safe to share between
// goroutines.
type Type interface {
	Kind() Kind
	// String renders the descriptor in schema syntax.
	String() string
	isType()
}

// Scalar enumerates the scalar types.
type Scalar int

const (
	ScalarString Scalar = iota
	ScalarInteger
	ScalarBoolean
	ScalarNumber
	ScalarAny
)

func (s Scalar) String() string {
	switch s {
	case ScalarString:
		return "string"
	case ScalarInteger:
		return "integer"
	case ScalarBoolean:
		return "boolean"
	case ScalarNumber:
		return "number"
	case ScalarAny:
		return "any"
	}
	return "unknown"
}

// ScalarType is the descriptor of a scalar.
type ScalarType struct{ scalar Scalar }

func (s *ScalarType) Kind() Kind     { return KindScalar }
func (s *ScalarType) Scalar() Scalar { return s.scalar }
func (s *ScalarType) String() string { return s.scalar.String() }
func (s *ScalarType) isType()        {}

// Shared scalar descriptors.
var (
	StringType  = &ScalarType{ScalarString}
	IntegerType = &ScalarType{ScalarInteger}
	BooleanType = &ScalarType{ScalarBoolean}
	NumberType  = &ScalarType{ScalarNumber}
	AnyType     = &ScalarType{ScalarAny}
)

// Field is a named record member.
type Field struct {
	Name string
	Type Type
	pos  Pos
}

// F declares a record field.
func F(name string, t Type) Field { return Field{Name: name, Type: t} }

// RecordType is an ordered list of uniquely named fields.
type RecordType struct {
	fields []Field
	index  *trie.Trie[int]
	dups   []Field
	pos    Pos
}

// RecordOf builds a record descriptor. Duplicate field names are reported when
// the enclosing Context is built.
func RecordOf(fields ...Field) *RecordType {
	r := &RecordType{fields: make([]Field, 0, len(fields)), index: trie.New[int]()}
	for _, f := range fields {
		if r.index.Contains(f.Name) {
			r.dups = append(r.dups, f)
			continue
		}
		r.index.Emplace(f.Name, len(r.fields))
		r.fields = append(r.fields, f)
	}
	return r
}

func (r *RecordType) Kind() Kind { return KindRecord }
func (r *RecordType) isType()    {}

// NumFields reports the number of declared fields.
func (r *RecordType) NumFields() int { return len(r.fields) }

// Field returns the i'th field in declaration order.
func (r *RecordType) Field(i int) Field { return r.fields[i] }

// Fields returns a copy of the fields in declaration order.
func (r *RecordType) Fields() []Field { return append([]Field(nil), r.fields...) }

// FieldIndex finds a field's declaration index.
func (r *RecordType) FieldIndex(name string) (int, bool) { return r.index.Lookup(name) }

// Variant is one case of a tagged union.
type Variant struct {
	Tag  string
	Type Type // a record, or a reference to a declared record
	pos  Pos
}

// On declares a union case.
func On(tag string, t Type) Variant { return Variant{Tag: tag, Type: t} }

// UnionType is a tagged union: an object whose tag field selects a record
// case.
type UnionType struct {
	tagField string
	cases    []Variant
	index    *trie.Trie[int]
	dups     []Variant
	pos      Pos
}

// UnionOf builds a tagged union descriptor dispatching on tagField.
func UnionOf(tagField string, cases ...Variant) *UnionType {
	u := &UnionType{tagField: tagField, cases: make([]Variant, 0, len(cases)), index: trie.New[int]()}
	for _, c := range cases {
		if u.index.Contains(c.Tag) {
			u.dups = append(u.dups, c)
			continue
		}
		u.index.Emplace(c.Tag, len(u.cases))
		u.cases = append(u.cases, c)
	}
	return u
}

func (u *UnionType) Kind() Kind { return KindUnion }
func (u *UnionType) isType()    {}

// TagField is the member name carrying the tag.
func (u *UnionType) TagField() string { return u.tagField }

// NumCases reports the number of cases.
func (u *UnionType) NumCases() int { return len(u.cases) }

// Case returns the i'th case in declaration order.
func (u *UnionType) Case(i int) Variant { return u.cases[i] }

// Cases returns a copy of the cases in declaration order.
func (u *UnionType) Cases() []Variant { return append([]Variant(nil), u.cases...) }

// CaseIndex finds the case declared for tag.
func (u *UnionType) CaseIndex(tag string) (int, bool) { return u.index.Lookup(tag) }

// ArrayType is a homogeneous array.
type ArrayType struct {
	elem Type
	pos  Pos
}

// ArrayOf builds an array descriptor.
func ArrayOf(elem Type) *ArrayType { return &ArrayType{elem: elem} }

func (a *ArrayType) Kind() Kind { return KindArray }
func (a *ArrayType) Elem() Type { return a.elem }
func (a *ArrayType) isType()    {}

// DictType is an object with arbitrary keys and homogeneous values.
type DictType struct {
	value Type
	pos   Pos
}

// DictOf builds a dict descriptor.
func DictOf(value Type) *DictType { return &DictType{value: value} }

func (d *DictType) Kind() Kind  { return KindDict }
func (d *DictType) Value() Type { return d.value }
func (d *DictType) isType()     {}

// OptionalType accepts null, or an absent record member, in addition to its
// inner type.
type OptionalType struct {
	inner Type
	pos   Pos
}

// Opt builds an optional descriptor.
func Opt(inner Type) *OptionalType { return &OptionalType{inner: inner} }

func (o *OptionalType) Kind() Kind  { return KindOptional }
func (o *OptionalType) Inner() Type { return o.inner }
func (o *OptionalType) isType()     {}

// RefType names a declaration of the enclosing Context. It is resolved on
// every use, so declarations may refer to themselves and to each other.
type RefType struct {
	name string
	pos  Pos
}

// Ref builds a reference to the declaration called name.
func Ref(name string) *RefType { return &RefType{name: name} }

func (r *RefType) Kind() Kind   { return KindRef }
func (r *RefType) Name() string { return r.name }
func (r *RefType) isType()      {}
