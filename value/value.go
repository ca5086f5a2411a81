// Package value implements the untyped, JSON-like tree consumed and produced
// by the typed decoder: null, bool, number, string, array and ordered object.
//
// Values are immutable. Constructors copy the slices they are given and
// accessors never expose internal storage, so a Value may be shared freely
// between goroutines.
//
// Numbers keep their literal text. Conversion to int64 or float64 happens only
// on request, so no precision is lost between parse and print.
//
// Object keys are ordered and need not be unique; Get reports the last member
// with a given key.
package value

import (
	"iter"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a node of the untyped tree. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload, or number literal
	arr  []Value
	obj  []Member
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// M is shorthand for Member{Key: key, Value: v}.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number holding the literal lit. The literal is trusted to
// be a valid JSON number; use ParseNumber for untrusted text.
func Number(lit string) Value { return Value{kind: KindNumber, s: lit} }

// ParseNumber validates lit as a JSON number literal.
func ParseNumber(lit string) (Value, error) {
	if !validNumber(lit) {
		return Value{}, &strconv.NumError{Func: "ParseNumber", Num: lit, Err: strconv.ErrSyntax}
	}
	return Number(lit), nil
}

// Int returns a number holding i.
func Int(i int64) Value { return Number(strconv.FormatInt(i, 10)) }

// Float returns a number holding f in its shortest round-tripping form.
func Float(f float64) Value { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array of the given elements.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: slices.Clone(elems)}
}

// Object returns an object of the given members, in order.
func Object(members ...Member) Value {
	return Value{kind: KindObject, obj: slices.Clone(members)}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// NumberText returns the literal of a number.
func (v Value) NumberText() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.s, true
}

// Int64 returns the number as an int64 when it is integral and in range.
// Literals such as "1e3" or "2.0" qualify.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
		return i, true
	}
	r, ok := ratOf(v.s)
	if !ok || !r.IsInt() || !r.Num().IsInt64() {
		return 0, false
	}
	return r.Num().Int64(), true
}

// Float64 returns the number as the nearest float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		// out of range still yields ±Inf with a range error; anything else is malformed
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return 0, false
		}
	}
	return f, true
}

// Len returns the number of array elements or object members, or 0.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

// Index returns the i-th array element. It panics when v is not an array or i
// is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray {
		panic("value: Index on " + v.kind.String())
	}
	return v.arr[i]
}

// MemberAt returns the i-th object member. It panics when v is not an object
// or i is out of range.
func (v Value) MemberAt(i int) Member {
	if v.kind != KindObject {
		panic("value: MemberAt on " + v.kind.String())
	}
	return v.obj[i]
}

// Elems yields array elements with their index.
func (v Value) Elems() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if v.kind != KindArray {
			return
		}
		for i, e := range v.arr {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Members yields object members in order, duplicates included.
func (v Value) Members() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if v.kind != KindObject {
			return
		}
		for _, m := range v.obj {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// Get returns the value of the last member named key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for i := len(v.obj) - 1; i >= 0; i-- {
		if v.obj[i].Key == key {
			return v.obj[i].Value, true
		}
	}
	return Value{}, false
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindObject:
		obj := make([]Member, len(v.obj))
		for i, m := range v.obj {
			obj[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
		return Value{kind: KindObject, obj: obj}
	}
	return v
}

// Equal reports structural equality. Object members are compared in order;
// numbers are equal when their literals denote the same rational value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindNumber:
		return numbersEqual(a.s, b.s)
	case KindArray:
		return slices.EqualFunc(a.arr, b.arr, Equal)
	case KindObject:
		return slices.EqualFunc(a.obj, b.obj, func(x, y Member) bool {
			return x.Key == y.Key && Equal(x.Value, y.Value)
		})
	}
	return false
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	ra, ok := ratOf(a)
	if !ok {
		return false
	}
	rb, ok := ratOf(b)
	if !ok {
		return false
	}
	return ra.Cmp(rb) == 0
}

// maxExponent bounds the exponents converted to exact rationals; larger ones
// would allocate enormous integers.
const maxExponent = 4096

func ratOf(lit string) (*big.Rat, bool) {
	if i := strings.IndexAny(lit, "eE"); i >= 0 {
		exp, err := strconv.Atoi(lit[i+1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return nil, false
		}
	}
	return new(big.Rat).SetString(lit)
}

// validNumber checks the JSON number grammar.
func validNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
