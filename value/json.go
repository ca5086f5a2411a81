package value

import (
	"bytes"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	eng "github.com/nixCodeX/jtson/internal/engine"
	"github.com/nixCodeX/jtson/source/gojson"
	yamlsrc "github.com/nixCodeX/jtson/source/yaml"
)

// Builder assembles Values from a token stream. It satisfies the token
// engine's builder contract and is used by every source driver.
type Builder struct{}

func (Builder) Null() Value             { return Null() }
func (Builder) Bool(b bool) Value       { return Bool(b) }
func (Builder) Number(lit string) Value { return Number(lit) }
func (Builder) String(s string) Value   { return String(s) }

// Array takes ownership of elems.
func (Builder) Array(elems []Value) Value { return Value{kind: KindArray, arr: elems} }

// Object takes ownership of vals.
func (Builder) Object(keys []string, vals []Value) Value {
	obj := make([]Member, len(keys))
	for i, k := range keys {
		obj[i] = Member{Key: k, Value: vals[i]}
	}
	return Value{kind: KindObject, obj: obj}
}

// ParseJSON parses a single JSON document.
func ParseJSON(data []byte) (Value, error) {
	return eng.DecodeDocument[Value](gojson.NewBytes(data), Builder{})
}

// ReadJSON parses a single JSON document from r.
func ReadJSON(r io.Reader) (Value, error) {
	return eng.DecodeDocument[Value](gojson.NewReader(r), Builder{})
}

// ParseYAML parses the first document of a YAML stream, keeping mapping
// order.
func ParseYAML(data []byte) (Value, error) {
	return eng.DecodeDocument[Value](yamlsrc.NewBytes(data), Builder{})
}

// MustParseJSON is like ParseJSON but panics on error. It is meant for
// literals in tests and static tables.
func MustParseJSON(s string) Value {
	v, err := ParseJSON([]byte(s))
	if err != nil {
		panic("value: MustParseJSON: " + err.Error())
	}
	return v
}

// MarshalJSON renders v as compact JSON. Object members keep their order and
// duplicates.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces v with the parsed document.
func (v *Value) UnmarshalJSON(data []byte) error {
	nv, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = nv
	return nil
}

// String renders v as compact JSON.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<invalid: " + err.Error() + ">"
	}
	return string(b)
}

// Indent renders v as indented JSON.
func (v Value) Indent(prefix, indent string) ([]byte, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := j.Indent(&out, raw, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if !validNumber(v.s) {
			return fmt.Errorf("value: invalid number literal %q", v.s)
		}
		buf.WriteString(v.s)
	case KindString:
		return writeString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := j.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
