package jtson

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nixCodeX/jtson/internal/ir"
	"github.com/nixCodeX/jtson/internal/syntax"
)

// Compile parses schema source and builds its Context.
//
// Compilation runs in three passes: every declared name is registered first,
// then each right-hand side is lowered into descriptors, and finally the
// Context is validated as a whole. Names may therefore be used before they
// are declared.
func Compile(src string) (*Context, error) {
	f, err := syntax.Parse(src)
	if err != nil {
		var se *syntax.Error
		if errors.As(err, &se) {
			return nil, SchemaErrors{{Code: SchemaSyntax, Pos: se.Pos, Message: se.Msg}}
		}
		return nil, SchemaErrors{{Code: SchemaSyntax, Message: err.Error()}}
	}
	Logger().Debug("schema parsed", zap.Int("decls", len(f.Decls)))

	b := NewBuilder()
	slots := make([]int, len(f.Decls))
	for i, d := range f.Decls {
		slots[i] = b.reserve(d.Name, d.At)
	}
	for i, d := range f.Decls {
		if slots[i] < 0 {
			continue
		}
		b.decls[slots[i]].typ = lower(d.Type)
	}
	return b.Build()
}

// MustCompile is like Compile but panics on error. It simplifies safe
// initialization of global schema variables.
func MustCompile(src string) *Context {
	ctx, err := Compile(src)
	if err != nil {
		panic("jtson: Compile: " + err.Error())
	}
	return ctx
}

// CompileFile reads and compiles a schema file.
func CompileFile(name string) (*Context, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("jtson: %w", err)
	}
	ctx, err := Compile(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ctx, nil
}

func lower(e ir.Expr) Type {
	switch e := e.(type) {
	case *ir.Scalar:
		switch e.Name {
		case "string":
			return StringType
		case "integer":
			return IntegerType
		case "boolean":
			return BooleanType
		case "number":
			return NumberType
		}
		return AnyType
	case *ir.Record:
		fields := make([]Field, len(e.Fields))
		for i, m := range e.Fields {
			fields[i] = Field{Name: m.Name, Type: lower(m.Type), pos: m.At}
		}
		r := RecordOf(fields...)
		r.pos = e.At
		return r
	case *ir.Union:
		cases := make([]Variant, len(e.Cases))
		for i, m := range e.Cases {
			cases[i] = Variant{Tag: m.Name, Type: lower(m.Type), pos: m.At}
		}
		u := UnionOf(e.Tag, cases...)
		u.pos = e.At
		return u
	case *ir.Array:
		return &ArrayType{elem: lower(e.Elem), pos: e.At}
	case *ir.Dict:
		return &DictType{value: lower(e.Value), pos: e.At}
	case *ir.Optional:
		return &OptionalType{inner: lower(e.Inner), pos: e.At}
	case *ir.Ref:
		return &RefType{name: e.Name, pos: e.At}
	}
	return nil
}
