package jtson

import (
	js "github.com/nixCodeX/jtson/jsonschema"
)

// JSONSchema exports the declaration as a JSON Schema document. Every
// declaration of the Context becomes a definition under $defs, and the root
// refers to this one.
func (d *Decl) JSONSchema() *js.Schema {
	root := d.ctx.JSONSchema()
	root.Ref = js.DefRef(d.name)
	return root
}

// JSONSchema exports all declarations under $defs.
func (c *Context) JSONSchema() *js.Schema {
	defs := make(map[string]*js.Schema, len(c.decls))
	for _, d := range c.decls {
		defs[d.name] = c.exportType(d.typ)
	}
	return &js.Schema{Schema: js.Draft, Defs: defs}
}

// ToJSONSchema exports a single descriptor. References resolve as $refs into
// the Context's definitions, which are included.
func (c *Context) ToJSONSchema(t Type) *js.Schema {
	s := c.exportType(t)
	root := c.JSONSchema()
	s.Schema, s.Defs = root.Schema, root.Defs
	return s
}

func (c *Context) exportType(t Type) *js.Schema {
	switch t := t.(type) {
	case *ScalarType:
		if t.scalar == ScalarAny {
			return &js.Schema{}
		}
		return &js.Schema{Type: t.scalar.String()}
	case *RecordType:
		return c.exportRecord(t, "", "")
	case *UnionType:
		s := &js.Schema{}
		for _, v := range t.cases {
			rt, ok := c.caseRecord(v)
			if !ok {
				continue
			}
			s.OneOf = append(s.OneOf, c.exportRecord(rt, t.tagField, v.Tag))
		}
		return s
	case *ArrayType:
		return &js.Schema{Type: "array", Items: c.exportType(t.elem)}
	case *DictType:
		return &js.Schema{Type: "object", AdditionalProperties: c.exportType(t.value)}
	case *OptionalType:
		return &js.Schema{AnyOf: []*js.Schema{c.exportType(t.inner), {Type: "null"}}}
	case *RefType:
		return &js.Schema{Ref: js.DefRef(t.name)}
	}
	return &js.Schema{}
}

// exportRecord renders a record. A non-empty tagField adds the union tag as a
// required constant property.
func (c *Context) exportRecord(t *RecordType, tagField, tag string) *js.Schema {
	s := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(t.fields)+1)}
	if tagField != "" {
		s.Properties[tagField] = &js.Schema{Type: "string", Const: tag}
		s.Required = append(s.Required, tagField)
	}
	for _, f := range t.fields {
		s.Properties[f.Name] = c.exportType(f.Type)
		if _, opt := c.Resolve(f.Type).(*OptionalType); !opt {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}
