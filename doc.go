// Package jtson provides:
//
// - A small schema language for tree-shaped data: scalars, records, tagged
// unions, arrays, dicts, optionals and named (possibly recursive) declarations
// - Compilation of schema source into an immutable Context of declarations
// - Decoding of JSON or YAML input into typed values, with every mismatch
// reported as Issues (JSON Pointer, code, message)
// - Exhaustive dispatch over union cases via Match/Matcher
// - Conversion back to untyped values, schema syntax and JSON Schema
//
// Design policy:
// - Keep only public APIs in the root package; put the parser, token engine
// and drivers under internal/ and source/.
// - Schema problems (SchemaErrors) and input problems (Issues) never mix.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	ctx := jtson.MustCompile(`
//	  obj = ? tag < nil: {}, cons: { x: integer, xs: obj } >
//	`)
//	v, err := jtson.ParseFrom(context.Background(), ctx.MustLookup("obj"), jtson.JSONBytes(data))
//	u := v.(*jtson.Union)
//	jtson.Match(u,
//		jtson.Case("nil", func(*jtson.Record) int { return 0 }),
//		jtson.Case("cons", func(r *jtson.Record) int { return int(r.Int("x")) }),
//	)
package jtson
