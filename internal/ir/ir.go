// Package ir defines the syntax tree of schema source text. The parser in
// internal/syntax produces it; the compiler in the root package lowers it into
// type descriptors. This package is internal and not part of the public API.
package ir

import "fmt"

// Pos is a 1-based line and column in schema source.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// IsValid reports whether p refers to an actual source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

// NodeKind identifies a type expression node.
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeRecord
	NodeUnion
	NodeArray
	NodeDict
	NodeOptional
	NodeRef
)

// Expr is a type expression.
type Expr interface {
	Kind() NodeKind
	Pos() Pos
}

// File is a parsed schema source: declarations in source order.
type File struct {
	Decls []Decl
}

// Decl binds Name to a type expression.
type Decl struct {
	Name string
	At   Pos
	Type Expr
}

// Scalar is one of the scalar keywords ("string", "integer", ...).
type Scalar struct {
	Name string
	At   Pos
}

func (s *Scalar) Kind() NodeKind { return NodeScalar }
func (s *Scalar) Pos() Pos       { return s.At }

// Member is a named entry: a record field or a union case.
type Member struct {
	Name string
	At   Pos
	Type Expr
}

// Record is a `{ name: type, ... }` literal.
type Record struct {
	Fields []Member
	At     Pos
}

func (r *Record) Kind() NodeKind { return NodeRecord }
func (r *Record) Pos() Pos       { return r.At }

// Union is a `? tag < case: type, ... >` literal.
type Union struct {
	Tag   string
	Cases []Member
	At    Pos
}

func (u *Union) Kind() NodeKind { return NodeUnion }
func (u *Union) Pos() Pos       { return u.At }

// Array is a `[ type ]` literal.
type Array struct {
	Elem Expr
	At   Pos
}

func (a *Array) Kind() NodeKind { return NodeArray }
func (a *Array) Pos() Pos       { return a.At }

// Dict is a `dict<type>` literal.
type Dict struct {
	Value Expr
	At    Pos
}

func (d *Dict) Kind() NodeKind { return NodeDict }
func (d *Dict) Pos() Pos       { return d.At }

// Optional is an `opt<type>` literal.
type Optional struct {
	Inner Expr
	At    Pos
}

func (o *Optional) Kind() NodeKind { return NodeOptional }
func (o *Optional) Pos() Pos       { return o.At }

// Ref names another declaration, written `rec<name>` or as a bare name.
type Ref struct {
	Name string
	At   Pos
}

func (r *Ref) Kind() NodeKind { return NodeRef }
func (r *Ref) Pos() Pos       { return r.At }
