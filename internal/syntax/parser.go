package syntax

import (
	"fmt"

	"github.com/nixCodeX/jtson/internal/ir"
)

// maxNesting bounds how deeply type expressions may nest.
const maxNesting = 512

// Keywords are the reserved words of the schema language. They cannot be
// used as declaration names.
var Keywords = []string{"string", "integer", "boolean", "number", "any", "dict", "opt", "rec"}

// IsKeyword reports whether s is reserved.
func IsKeyword(s string) bool {
	for _, k := range Keywords {
		if k == s {
			return true
		}
	}
	return false
}

func isScalar(s string) bool {
	switch s {
	case "string", "integer", "boolean", "number", "any":
		return true
	}
	return false
}

type parser struct {
	lex   *lexer
	tok   Token
	depth int
}

// Parse parses schema source. Declarations are separated by whitespace or an
// optional comma. `#` and `//` start line comments.
func Parse(src string) (*ir.File, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	f := &ir.File{}
	for p.tok.Type != EOF {
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, d)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// ParseType parses a single type expression.
func ParseType(src string) (ir.Expr, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.typ()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != EOF {
		return nil, p.unexpected("end of input")
	}
	return e, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) isPunct(s string) bool { return p.tok.Type == Punct && p.tok.Value == s }

func (p *parser) unexpected(want string) error {
	return &Error{Pos: p.tok.Pos, Msg: fmt.Sprintf("expected %s, found %s", want, p.tok.describe())}
}

func (p *parser) expect(punct string) error {
	if !p.isPunct(punct) {
		return p.unexpected(fmt.Sprintf("%q", punct))
	}
	return p.advance()
}

// name reads an identifier or a quoted string.
func (p *parser) name(what string) (string, ir.Pos, error) {
	if p.tok.Type != Ident && p.tok.Type != String {
		return "", p.tok.Pos, p.unexpected(what)
	}
	n, pos := p.tok.Value, p.tok.Pos
	return n, pos, p.advance()
}

func (p *parser) decl() (ir.Decl, error) {
	if p.tok.Type != Ident {
		return ir.Decl{}, p.unexpected("declaration name")
	}
	d := ir.Decl{Name: p.tok.Value, At: p.tok.Pos}
	if IsKeyword(d.Name) {
		return ir.Decl{}, &Error{Pos: d.At, Msg: fmt.Sprintf("%q is a reserved word", d.Name)}
	}
	if err := p.advance(); err != nil {
		return ir.Decl{}, err
	}
	if err := p.expect("="); err != nil {
		return ir.Decl{}, err
	}
	t, err := p.typ()
	if err != nil {
		return ir.Decl{}, err
	}
	d.Type = t
	return d, nil
}

func (p *parser) typ() (ir.Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return nil, &Error{Pos: p.tok.Pos, Msg: "type expression nested too deeply"}
	}
	pos := p.tok.Pos
	switch {
	case p.isPunct("{"):
		return p.record(pos)
	case p.isPunct("?"):
		return p.union(pos)
	case p.isPunct("["):
		if err := p.advance(); err != nil {
			return nil, err
		}
		elem, err := p.typ()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return &ir.Array{Elem: elem, At: pos}, nil
	case p.tok.Type == Ident:
		word := p.tok.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch {
		case isScalar(word):
			return &ir.Scalar{Name: word, At: pos}, nil
		case word == "dict":
			inner, err := p.angled()
			if err != nil {
				return nil, err
			}
			return &ir.Dict{Value: inner, At: pos}, nil
		case word == "opt":
			inner, err := p.angled()
			if err != nil {
				return nil, err
			}
			return &ir.Optional{Inner: inner, At: pos}, nil
		case word == "rec":
			if err := p.expect("<"); err != nil {
				return nil, err
			}
			n, _, err := p.name("declaration name")
			if err != nil {
				return nil, err
			}
			if err := p.expect(">"); err != nil {
				return nil, err
			}
			return &ir.Ref{Name: n, At: pos}, nil
		}
		return &ir.Ref{Name: word, At: pos}, nil
	}
	return nil, p.unexpected("type")
}

func (p *parser) angled() (ir.Expr, error) {
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	inner, err := p.typ()
	if err != nil {
		return nil, err
	}
	return inner, p.expect(">")
}

// members parses `name: type` entries up to the closing punctuation.
func (p *parser) members(closing, what string) ([]ir.Member, error) {
	var out []ir.Member
	for !p.isPunct(closing) {
		n, pos, err := p.name(what)
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		out = append(out, ir.Member{Name: n, At: pos, Type: t})
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if !p.isPunct(closing) {
			return nil, p.unexpected(fmt.Sprintf("%q or %q", ",", closing))
		}
	}
	return out, p.advance()
}

func (p *parser) record(pos ir.Pos) (ir.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	fields, err := p.members("}", "field name")
	if err != nil {
		return nil, err
	}
	return &ir.Record{Fields: fields, At: pos}, nil
}

func (p *parser) union(pos ir.Pos) (ir.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	tag, _, err := p.name("tag field name")
	if err != nil {
		return nil, err
	}
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	cases, err := p.members(">", "case tag")
	if err != nil {
		return nil, err
	}
	return &ir.Union{Tag: tag, Cases: cases, At: pos}, nil
}
