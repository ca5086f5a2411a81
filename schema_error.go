package jtson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nixCodeX/jtson/internal/ir"
)

// Schema error codes. They are reported while compiling schema source or
// building a Context and never while decoding input.
const (
	SchemaSyntax         = "syntax"
	SchemaInvalidName    = "invalid_name"
	SchemaDuplicateDecl  = "duplicate_decl"
	SchemaUndeclaredRef  = "undeclared_ref"
	SchemaDuplicateField = "duplicate_field"
	SchemaDuplicateTag   = "duplicate_tag"
	SchemaCaseNotRecord  = "case_not_record"
	SchemaTagConflict    = "tag_field_conflict"
	SchemaEmptyUnion     = "empty_union"
	SchemaCyclicRef      = "cyclic_ref"
)

// Pos is a 1-based line and column in schema source. The zero Pos means the
// construct was built programmatically.
type Pos = ir.Pos

// SchemaError describes one defect in a schema.
type SchemaError struct {
	Code    string
	Pos     Pos
	Decl    string // enclosing declaration, empty for file-level errors
	Message string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema")
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, ":%d:%d", e.Pos.Line, e.Pos.Col)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Decl != "" {
		fmt.Fprintf(&b, " (in %q)", e.Decl)
	}
	return b.String()
}

// SchemaErrors collects every defect found in one compilation.
type SchemaErrors []*SchemaError

func (errs SchemaErrors) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d schema errors: %s", len(errs), strings.Join(msgs, "; "))
}

// Has reports whether any error carries code.
func (errs SchemaErrors) Has(code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

// AsSchemaErrors extracts SchemaErrors from err.
func AsSchemaErrors(err error) (SchemaErrors, bool) {
	if err == nil {
		return nil, false
	}
	var errs SchemaErrors
	if errors.As(err, &errs) {
		return errs, true
	}
	var one *SchemaError
	if errors.As(err, &one) {
		return SchemaErrors{one}, true
	}
	return nil, false
}

// IsSchemaError reports whether err stems from an invalid schema rather than
// from invalid input.
func IsSchemaError(err error) bool {
	_, ok := AsSchemaErrors(err)
	return ok
}
