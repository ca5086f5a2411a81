// Package jsonschema holds the JSON Schema (draft 2020-12) subset produced by
// schema export.
package jsonschema

import j "github.com/goccy/go-json"

// Draft is the dialect URI written to exported root schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	Schema      string `json:"$schema,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Type        string `json:"type,omitempty"`
	Const       any    `json:"const,omitempty"`
	Description string `json:"description,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Composition
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`

	// Definitions referenced as "#/$defs/<name>".
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// DefRef is the $ref value pointing at a definition.
func DefRef(name string) string { return "#/$defs/" + name }

// Marshal renders s as indented JSON.
func (s *Schema) Marshal() ([]byte, error) { return j.MarshalIndent(s, "", "  ") }
