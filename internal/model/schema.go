package model

import "strings"

type Schema struct {
	Name   string
	Type   SchemaType
	Format string

	// Object properties, in declaration order
	Properties []Property

	// Array items
	Items *Schema

	// Value schema for free-form maps
	AdditionalProperties *Schema

	// Reference, e.g. "#/components/schemas/Owner"
	Ref string

	// Ignore is set by the x-modelslots-ignore extension.
	Ignore bool
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
	TypeNull    SchemaType = "null"
)

type Property struct {
	Name   string
	Schema *Schema
}

// RefName returns the model name a reference points at, which is the last
// segment of the reference path. Empty when the schema is not a reference.
func (s *Schema) RefName() string {
	if s == nil || s.Ref == "" {
		return ""
	}
	ref := s.Ref
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		ref = ref[i+1:]
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

// IsReference reports whether the schema points at another named schema.
func (s *Schema) IsReference() bool {
	return s != nil && s.Ref != ""
}

// Kind returns the schema type lowercased and trimmed, so "Array" and
// "array" route the same way.
func (s *Schema) Kind() SchemaType {
	if s == nil {
		return ""
	}
	return SchemaType(strings.ToLower(strings.TrimSpace(string(s.Type))))
}
