package model

import "slices"

// Document is the schema section of one OpenAPI document.
type Document struct {
	Version string
	Title   string
	Schemas []Schema
}

// SchemaByRef returns a schema by its $ref path (e.g., "#/components/schemas/User").
// Returns nil if the schema is not found.
func (d *Document) SchemaByRef(ref string) *Schema {
	name := (&Schema{Ref: ref}).RefName()
	return d.SchemaByName(name)
}

func (d *Document) SchemaByName(name string) *Schema {
	for i := range d.Schemas {
		if d.Schemas[i].Name == name {
			return &d.Schemas[i]
		}
	}
	return nil
}

// SchemaNames returns the set of top-level schema names.
func (d *Document) SchemaNames() map[string]struct{} {
	names := make(map[string]struct{}, len(d.Schemas))
	for _, s := range d.Schemas {
		names[s.Name] = struct{}{}
	}
	return names
}

// Without returns a copy of the document with the named schemas removed.
// References to removed schemas are left untouched and will dangle.
func (d *Document) Without(names ...string) *Document {
	out := &Document{Version: d.Version, Title: d.Title}
	for _, s := range d.Schemas {
		if slices.Contains(names, s.Name) {
			continue
		}
		out.Schemas = append(out.Schemas, s)
	}
	return out
}
