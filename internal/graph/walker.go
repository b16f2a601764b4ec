package graph

import (
	"fmt"

	"github.com/kolah/modelslots/internal/model"
)

// Instructions are the attachments one property walk asks for.
type Instructions struct {
	Variables   []VariableAttachment
	Arrays      []ArrayAttachment
	References  []TemplateReference
	Diagnostics []Diagnostic
}

func (in *Instructions) merge(other Instructions) {
	in.Variables = append(in.Variables, other.Variables...)
	in.Arrays = append(in.Arrays, other.Arrays...)
	in.References = append(in.References, other.References...)
	in.Diagnostics = append(in.Diagnostics, other.Diagnostics...)
}

func (in *Instructions) skip(owner, property, format string, args ...any) {
	in.Diagnostics = append(in.Diagnostics, Diagnostic{
		Kind:     UnsupportedShape,
		Model:    owner,
		Property: property,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Walk decides the attachments for one property of owner. It does not
// touch any node; unsupported shapes produce a diagnostic and nothing else.
func Walk(owner, property string, s *model.Schema) Instructions {
	var in Instructions

	if s == nil {
		in.skip(owner, property, "property has no schema")
		return in
	}
	if s.Ignore {
		in.skip(owner, property, "ignored by extension")
		return in
	}

	if s.Format == "" {
		switch s.Kind() {
		case model.TypeObject:
			in.merge(walkObject(owner, property, s))
			return in
		case model.TypeArray:
			in.merge(walkArray(owner, property, s))
			return in
		}
	}

	t, ok := Resolve(string(s.Type), s.Format)
	if !ok {
		in.skip(owner, property, "unsupported type %q", s.Type)
		return in
	}
	in.Variables = append(in.Variables, VariableAttachment{
		Owner:      owner,
		Name:       property,
		Type:       t,
		Persistent: true,
	})
	return in
}

func walkObject(owner, property string, s *model.Schema) Instructions {
	// Free-form maps flatten to their value schema under the same name.
	if s.AdditionalProperties != nil {
		return Walk(owner, property, s.AdditionalProperties)
	}

	var in Instructions
	switch {
	case s.IsReference():
		in.Variables = append(in.Variables, VariableAttachment{
			Owner:      owner,
			Name:       property,
			Type:       StructuralReference,
			Persistent: true,
		})
		in.References = append(in.References, newTemplateReference(owner, s.RefName()))
	case len(s.Properties) > 0:
		// Inline object: an anchor with no model to mirror.
		in.Variables = append(in.Variables, VariableAttachment{
			Owner:      owner,
			Name:       property,
			Type:       StructuralReference,
			Persistent: true,
		})
	default:
		in.skip(owner, property, "object has neither properties, additionalProperties nor a reference")
	}
	return in
}

func walkArray(owner, property string, s *model.Schema) Instructions {
	var in Instructions

	items := s.Items
	if items == nil {
		in.skip(owner, property, "array has no items")
		return in
	}

	arr := ArrayAttachment{
		Owner:      owner,
		Name:       property + "[]",
		ElementTag: items.Format,
	}
	if arr.ElementTag == "" {
		arr.ElementTag = string(items.Kind())
	}

	if items.Kind() == model.TypeObject && items.IsReference() {
		target := items.RefName()
		arr.ElementTag = target
		arr.ElementIsModel = true
		in.References = append(in.References, newTemplateReference(owner, target))
	}

	in.Arrays = append(in.Arrays, arr)
	return in
}
