package graph

import (
	"fmt"

	"github.com/kolah/modelslots/internal/model"
)

// Build creates one node per top-level schema and collects every template
// reference emitted along the way. Nothing is resolved here: a schema may
// refer to one declared after it.
func Build(schemas []model.Schema) (*Graph, []TemplateReference, []Diagnostic) {
	g := newGraph()
	var pending []TemplateReference
	var diags []Diagnostic

	for i := range schemas {
		s := &schemas[i]
		if _, exists := g.Node(s.Name); exists {
			diags = append(diags, Diagnostic{
				Kind:    DuplicateAttachment,
				Model:   s.Name,
				Message: "schema declared twice, keeping the first",
			})
			continue
		}

		node := &Node{Name: s.Name}
		g.add(node)

		var in Instructions
		switch {
		case s.Kind() != model.TypeObject:
			// Non-object models still get a bare node.
		case len(s.Properties) > 0:
			for _, prop := range s.Properties {
				in.merge(Walk(node.Name, prop.Name, prop.Schema))
			}
		case s.AdditionalProperties != nil:
			in.merge(Walk(node.Name, node.Name, s.AdditionalProperties))
		}

		diags = append(diags, in.Diagnostics...)
		diags = append(diags, apply(node, in)...)
		pending = append(pending, node.References...)
	}

	return g, pending, diags
}

// apply merges walk output into node, keeping slot and reference names
// unique within it.
func apply(node *Node, in Instructions) []Diagnostic {
	var diags []Diagnostic
	duplicate := func(name string) {
		diags = append(diags, Diagnostic{
			Kind:     DuplicateAttachment,
			Model:    node.Name,
			Property: name,
			Message:  fmt.Sprintf("slot %q already attached, keeping the first", name),
		})
	}

	for _, v := range in.Variables {
		if node.hasSlot(v.Name) {
			duplicate(v.Name)
			continue
		}
		node.Variables = append(node.Variables, v)
	}
	for _, a := range in.Arrays {
		if node.hasSlot(a.Name) {
			duplicate(a.Name)
			continue
		}
		node.Arrays = append(node.Arrays, a)
	}
	for _, r := range in.References {
		// Several properties may mirror the same model through one link.
		if node.hasReference(r.Name) {
			continue
		}
		// Links share the variable namespace of the node.
		if node.hasSlot(r.Name) {
			duplicate(r.Name)
			continue
		}
		node.References = append(node.References, r)
	}
	return diags
}
