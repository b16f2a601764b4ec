package graph

import (
	"fmt"
	"strings"
)

// Binding is a template reference whose target node exists.
type Binding struct {
	Reference TemplateReference
	Target    *Node
}

// Resolution is the finalized reference table of a run.
type Resolution struct {
	Resolved    []Binding
	Removed     []TemplateReference
	Diagnostics []Diagnostic
}

// Bindings returns the resolved references owned by the named node.
func (r *Resolution) Bindings(owner string) []Binding {
	var out []Binding
	for _, b := range r.Resolved {
		if b.Reference.Owner == owner {
			out = append(out, b)
		}
	}
	return out
}

// ResolveReferences binds each pending reference to the node of the model
// its variable name points at. The model must be a declared top-level
// schema; anything else is dropped with a diagnostic so that no reference
// is left unbound.
func ResolveReferences(g *Graph, schemaNames map[string]struct{}, pending []TemplateReference) *Resolution {
	res := &Resolution{}

	for _, ref := range pending {
		name := strings.TrimSuffix(ref.Name, TemplateSuffix)

		var target *Node
		if _, declared := schemaNames[name]; declared {
			target, _ = g.Node(name)
		}

		if target == nil {
			res.Removed = append(res.Removed, ref)
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DanglingReference,
				Model:    ref.Owner,
				Property: ref.Name,
				Message:  fmt.Sprintf("model %q is not declared, reference removed", name),
			})
			continue
		}

		ref.Target = name
		res.Resolved = append(res.Resolved, Binding{Reference: ref, Target: target})
	}

	return res
}
