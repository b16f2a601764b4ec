// Package materialize writes a generated node graph into a scene tree.
package materialize

import (
	"fmt"

	"github.com/kolah/modelslots/internal/graph"
	"github.com/kolah/modelslots/internal/scene"
)

// Report counts what Apply attached.
type Report struct {
	Nodes      int
	Variables  int
	Arrays     int
	References int
	Replaced   []string
}

// ValueType maps a resolved type to the host's typed variable.
func ValueType(t graph.ResolvedType) scene.ValueType {
	switch t {
	case graph.Float32:
		return scene.ValueFloat
	case graph.Float64:
		return scene.ValueDouble
	case graph.Integer:
		return scene.ValueInt
	case graph.Boolean:
		return scene.ValueBool
	case graph.Timestamp:
		return scene.ValueDateTime
	case graph.Duration:
		return scene.ValueTimeSpan
	case graph.Uri:
		return scene.ValueUri
	case graph.StructuralReference:
		return scene.ValueSlot
	default:
		return scene.ValueString
	}
}

// Apply creates one slot per node under root, replacing slots left by a
// previous run with the same name. Only resolved references are attached.
// There is no rollback: an error leaves the slots created so far in place.
func Apply(root *scene.Slot, res *graph.Result) (*Report, error) {
	report := &Report{}
	slots := make(map[string]*scene.Slot, len(res.Graph.Nodes))

	for _, node := range res.Graph.Nodes {
		if root.RemoveChild(node.Name) {
			report.Replaced = append(report.Replaced, node.Name)
		}

		slot := root.AddSlot(node.Name)
		slot.Space = node.Name
		slots[node.Name] = slot
		report.Nodes++

		for _, v := range node.Variables {
			if _, err := slot.AttachValue(v.Name, ValueType(v.Type), v.Persistent); err != nil {
				return report, fmt.Errorf("attaching variable: %w", err)
			}
			report.Variables++
		}

		for _, a := range node.Arrays {
			child := slot.AddSlot(a.Name)
			child.Tag = a.ElementTag
			report.Arrays++
		}
	}

	// Targets may be declared after their owners, so bind after all slots exist.
	for _, b := range res.Resolution.Resolved {
		owner, ok := slots[b.Reference.Owner]
		if !ok {
			return report, fmt.Errorf("reference %s: owner %q has no slot", b.Reference.Name, b.Reference.Owner)
		}
		if _, err := owner.AttachReference(b.Reference.Name, slots[b.Target.Name], true); err != nil {
			return report, fmt.Errorf("attaching reference: %w", err)
		}
		report.References++
	}

	return report, nil
}
