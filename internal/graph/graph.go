package graph

import (
	"fmt"

	"github.com/kolah/modelslots/internal/model"
)

// TemplateSuffix is appended to a model name to form the variable that
// links a node to the node mirroring that model.
const TemplateSuffix = ".template"

// VariableAttachment is a typed slot on a node.
type VariableAttachment struct {
	Owner      string
	Name       string
	Type       ResolvedType
	Persistent bool
}

// ArrayAttachment is a child slot named "<property>[]" tagged with the
// element's format, kind or model name.
type ArrayAttachment struct {
	Owner          string
	Name           string
	ElementTag     string
	ElementIsModel bool
}

// TemplateReference is a deferred link from Owner to the node named Target.
type TemplateReference struct {
	Owner  string
	Name   string
	Target string
}

func newTemplateReference(owner, target string) TemplateReference {
	return TemplateReference{
		Owner:  owner,
		Name:   target + TemplateSuffix,
		Target: target,
	}
}

// Node is the per-schema unit owning attachments. References lists the
// links the node requested; which of them survive is decided by
// ResolveReferences.
type Node struct {
	Name       string
	Variables  []VariableAttachment
	Arrays     []ArrayAttachment
	References []TemplateReference
}

func (n *Node) hasSlot(name string) bool {
	for _, v := range n.Variables {
		if v.Name == name {
			return true
		}
	}
	for _, a := range n.Arrays {
		if a.Name == name {
			return true
		}
	}
	return false
}

func (n *Node) hasReference(name string) bool {
	for _, r := range n.References {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Variable returns the variable attachment with the given name.
func (n *Node) Variable(name string) (VariableAttachment, bool) {
	for _, v := range n.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VariableAttachment{}, false
}

// Graph holds the nodes of one generation run in schema declaration order.
type Graph struct {
	Nodes []*Node
	index map[string]*Node
}

func newGraph() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

func (g *Graph) add(n *Node) {
	g.Nodes = append(g.Nodes, n)
	g.index[n.Name] = n
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.index[name]
	return n, ok
}

type DiagnosticKind string

const (
	UnsupportedShape    DiagnosticKind = "unsupported-shape"
	DanglingReference   DiagnosticKind = "dangling-reference"
	DuplicateAttachment DiagnosticKind = "duplicate-attachment"
)

// Diagnostic records a locally recovered problem. None of them fail a run.
type Diagnostic struct {
	Kind     DiagnosticKind
	Model    string
	Property string
	Message  string
}

func (d Diagnostic) String() string {
	if d.Property == "" {
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.Model, d.Message)
	}
	return fmt.Sprintf("%s: %s.%s: %s", d.Kind, d.Model, d.Property, d.Message)
}

// Result is the outcome of both generation phases.
type Result struct {
	Graph       *Graph
	Resolution  *Resolution
	Diagnostics []Diagnostic
}

// Generate builds the node graph for every schema of the document and then
// resolves template references against the document's schema names.
func Generate(doc *model.Document) *Result {
	g, pending, diags := Build(doc.Schemas)
	res := ResolveReferences(g, doc.SchemaNames(), pending)

	return &Result{
		Graph:       g,
		Resolution:  res,
		Diagnostics: append(diags, res.Diagnostics...),
	}
}
