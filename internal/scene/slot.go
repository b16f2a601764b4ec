// Package scene is an in-process model of the host scene tree: slots that
// own child slots, a dynamic variable space and typed dynamic variables.
package scene

import (
	"errors"
	"fmt"
	"strings"
)

type ValueType string

const (
	ValueString   ValueType = "string"
	ValueFloat    ValueType = "float"
	ValueDouble   ValueType = "double"
	ValueInt      ValueType = "int"
	ValueBool     ValueType = "bool"
	ValueDateTime ValueType = "DateTime"
	ValueTimeSpan ValueType = "TimeSpan"
	ValueUri      ValueType = "Uri"
	ValueSlot     ValueType = "Slot"
)

var ErrDuplicateVariable = errors.New("variable already exists")

// Variable is a dynamic variable. Reference variables (ValueSlot) may point
// at another slot; Target stays nil for an empty reference.
type Variable struct {
	Name       string
	Type       ValueType
	Persistent bool
	Target     *Slot
}

type Slot struct {
	Name      string
	Tag       string
	Space     string
	Variables []*Variable
	Children  []*Slot

	parent *Slot
}

func NewRoot(name string) *Slot {
	return &Slot{Name: name}
}

func (s *Slot) Parent() *Slot {
	return s.parent
}

// AddSlot appends a new child slot.
func (s *Slot) AddSlot(name string) *Slot {
	child := &Slot{Name: name, parent: s}
	s.Children = append(s.Children, child)
	return child
}

// FindChild returns the first direct child with the given name.
func (s *Slot) FindChild(name string) *Slot {
	for _, c := range s.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// RemoveChild detaches every direct child with the given name and reports
// whether any was removed.
func (s *Slot) RemoveChild(name string) bool {
	kept := s.Children[:0]
	removed := false
	for _, c := range s.Children {
		if c.Name == name {
			c.parent = nil
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.Children = kept
	return removed
}

func (s *Slot) Variable(name string) *Variable {
	for _, v := range s.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (s *Slot) AttachValue(name string, t ValueType, persistent bool) (*Variable, error) {
	return s.attach(&Variable{Name: name, Type: t, Persistent: persistent})
}

func (s *Slot) AttachReference(name string, target *Slot, persistent bool) (*Variable, error) {
	return s.attach(&Variable{Name: name, Type: ValueSlot, Persistent: persistent, Target: target})
}

func (s *Slot) attach(v *Variable) (*Variable, error) {
	if s.Variable(v.Name) != nil {
		return nil, fmt.Errorf("%s: %q: %w", s.Path(), v.Name, ErrDuplicateVariable)
	}
	s.Variables = append(s.Variables, v)
	return v, nil
}

// Path returns the slash separated names from the root to s.
func (s *Slot) Path() string {
	var parts []string
	for cur := s; cur != nil; cur = cur.parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
