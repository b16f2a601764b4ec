package scene

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

type SlotSnapshot struct {
	Name      string             `yaml:"name" json:"name"`
	Tag       string             `yaml:"tag,omitempty" json:"tag,omitempty"`
	Space     string             `yaml:"space,omitempty" json:"space,omitempty"`
	Variables []VariableSnapshot `yaml:"variables,omitempty" json:"variables,omitempty"`
	Children  []SlotSnapshot     `yaml:"children,omitempty" json:"children,omitempty"`
}

type VariableSnapshot struct {
	Name       string    `yaml:"name" json:"name"`
	Type       ValueType `yaml:"type" json:"type"`
	Persistent bool      `yaml:"persistent" json:"persistent"`
	Target     string    `yaml:"target,omitempty" json:"target,omitempty"`
}

// Snapshot copies the subtree rooted at s into plain values. Reference
// targets are written as slot paths.
func Snapshot(s *Slot) SlotSnapshot {
	snap := SlotSnapshot{
		Name:  s.Name,
		Tag:   s.Tag,
		Space: s.Space,
	}
	for _, v := range s.Variables {
		vs := VariableSnapshot{
			Name:       v.Name,
			Type:       v.Type,
			Persistent: v.Persistent,
		}
		if v.Target != nil {
			vs.Target = v.Target.Path()
		}
		snap.Variables = append(snap.Variables, vs)
	}
	for _, c := range s.Children {
		snap.Children = append(snap.Children, Snapshot(c))
	}
	return snap
}

func Encode(w io.Writer, s *Slot, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML, "":
		data, err = yaml.Marshal(Snapshot(s))
	case FormatJSON:
		data, err = json.MarshalIndent(Snapshot(s), "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}
