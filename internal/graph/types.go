package graph

import "strings"

// ResolvedType is the closed set of slot kinds a schema property can map to.
type ResolvedType int

const (
	Text ResolvedType = iota
	Float32
	Float64
	Integer
	Boolean
	Timestamp
	Duration
	Uri
	// StructuralReference marks a property whose value is itself a node.
	StructuralReference
)

var resolvedTypeNames = [...]string{
	Text:                "Text",
	Float32:             "Float32",
	Float64:             "Float64",
	Integer:             "Integer",
	Boolean:             "Boolean",
	Timestamp:           "Timestamp",
	Duration:            "Duration",
	Uri:                 "Uri",
	StructuralReference: "StructuralReference",
}

func (t ResolvedType) String() string {
	if t < 0 || int(t) >= len(resolvedTypeNames) {
		return "Unknown"
	}
	return resolvedTypeNames[t]
}

// Format wins over kind. The host cannot tell int32 from int64, nor
// date from date-time, so those collapse.
var formatTypes = map[string]ResolvedType{
	"float":     Float32,
	"double":    Float64,
	"int32":     Integer,
	"int64":     Integer,
	"date":      Timestamp,
	"time":      Timestamp,
	"date-time": Timestamp,
	"duration":  Duration,
	"uri":       Uri,
}

var kindTypes = map[string]ResolvedType{
	"string":  Text,
	"number":  Float32,
	"integer": Integer,
	"boolean": Boolean,
	"object":  StructuralReference,
}

// Resolve maps a (kind, format) pair to a slot kind. A non-empty format is
// authoritative and unknown formats are opaque text (email, uuid, ...).
// With no format the kind decides; ok is false for array and for unknown
// kinds, which carry no attachment. The returned type is always defined.
func Resolve(kind, format string) (ResolvedType, bool) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" {
		if t, found := formatTypes[format]; found {
			return t, true
		}
		return Text, true
	}

	if t, found := kindTypes[strings.ToLower(strings.TrimSpace(kind))]; found {
		return t, true
	}
	return Text, false
}
