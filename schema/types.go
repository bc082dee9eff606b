// Package schema holds model definitions and the declarative metadata
// blocks attached to them. A definition is finalized from a raw attribute
// map; the three metadata blocks (APIFields, APIFiltering, APIViewset) are
// extracted from the map before finalization, with documented defaults
// filled in for the field and viewset blocks.
package schema

import "fmt"

// FieldType represents the primitive type of a model field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeText
	TypeInt
	TypeFloat
	TypeBool
	TypeTimestamp
	TypeUUID
	TypeJSON
)

// String returns the string representation of the field type.
func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeText:
		return "text"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeTimestamp:
		return "timestamp"
	case TypeUUID:
		return "uuid"
	case TypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFieldType converts a string to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "text":
		return TypeText, nil
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "bool":
		return TypeBool, nil
	case "timestamp":
		return TypeTimestamp, nil
	case "uuid":
		return TypeUUID, nil
	case "json":
		return TypeJSON, nil
	default:
		return 0, fmt.Errorf("unknown field type: %s", s)
	}
}

// Field is a named typed attribute of a model definition.
type Field struct {
	Name string
	Type FieldType
}
