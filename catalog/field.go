package catalog

import (
	"fmt"
	"strings"
)

// Field names one axis of a configuration.
type Field string

const (
	FieldModule        Field = "module"
	FieldInverter      Field = "inverter"
	FieldDCCollection  Field = "dcCollection"
	FieldDCCombination Field = "dcCombination"
)

// fieldOrder is the dependency order of the axes. A module choice constrains
// every downstream electrical choice, never the other way round.
var fieldOrder = [...]Field{FieldModule, FieldInverter, FieldDCCollection, FieldDCCombination}

var fieldAliases = map[string]Field{
	"module":         FieldModule,
	"inverter":       FieldInverter,
	"dccollection":   FieldDCCollection,
	"dc_collection":  FieldDCCollection,
	"dc-collection":  FieldDCCollection,
	"dccombination":  FieldDCCombination,
	"dc_combination": FieldDCCombination,
	"dc-combination": FieldDCCombination,
	"dccombo":        FieldDCCombination,
}

// Fields returns the configuration axes in dependency order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder[:])
	return out
}

// Index returns the position of the field in dependency order or -1.
func (f Field) Index() int {
	for i, candidate := range fieldOrder {
		if candidate == f {
			return i
		}
	}
	return -1
}

// Valid reports whether f is one of the four configuration axes.
func (f Field) Valid() bool {
	return f.Index() >= 0
}

// Label returns the wizard step title for the field.
func (f Field) Label() string {
	switch f {
	case FieldModule:
		return "Module"
	case FieldInverter:
		return "Inverter"
	case FieldDCCollection:
		return "DC Collection"
	case FieldDCCombination:
		return "DC Combination"
	default:
		return string(f)
	}
}

// ParseField resolves a raw field name, accepting snake, kebab and camel case.
func ParseField(raw string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if field, ok := fieldAliases[key]; ok {
		return field, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
}
