package resolver

import (
	"fmt"
	"strings"

	"github.com/timzifer/ebos/catalog"
)

// Selection is a partial configuration. The zero value of a field means the
// field is unset.
type Selection struct {
	Module        catalog.ModuleType           `json:"module,omitempty" yaml:"module,omitempty"`
	Inverter      catalog.InverterArchitecture `json:"inverter,omitempty" yaml:"inverter,omitempty"`
	DCCollection  catalog.DCCollection         `json:"dc_collection,omitempty" yaml:"dc_collection,omitempty"`
	DCCombination catalog.DCCombination        `json:"dc_combination,omitempty" yaml:"dc_combination,omitempty"`
}

// Reset returns the empty selection.
func Reset() Selection { return Selection{} }

// Get returns the value assigned to a field or "".
func (s Selection) Get(field catalog.Field) string {
	switch field {
	case catalog.FieldModule:
		return string(s.Module)
	case catalog.FieldInverter:
		return string(s.Inverter)
	case catalog.FieldDCCollection:
		return string(s.DCCollection)
	case catalog.FieldDCCombination:
		return string(s.DCCombination)
	default:
		return ""
	}
}

// With returns a copy of s with field set to value. An empty value clears it.
func (s Selection) With(field catalog.Field, value string) Selection {
	switch field {
	case catalog.FieldModule:
		s.Module = catalog.ModuleType(value)
	case catalog.FieldInverter:
		s.Inverter = catalog.InverterArchitecture(value)
	case catalog.FieldDCCollection:
		s.DCCollection = catalog.DCCollection(value)
	case catalog.FieldDCCombination:
		s.DCCombination = catalog.DCCombination(value)
	}
	return s
}

// IsSet reports whether field carries a value.
func (s Selection) IsSet(field catalog.Field) bool {
	return s.Get(field) != ""
}

// Count returns the number of assigned fields.
func (s Selection) Count() int {
	n := 0
	for _, f := range catalog.Fields() {
		if s.IsSet(f) {
			n++
		}
	}
	return n
}

// Complete reports whether all four fields are assigned.
func (s Selection) Complete() bool {
	return s.Count() == len(catalog.Fields())
}

// Matches reports whether entry agrees with every assigned field.
func (s Selection) Matches(entry catalog.Entry) bool {
	return s.matchesExcept(entry, "")
}

func (s Selection) matchesExcept(entry catalog.Entry, skip catalog.Field) bool {
	for _, f := range catalog.Fields() {
		if f == skip {
			continue
		}
		if v := s.Get(f); v != "" && v != entry.Value(f) {
			return false
		}
	}
	return true
}

func (s Selection) String() string {
	parts := make([]string, 0, len(catalog.Fields()))
	for _, f := range catalog.Fields() {
		v := s.Get(f)
		if v == "" {
			v = "-"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", f, v))
	}
	return strings.Join(parts, " ")
}

// CurrentStep returns the first unset field in dependency order. The second
// result is false once every field is set.
func CurrentStep(s Selection) (catalog.Field, bool) {
	for _, f := range catalog.Fields() {
		if !s.IsSet(f) {
			return f, true
		}
	}
	return "", false
}
