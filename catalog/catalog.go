// Package catalog holds the closed table of electrically valid site
// configurations together with the module and inverter metadata the layout
// engine needs. A Catalog is immutable once constructed.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Class is the performance/cost class of a configuration.
type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
)

// Entry is one valid configuration tuple.
type Entry struct {
	ID            string               `json:"id" yaml:"id"`
	Class         Class                `json:"class" yaml:"class"`
	Module        ModuleType           `json:"module" yaml:"module"`
	Inverter      InverterArchitecture `json:"inverter" yaml:"inverter"`
	DCCollection  DCCollection         `json:"dc_collection" yaml:"dc_collection"`
	DCCombination DCCombination        `json:"dc_combination" yaml:"dc_combination"`
}

// Value returns the entry's value on the given axis.
func (e Entry) Value(field Field) string {
	switch field {
	case FieldModule:
		return string(e.Module)
	case FieldInverter:
		return string(e.Inverter)
	case FieldDCCollection:
		return string(e.DCCollection)
	case FieldDCCombination:
		return string(e.DCCombination)
	default:
		return ""
	}
}

func (e Entry) tuple() string {
	return strings.Join([]string{string(e.Module), string(e.Inverter), string(e.DCCollection), string(e.DCCombination)}, "/")
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.ID, e.tuple())
}

// Definition is the raw material a Catalog is built from.
type Definition struct {
	Name      string
	Entries   []Entry
	Modules   map[ModuleType]ModuleSpec
	Inverters map[InverterArchitecture]InverterSpec
	Rules     []Rule
}

// Catalog is the single source of truth for which tuples are valid.
type Catalog struct {
	name      string
	entries   []Entry
	byID      map[string]int
	modules   map[ModuleType]ModuleSpec
	inverters map[InverterArchitecture]InverterSpec
	rules     []CompiledRule
}

// New validates a definition and builds an immutable catalog.
func New(def Definition) (*Catalog, error) {
	modules := def.Modules
	if modules == nil {
		modules = DefaultModules()
	}
	inverters := def.Inverters
	if inverters == nil {
		inverters = DefaultInverters()
	}
	rules, err := CompileRules(def.Rules)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		name:      def.Name,
		entries:   make([]Entry, 0, len(def.Entries)),
		byID:      make(map[string]int, len(def.Entries)),
		modules:   make(map[ModuleType]ModuleSpec, len(modules)),
		inverters: make(map[InverterArchitecture]InverterSpec, len(inverters)),
		rules:     rules,
	}
	for k, v := range modules {
		if v.StringLength <= 0 || v.Height <= 0 || v.Wattage <= 0 {
			return nil, fmt.Errorf("module %s: string length, height and wattage must be positive", k)
		}
		cat.modules[k] = v
	}
	for k, v := range inverters {
		if v.InvPer <= 0 {
			return nil, fmt.Errorf("inverter %s: inv_per must be positive", k)
		}
		cat.inverters[k] = v
	}

	tuples := make(map[string]string, len(def.Entries))
	for idx, entry := range def.Entries {
		if strings.TrimSpace(entry.ID) == "" {
			return nil, fmt.Errorf("entry %d: id must not be empty", idx)
		}
		if err := validateEntry(entry); err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
		}
		if _, ok := cat.modules[entry.Module]; !ok {
			return nil, fmt.Errorf("entry %s: %w: module %s", entry.ID, ErrMissingMetadata, entry.Module)
		}
		if _, ok := cat.inverters[entry.Inverter]; !ok {
			return nil, fmt.Errorf("entry %s: %w: inverter %s", entry.ID, ErrMissingMetadata, entry.Inverter)
		}
		if _, exists := cat.byID[entry.ID]; exists {
			return nil, fmt.Errorf("%w: id %s", ErrDuplicateEntry, entry.ID)
		}
		if other, exists := tuples[entry.tuple()]; exists {
			return nil, fmt.Errorf("%w: %s and %s share %s", ErrDuplicateEntry, other, entry.ID, entry.tuple())
		}
		tuples[entry.tuple()] = entry.ID
		cat.byID[entry.ID] = len(cat.entries)
		cat.entries = append(cat.entries, entry)
	}

	if violations := Check(cat.entries, rules); len(violations) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrRuleViolation, violations[0])
	}
	return cat, nil
}

// MustNew is New for built-in definitions; it panics on invalid input.
func MustNew(def Definition) *Catalog {
	cat, err := New(def)
	if err != nil {
		panic(fmt.Sprintf("catalog %s: %v", def.Name, err))
	}
	return cat
}

func validateEntry(entry Entry) error {
	if !entry.Module.Valid() {
		return fmt.Errorf("%w: module %q", ErrInvalidFieldValue, entry.Module)
	}
	if !entry.Inverter.Valid() {
		return fmt.Errorf("%w: inverter %q", ErrInvalidFieldValue, entry.Inverter)
	}
	if !entry.DCCollection.Valid() {
		return fmt.Errorf("%w: dcCollection %q", ErrInvalidFieldValue, entry.DCCollection)
	}
	if !entry.DCCombination.Valid() {
		return fmt.Errorf("%w: dcCombination %q", ErrInvalidFieldValue, entry.DCCombination)
	}
	switch entry.Class {
	case ClassA, ClassB, ClassC:
	default:
		return fmt.Errorf("%w: class %q", ErrInvalidFieldValue, entry.Class)
	}
	return nil
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in declaration order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Each calls fn for every entry in declaration order without copying.
func (c *Catalog) Each(fn func(Entry)) {
	for _, entry := range c.entries {
		fn(entry)
	}
}

// Lookup returns the entry with the given id.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Contains reports whether entry is exactly one of the catalog's entries.
func (c *Catalog) Contains(entry Entry) bool {
	existing, ok := c.Lookup(entry.ID)
	return ok && existing == entry
}

// Module returns the specification of a module type.
func (c *Catalog) Module(m ModuleType) (ModuleSpec, bool) {
	spec, ok := c.modules[m]
	return spec, ok
}

// Inverter returns the specification of an inverter architecture.
func (c *Catalog) Inverter(i InverterArchitecture) (InverterSpec, bool) {
	spec, ok := c.inverters[i]
	return spec, ok
}

// Rules returns the compiled rules the catalog was validated against.
func (c *Catalog) Rules() []CompiledRule {
	return append([]CompiledRule(nil), c.rules...)
}

// Values returns the projection of the catalog onto a field in option order.
func (c *Catalog) Values(field Field) []string {
	seen := make(map[string]struct{})
	for _, entry := range c.entries {
		seen[entry.Value(field)] = struct{}{}
	}
	return SortValues(field, seen)
}

// SortValues orders a value set by the field's option order.
func SortValues(field Field, set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return optionRank(field, out[i]) < optionRank(field, out[j])
	})
	return out
}

// Option returns display metadata for a field value.
func (c *Catalog) Option(field Field, value string) Option {
	switch field {
	case FieldModule:
		if spec, ok := c.modules[ModuleType(value)]; ok {
			return Option{Value: value, Name: spec.Name, Sub: spec.Sub}
		}
	case FieldInverter:
		if spec, ok := c.inverters[InverterArchitecture(value)]; ok {
			return Option{Value: value, Name: spec.Name, Sub: spec.Sub}
		}
	default:
		if opt, ok := valueLabels[field][value]; ok {
			return opt
		}
	}
	return Option{Value: value, Name: value}
}

// Ordinal returns the 1-based position of an entry among the entries sharing
// its module, and the number of such entries. It returns 0, 0 for entries not
// in the catalog.
func (c *Catalog) Ordinal(entry Entry) (int, int) {
	if !c.Contains(entry) {
		return 0, 0
	}
	position, total := 0, 0
	for _, candidate := range c.entries {
		if candidate.Module != entry.Module {
			continue
		}
		total++
		if candidate.ID == entry.ID {
			position = total
		}
	}
	return position, total
}
