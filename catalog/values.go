package catalog

import (
	"fmt"
	"strings"
)

// ModuleType identifies a PV module product.
type ModuleType string

const (
	ModuleBifacial600   ModuleType = "bifacial-600"
	ModuleFirstSolar525 ModuleType = "first-solar-525"
)

// InverterArchitecture identifies how inverters are distributed over a block.
type InverterArchitecture string

const (
	InverterDistributed InverterArchitecture = "distributed"
	InverterCluster     InverterArchitecture = "cluster"
	InverterCentral     InverterArchitecture = "central"
)

// DCCollection identifies how strings are wired back from the rows.
type DCCollection string

const (
	CollectionHomeruns  DCCollection = "string-homeruns"
	CollectionHarnesses DCCollection = "harnesses"
	CollectionTrunkBus  DCCollection = "trunk-bus"
)

// DCCombination identifies the DC aggregation gear placed along a block.
type DCCombination string

const (
	CombinationNone     DCCombination = "none"
	CombinationCombiner DCCombination = "combiner"
	CombinationLBD      DCCombination = "lbd"
)

var (
	moduleTypes   = []ModuleType{ModuleBifacial600, ModuleFirstSolar525}
	inverterTypes = []InverterArchitecture{InverterDistributed, InverterCluster, InverterCentral}
	collections   = []DCCollection{CollectionHomeruns, CollectionHarnesses, CollectionTrunkBus}
	combinations  = []DCCombination{CombinationNone, CombinationCombiner, CombinationLBD}
	valueAliases  = map[Field]map[string]string{
		FieldModule: {
			"bifacial":        string(ModuleBifacial600),
			"bifacial-600":    string(ModuleBifacial600),
			"firstsolar":      string(ModuleFirstSolar525),
			"first-solar":     string(ModuleFirstSolar525),
			"first-solar-525": string(ModuleFirstSolar525),
		},
		FieldInverter: {
			"distributed":         string(InverterDistributed),
			"cluster":             string(InverterCluster),
			"centralized-cluster": string(InverterCluster),
			"central":             string(InverterCentral),
		},
		FieldDCCollection: {
			"string-homeruns": string(CollectionHomeruns),
			"homeruns":        string(CollectionHomeruns),
			"harnesses":       string(CollectionHarnesses),
			"harness":         string(CollectionHarnesses),
			"trunk-bus":       string(CollectionTrunkBus),
			"trunk":           string(CollectionTrunkBus),
		},
		FieldDCCombination: {
			"none":           string(CombinationNone),
			"combiner":       string(CombinationCombiner),
			"combiner-boxes": string(CombinationCombiner),
			"lbd":            string(CombinationLBD),
			"lbds":           string(CombinationLBD),
		},
	}
)

// ModuleTypes returns every module type in option order.
func ModuleTypes() []ModuleType { return append([]ModuleType(nil), moduleTypes...) }

// InverterArchitectures returns every inverter architecture in option order.
func InverterArchitectures() []InverterArchitecture {
	return append([]InverterArchitecture(nil), inverterTypes...)
}

// DCCollections returns every DC collection method in option order.
func DCCollections() []DCCollection { return append([]DCCollection(nil), collections...) }

// DCCombinations returns every DC combination gear in option order.
func DCCombinations() []DCCombination { return append([]DCCombination(nil), combinations...) }

func (m ModuleType) Valid() bool {
	for _, candidate := range moduleTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

func (i InverterArchitecture) Valid() bool {
	for _, candidate := range inverterTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

func (c DCCollection) Valid() bool {
	for _, candidate := range collections {
		if candidate == c {
			return true
		}
	}
	return false
}

func (c DCCombination) Valid() bool {
	for _, candidate := range combinations {
		if candidate == c {
			return true
		}
	}
	return false
}

// AllValues returns the closed enumeration of a field in option order.
func AllValues(field Field) []string {
	var out []string
	switch field {
	case FieldModule:
		for _, v := range moduleTypes {
			out = append(out, string(v))
		}
	case FieldInverter:
		for _, v := range inverterTypes {
			out = append(out, string(v))
		}
	case FieldDCCollection:
		for _, v := range collections {
			out = append(out, string(v))
		}
	case FieldDCCombination:
		for _, v := range combinations {
			out = append(out, string(v))
		}
	}
	return out
}

// ParseValue resolves a raw option value for a field to its canonical form.
// Identifiers used by earlier catalog revisions are accepted as aliases.
func ParseValue(field Field, raw string) (string, error) {
	aliases, ok := valueAliases[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	key := strings.ToLower(strings.TrimSpace(raw))
	if value, ok := aliases[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("%w: %s %q", ErrInvalidFieldValue, field, raw)
}

// ParseModuleType resolves a module identifier or alias.
func ParseModuleType(raw string) (ModuleType, error) {
	v, err := ParseValue(FieldModule, raw)
	return ModuleType(v), err
}

// ParseInverterArchitecture resolves an inverter identifier or alias.
func ParseInverterArchitecture(raw string) (InverterArchitecture, error) {
	v, err := ParseValue(FieldInverter, raw)
	return InverterArchitecture(v), err
}

// ParseDCCollection resolves a DC collection identifier or alias.
func ParseDCCollection(raw string) (DCCollection, error) {
	v, err := ParseValue(FieldDCCollection, raw)
	return DCCollection(v), err
}

// ParseDCCombination resolves a DC combination identifier or alias.
func ParseDCCombination(raw string) (DCCombination, error) {
	v, err := ParseValue(FieldDCCombination, raw)
	return DCCombination(v), err
}

func optionRank(field Field, value string) int {
	for i, candidate := range AllValues(field) {
		if candidate == value {
			return i
		}
	}
	return len(AllValues(field))
}
