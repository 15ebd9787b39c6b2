package catalog

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// PresetSite is the default catalog of thirteen site configurations.
	PresetSite = "site"
	// PresetEBOS is the ten-entry electrical balance-of-system designer catalog.
	PresetEBOS = "ebos"
)

var (
	ruleLBDNeedsTrunk = Rule{
		ID:          "lbd-needs-trunk",
		Description: "No LBDs without trunk bus",
		Expression:  `dcCombination != "lbd" || dcCollection == "trunk-bus"`,
	}
	ruleTrunkEndsInLBD = Rule{
		ID:          "no-harness-trunk-mix",
		Description: "No harness and trunk bus mixing",
		Expression:  `dcCollection != "trunk-bus" || dcCombination == "lbd"`,
	}
	ruleNoFirstSolarHomeruns = Rule{
		ID:          "no-first-solar-homeruns",
		Description: "No string homeruns for First Solar",
		Expression:  `module != "first-solar-525" || dcCollection != "string-homeruns"`,
	}
	ruleDistributedNoGear = Rule{
		ID:          "distributed-no-dc-gear",
		Description: "No DC equipment inline with trackers",
		Expression:  `inverter != "distributed" || dcCombination == "none"`,
	}
	ruleCentralizedNeedsGear = Rule{
		ID:          "centralized-needs-dc-gear",
		Description: "Cluster and central inverters aggregate DC before the inverter",
		Expression:  `inverter == "distributed" || dcCombination != "none"`,
	}
)

var presets = map[string]func() Definition{
	PresetSite: siteDefinition,
	PresetEBOS: ebosDefinition,
}

func siteDefinition() Definition {
	return Definition{
		Name: PresetSite,
		Entries: []Entry{
			{ID: "B1", Class: ClassA, Module: ModuleBifacial600, Inverter: InverterDistributed, DCCollection: CollectionHomeruns, DCCombination: CombinationNone},
			{ID: "B2", Class: ClassB, Module: ModuleBifacial600, Inverter: InverterCluster, DCCollection: CollectionHomeruns, DCCombination: CombinationCombiner},
			{ID: "B3", Class: ClassC, Module: ModuleBifacial600, Inverter: InverterCentral, DCCollection: CollectionHomeruns, DCCombination: CombinationCombiner},
			{ID: "B4", Class: ClassA, Module: ModuleBifacial600, Inverter: InverterDistributed, DCCollection: CollectionHarnesses, DCCombination: CombinationNone},
			{ID: "B5", Class: ClassB, Module: ModuleBifacial600, Inverter: InverterCluster, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
			{ID: "B6", Class: ClassC, Module: ModuleBifacial600, Inverter: InverterCentral, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
			{ID: "B7", Class: ClassB, Module: ModuleBifacial600, Inverter: InverterCluster, DCCollection: CollectionTrunkBus, DCCombination: CombinationLBD},
			{ID: "B8", Class: ClassC, Module: ModuleBifacial600, Inverter: InverterCentral, DCCollection: CollectionTrunkBus, DCCombination: CombinationLBD},
			{ID: "FS1", Class: ClassA, Module: ModuleFirstSolar525, Inverter: InverterDistributed, DCCollection: CollectionHarnesses, DCCombination: CombinationNone},
			{ID: "FS2", Class: ClassB, Module: ModuleFirstSolar525, Inverter: InverterCluster, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
			{ID: "FS3", Class: ClassC, Module: ModuleFirstSolar525, Inverter: InverterCentral, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
			{ID: "FS4", Class: ClassB, Module: ModuleFirstSolar525, Inverter: InverterCluster, DCCollection: CollectionTrunkBus, DCCombination: CombinationLBD},
			{ID: "FS5", Class: ClassC, Module: ModuleFirstSolar525, Inverter: InverterCentral, DCCollection: CollectionTrunkBus, DCCombination: CombinationLBD},
		},
		Rules: []Rule{ruleLBDNeedsTrunk, ruleTrunkEndsInLBD, ruleNoFirstSolarHomeruns, ruleDistributedNoGear, ruleCentralizedNeedsGear},
	}
}

func ebosDefinition() Definition {
	return Definition{
		Name: PresetEBOS,
		Entries: []Entry{
			{ID: "B1", Class: ClassA, Module: ModuleBifacial600, Inverter: InverterDistributed, DCCollection: CollectionHomeruns, DCCombination: CombinationNone},
			{ID: "B2", Class: ClassB, Module: ModuleBifacial600, Inverter: InverterCluster, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
			{ID: "B3", Class: ClassC, Module: ModuleBifacial600, Inverter: InverterCentral, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
			{ID: "B7", Class: ClassB, Module: ModuleBifacial600, Inverter: InverterCluster, DCCollection: CollectionTrunkBus, DCCombination: CombinationLBD},
			{ID: "B8", Class: ClassC, Module: ModuleBifacial600, Inverter: InverterCentral, DCCollection: CollectionTrunkBus, DCCombination: CombinationLBD},
			{ID: "FS1", Class: ClassA, Module: ModuleFirstSolar525, Inverter: InverterDistributed, DCCollection: CollectionHomeruns, DCCombination: CombinationNone},
			{ID: "FS2", Class: ClassB, Module: ModuleFirstSolar525, Inverter: InverterCluster, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
			{ID: "FS3", Class: ClassC, Module: ModuleFirstSolar525, Inverter: InverterCentral, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
			{ID: "FS4", Class: ClassB, Module: ModuleFirstSolar525, Inverter: InverterCluster, DCCollection: CollectionTrunkBus, DCCombination: CombinationLBD},
			{ID: "FS5", Class: ClassC, Module: ModuleFirstSolar525, Inverter: InverterCentral, DCCollection: CollectionTrunkBus, DCCombination: CombinationLBD},
		},
		Rules: []Rule{ruleLBDNeedsTrunk, ruleTrunkEndsInLBD, ruleDistributedNoGear, ruleCentralizedNeedsGear},
	}
}

var defaultCatalog = MustNew(siteDefinition())

// Default returns the built-in site catalog.
func Default() *Catalog { return defaultCatalog }

// PresetNames lists the built-in catalog presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetDefinition returns a fresh copy of a built-in definition so callers
// can extend it with additional rules or metadata before calling New.
func PresetDefinition(name string) (Definition, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = PresetSite
	}
	build, ok := presets[key]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return build(), nil
}

// Preset builds a built-in catalog by name. The empty name selects the site preset.
func Preset(name string) (*Catalog, error) {
	def, err := PresetDefinition(name)
	if err != nil {
		return nil, err
	}
	return New(def)
}
