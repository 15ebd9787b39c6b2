package catalog

// ModuleSpec holds the electrical and physical data of a module type.
type ModuleSpec struct {
	Type         ModuleType `json:"type" yaml:"type"`
	Name         string     `json:"name" yaml:"name"`
	Sub          string     `json:"sub,omitempty" yaml:"sub,omitempty"`
	Wattage      float64    `json:"wattage" yaml:"wattage"`
	Width        float64    `json:"width" yaml:"width"`
	Height       float64    `json:"height" yaml:"height"`
	StringLength int        `json:"string_length" yaml:"string_length"`
}

// InverterSpec holds the grouping data of an inverter architecture.
type InverterSpec struct {
	Architecture InverterArchitecture `json:"architecture" yaml:"architecture"`
	Name         string               `json:"name" yaml:"name"`
	Sub          string               `json:"sub,omitempty" yaml:"sub,omitempty"`
	// InvPer is the number of rows one inverter unit is sized to serve.
	InvPer int `json:"inv_per" yaml:"inv_per"`
	// CorridorWidth is the width in metres of the equipment corridor beside a block.
	CorridorWidth float64 `json:"corridor_width" yaml:"corridor_width"`
}

// Option describes one selectable value for display.
type Option struct {
	Value string `json:"value"`
	Name  string `json:"name"`
	Sub   string `json:"sub,omitempty"`
}

// DefaultModules returns the built-in module specifications.
func DefaultModules() map[ModuleType]ModuleSpec {
	return map[ModuleType]ModuleSpec{
		ModuleBifacial600: {
			Type:         ModuleBifacial600,
			Name:         "Bifacial 600W",
			Sub:          "28 mods/string",
			Wattage:      600,
			Width:        1.134,
			Height:       2.278,
			StringLength: 28,
		},
		ModuleFirstSolar525: {
			Type:         ModuleFirstSolar525,
			Name:         "First Solar 525W",
			Sub:          "6 mods/string",
			Wattage:      525,
			Width:        1.2,
			Height:       2.0,
			StringLength: 6,
		},
	}
}

// DefaultInverters returns the built-in inverter specifications.
func DefaultInverters() map[InverterArchitecture]InverterSpec {
	return map[InverterArchitecture]InverterSpec{
		InverterDistributed: {
			Architecture:  InverterDistributed,
			Name:          "Distributed String Inverters",
			Sub:           "Inverters located at the array",
			InvPer:        3,
			CorridorWidth: 3,
		},
		InverterCluster: {
			Architecture:  InverterCluster,
			Name:          "Centralized String Inverter Clusters",
			Sub:           "Inverters grouped in clusters",
			InvPer:        8,
			CorridorWidth: 7,
		},
		InverterCentral: {
			Architecture:  InverterCentral,
			Name:          "Central Inverters",
			Sub:           "Central inverter stations",
			InvPer:        16,
			CorridorWidth: 10,
		},
	}
}

var valueLabels = map[Field]map[string]Option{
	FieldDCCollection: {
		string(CollectionHomeruns):  {Value: string(CollectionHomeruns), Name: "String Homeruns", Sub: "Direct wire runs from each string"},
		string(CollectionHarnesses): {Value: string(CollectionHarnesses), Name: "Harnesses", Sub: "Pre-assembled harness cabling"},
		string(CollectionTrunkBus):  {Value: string(CollectionTrunkBus), Name: "Trunk Bus", Sub: "Trunk cable with drop lines"},
	},
	FieldDCCombination: {
		string(CombinationNone):     {Value: string(CombinationNone), Name: "None", Sub: "No DC combination gear"},
		string(CombinationCombiner): {Value: string(CombinationCombiner), Name: "Combiner Boxes", Sub: "Combine string outputs"},
		string(CombinationLBD):      {Value: string(CombinationLBD), Name: "LBD's", Sub: "Load break disconnects"},
	},
}
