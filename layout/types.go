package layout

import (
	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/spatial"
)

// NoBlock is the block id of equipment that belongs to no block.
const NoBlock = -1

// EquipmentType tags a placed piece of equipment.
type EquipmentType string

const (
	EquipmentCombiner        EquipmentType = "combiner"
	EquipmentLBD             EquipmentType = "lbd"
	EquipmentStringInverter  EquipmentType = "string-inverter"
	EquipmentClusterInverter EquipmentType = "cluster-inverter"
	EquipmentCentralInverter EquipmentType = "central-inverter"
	EquipmentMVTransformer   EquipmentType = "mv-transformer"
	EquipmentSubstation      EquipmentType = "substation"
)

// CableType tags a cable run.
type CableType string

const (
	CableHomerun CableType = "homerun"
	CableHarness CableType = "harness"
	CableTrunk   CableType = "trunk"
	CableDrop    CableType = "drop"
	CableAC      CableType = "ac"
	CableMV      CableType = "mv"
)

// Row is one tracker row.
type Row struct {
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	Length     float64 `json:"length" yaml:"length"`
	Modules    int     `json:"modules" yaml:"modules"`
	Strings    int     `json:"strings" yaml:"strings"`
	Posts      int     `json:"posts" yaml:"posts"`
	DriveIndex int     `json:"drive_index" yaml:"drive_index"`
	Block      int     `json:"block" yaml:"block"`
}

// Equipment is a placed piece of electrical gear.
type Equipment struct {
	Type  EquipmentType `json:"type" yaml:"type"`
	X     float64       `json:"x" yaml:"x"`
	Y     float64       `json:"y" yaml:"y"`
	Block int           `json:"block" yaml:"block"`
}

// CableRun is a straight cable between two points.
type CableRun struct {
	Type CableType `json:"type" yaml:"type"`
	X1   float64   `json:"x1" yaml:"x1"`
	Y1   float64   `json:"y1" yaml:"y1"`
	X2   float64   `json:"x2" yaml:"x2"`
	Y2   float64   `json:"y2" yaml:"y2"`
}

// Road is the access road footprint around a block.
type Road struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Stats aggregates the layout.
type Stats struct {
	TotalModules    int     `json:"total_modules" yaml:"total_modules"`
	TotalStrings    int     `json:"total_strings" yaml:"total_strings"`
	TotalMW         float64 `json:"total_mw" yaml:"total_mw"`
	InverterCount   int     `json:"inverter_count" yaml:"inverter_count"`
	RowKW           float64 `json:"row_kw" yaml:"row_kw"`
	BlockKW         float64 `json:"block_kw" yaml:"block_kw"`
	ModulesPerRow   int     `json:"modules_per_row" yaml:"modules_per_row"`
	StringsPerRow   int     `json:"strings_per_row" yaml:"strings_per_row"`
	ActualRowLength float64 `json:"actual_row_length" yaml:"actual_row_length"`
	PostsPerRow     int     `json:"posts_per_row" yaml:"posts_per_row"`
}

// Bounds is the overall site footprint.
type Bounds struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Grid describes the block arrangement.
type Grid struct {
	Columns     int     `json:"columns" yaml:"columns"`
	Rows        int     `json:"rows" yaml:"rows"`
	BlockWidth  float64 `json:"block_width" yaml:"block_width"`
	BlockHeight float64 `json:"block_height" yaml:"block_height"`
}

// Layout is the complete derived site. It is built in one call and never
// modified afterwards.
type Layout struct {
	EntryID   string                       `json:"entry_id" yaml:"entry_id"`
	Class     catalog.Class                `json:"class" yaml:"class"`
	Module    catalog.ModuleType           `json:"module" yaml:"module"`
	Inverter  catalog.InverterArchitecture `json:"inverter" yaml:"inverter"`
	Params    spatial.Params               `json:"params" yaml:"params"`
	Hierarchy []string                     `json:"hierarchy" yaml:"hierarchy"`
	Rows      []Row                        `json:"rows" yaml:"rows"`
	Equipment []Equipment                  `json:"equipment" yaml:"equipment"`
	Cables    []CableRun                   `json:"cables" yaml:"cables"`
	Roads     []Road                       `json:"roads" yaml:"roads"`
	Grid      Grid                         `json:"grid" yaml:"grid"`
	Stats     Stats                        `json:"stats" yaml:"stats"`
	Bounds    Bounds                       `json:"bounds" yaml:"bounds"`
}

// CountEquipment returns the number of placed items of type t.
func (l *Layout) CountEquipment(t EquipmentType) int {
	n := 0
	for _, eq := range l.Equipment {
		if eq.Type == t {
			n++
		}
	}
	return n
}

// CountCables returns the number of cable runs of type t.
func (l *Layout) CountCables(t CableType) int {
	n := 0
	for _, c := range l.Cables {
		if c.Type == t {
			n++
		}
	}
	return n
}

// BlockRows returns the rows owned by block b.
func (l *Layout) BlockRows(b int) []Row {
	var out []Row
	for _, r := range l.Rows {
		if r.Block == b {
			out = append(out, r)
		}
	}
	return out
}
