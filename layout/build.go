// Package layout derives a complete tracker site from a matched catalog entry
// and a set of clamped spatial parameters.
package layout

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/spatial"
)

const (
	blockMargin     = 4.0
	blockGap        = 9.0
	roadOffset      = 3.0
	substationDepth = 12.0
	boundsMargin    = 25.0
	aggregateEvery  = 4
	mvEdgeOffset    = 1.5
	acRunLength     = 4.0
	minPosts        = 3
)

var (
	moduleGap = decimal.RequireFromString("0.02")
	thousand  = decimal.NewFromInt(1000)
)

// rowFit is the per-row arithmetic shared by every row of a layout.
type rowFit struct {
	stringsPerRow int
	modules       int
	length        decimal.Decimal
	posts         int
	driveIndex    int
	rowKW         decimal.Decimal
}

func fitRow(mod catalog.ModuleSpec, p spatial.Params) rowFit {
	modStep := decimal.NewFromFloat(mod.Height).Add(moduleGap)
	raw, _ := decimal.NewFromFloat(p.RowLength).QuoRem(modStep, 0)
	spr := int(raw.IntPart()) / mod.StringLength
	am := spr * mod.StringLength
	al := modStep.Mul(decimal.NewFromInt(int64(am)))

	spans, _ := al.QuoRem(decimal.NewFromFloat(p.PostSpacing), 0)
	posts := int(spans.IntPart()) + 1
	if posts < minPosts {
		posts = minPosts
	}
	return rowFit{
		stringsPerRow: spr,
		modules:       am,
		length:        al,
		posts:         posts,
		driveIndex:    posts / 2,
		rowKW:         decimal.NewFromInt(int64(am)).Mul(decimal.NewFromFloat(mod.Wattage)).Div(thousand),
	}
}

// corridorWidth falls back to the built-in widths when the catalog metadata
// leaves it unset.
func corridorWidth(inv catalog.InverterSpec) float64 {
	if inv.CorridorWidth > 0 {
		return inv.CorridorWidth
	}
	if spec, ok := catalog.DefaultInverters()[inv.Architecture]; ok {
		return spec.CorridorWidth
	}
	return 0
}

func inverterCount(arch catalog.InverterArchitecture, invPer, blockRows, blockCount int) int {
	if arch == catalog.InverterCentral {
		return blockCount
	}
	return blockCount * ceilDiv(blockRows, invPer)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Build computes the layout for entry under params. The entry must belong to
// cat and params must already be clamped; anything else is a programming
// error and panics.
func Build(cat *catalog.Catalog, entry catalog.Entry, params spatial.Params) *Layout {
	if !cat.Contains(entry) {
		panic(fmt.Sprintf("layout: entry %s is not part of catalog %q", entry, cat.Name()))
	}
	if !params.InRange() {
		panic(fmt.Sprintf("layout: spatial parameters out of range: %s", params))
	}
	mod, _ := cat.Module(entry.Module)
	inv, _ := cat.Inverter(entry.Inverter)

	fit := fitRow(mod, params)
	al := fit.length.InexactFloat64()
	pitch := params.RowPitch
	blockRows, blockCount := params.BlockRows, params.BlockCount

	bW := al + corridorWidth(inv) + blockMargin
	bH := float64(blockRows) * pitch
	cols := int(math.Ceil(math.Sqrt(float64(blockCount))))
	gridRows := ceilDiv(blockCount, cols)

	out := &Layout{
		EntryID:   entry.ID,
		Class:     entry.Class,
		Module:    entry.Module,
		Inverter:  entry.Inverter,
		Params:    params,
		Hierarchy: Hierarchy(entry),
		Rows:      make([]Row, 0, blockRows*blockCount),
		Roads:     make([]Road, 0, blockCount),
		Grid:      Grid{Columns: cols, Rows: gridRows, BlockWidth: bW, BlockHeight: bH},
	}

	for bi := 0; bi < blockCount; bi++ {
		bx := float64(bi%cols) * (bW + blockGap)
		by := float64(bi/cols) * (bH + blockGap)
		out.Roads = append(out.Roads, Road{
			X:      bx - roadOffset,
			Y:      by - roadOffset,
			Width:  bW + 2*roadOffset,
			Height: bH + 2*roadOffset,
		})

		for ri := 0; ri < blockRows; ri++ {
			ry := by + float64(ri)*pitch
			out.Rows = append(out.Rows, Row{
				X:          bx,
				Y:          ry,
				Length:     al,
				Modules:    fit.modules,
				Strings:    fit.stringsPerRow,
				Posts:      fit.posts,
				DriveIndex: fit.driveIndex,
				Block:      bi,
			})
			out.emitCollection(entry, bi, ri, bx, by, al, pitch, blockRows)
		}

		out.placeInverters(entry.Inverter, inv.InvPer, bi, bx, by, al, bH, pitch, blockRows)

		mvY := by + bH + mvEdgeOffset
		out.Cables = append(out.Cables, CableRun{Type: CableMV, X1: bx - roadOffset, Y1: mvY, X2: bx + bW + roadOffset, Y2: mvY})
	}

	subX := float64(cols) * (bW + blockGap) / 2
	subY := float64(gridRows)*(bH+blockGap) + substationDepth
	out.Equipment = append(out.Equipment, Equipment{Type: EquipmentSubstation, X: subX, Y: subY, Block: NoBlock})
	for g := 0; g < cols; g++ {
		x := float64(g)*(bW+blockGap) + bW/2
		out.Cables = append(out.Cables, CableRun{Type: CableMV, X1: x, Y1: 0, X2: x, Y2: subY})
	}

	out.Stats = computeStats(fit, entry.Inverter, inv.InvPer, blockRows, blockCount)
	out.Bounds = Bounds{
		Width:  float64(cols) * (bW + blockGap),
		Height: float64(gridRows)*(bH+blockGap) + boundsMargin,
	}
	return out
}

// emitCollection adds the DC cabling of one row and, on aggregation rows, the
// combiner or LBD serving it.
func (l *Layout) emitCollection(entry catalog.Entry, bi, ri int, bx, by, al, pitch float64, blockRows int) {
	ry := by + float64(ri)*pitch
	aggregate := ri%aggregateEvery == aggregateEvery-1 || ri == blockRows-1
	gearX := bx + al + 2
	gearY := ry - float64(min(aggregateEvery-1, ri%aggregateEvery))*pitch/2

	switch {
	case entry.DCCollection == catalog.CollectionHarnesses || entry.DCCombination == catalog.CombinationCombiner:
		l.Cables = append(l.Cables, CableRun{Type: CableHarness, X1: bx, Y1: ry, X2: bx + al, Y2: ry})
		if !aggregate {
			return
		}
		l.Equipment = append(l.Equipment, Equipment{Type: EquipmentCombiner, X: gearX, Y: gearY, Block: bi})
		for d := max(0, ri-(aggregateEvery-1)); d <= ri; d++ {
			l.Cables = append(l.Cables, CableRun{Type: CableDrop, X1: bx + al, Y1: by + float64(d)*pitch, X2: gearX, Y2: gearY})
		}
	case entry.DCCollection == catalog.CollectionTrunkBus || entry.DCCombination == catalog.CombinationLBD:
		l.Cables = append(l.Cables, CableRun{Type: CableTrunk, X1: bx, Y1: ry, X2: bx + al, Y2: ry})
		if aggregate {
			l.Equipment = append(l.Equipment, Equipment{Type: EquipmentLBD, X: gearX, Y: gearY, Block: bi})
		}
	default:
		l.Cables = append(l.Cables, CableRun{Type: CableHomerun, X1: bx, Y1: ry, X2: bx + al, Y2: ry})
	}
}

func (l *Layout) placeInverters(arch catalog.InverterArchitecture, invPer, bi int, bx, by, al, bH, pitch float64, blockRows int) {
	switch arch {
	case catalog.InverterDistributed:
		x := bx + al + 2
		for ri := 0; ri < blockRows; ri += invPer {
			y := by + (float64(ri)+float64(min(invPer-1, blockRows-ri-1))/2)*pitch
			l.Equipment = append(l.Equipment, Equipment{Type: EquipmentStringInverter, X: x, Y: y, Block: bi})
			l.Cables = append(l.Cables, CableRun{Type: CableAC, X1: x, Y1: y, X2: x + acRunLength, Y2: y})
		}
	case catalog.InverterCluster:
		x := bx + al + 5
		for ci := 0; ci < ceilDiv(blockRows, invPer); ci++ {
			first := ci * invPer
			y := by + (float64(first)+float64(min(invPer, blockRows-first))/2)*pitch
			l.Equipment = append(l.Equipment, Equipment{Type: EquipmentClusterInverter, X: x, Y: y, Block: bi})
			l.Cables = append(l.Cables, CableRun{Type: CableAC, X1: x, Y1: y, X2: x + acRunLength, Y2: y})
		}
	default:
		x, y := bx+al+6, by+bH/2
		l.Equipment = append(l.Equipment,
			Equipment{Type: EquipmentCentralInverter, X: x, Y: y, Block: bi},
			Equipment{Type: EquipmentMVTransformer, X: x, Y: y + 6, Block: bi},
		)
		l.Cables = append(l.Cables, CableRun{Type: CableAC, X1: x, Y1: y, X2: x, Y2: y + 6})
	}
}

func computeStats(fit rowFit, arch catalog.InverterArchitecture, invPer, blockRows, blockCount int) Stats {
	blockKW := fit.rowKW.Mul(decimal.NewFromInt(int64(blockRows)))
	totalMW := blockKW.Mul(decimal.NewFromInt(int64(blockCount))).Div(thousand)
	rowsTotal := blockRows * blockCount
	return Stats{
		TotalModules:    fit.modules * rowsTotal,
		TotalStrings:    fit.stringsPerRow * rowsTotal,
		TotalMW:         totalMW.InexactFloat64(),
		InverterCount:   inverterCount(arch, invPer, blockRows, blockCount),
		RowKW:           fit.rowKW.InexactFloat64(),
		BlockKW:         blockKW.InexactFloat64(),
		ModulesPerRow:   fit.modules,
		StringsPerRow:   fit.stringsPerRow,
		ActualRowLength: fit.length.InexactFloat64(),
		PostsPerRow:     fit.posts,
	}
}
