package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/layout"
)

// Layout writes a layout. The text format prints a summary; JSON and YAML
// carry every row, cable and piece of equipment.
func Layout(w io.Writer, cat *catalog.Catalog, l *layout.Layout, format Format, opts Options) error {
	if format != FormatText {
		return encode(w, format, l)
	}
	p := newPrinter(w, opts)
	entry, _ := cat.Lookup(l.EntryID)
	pos, total := cat.Ordinal(entry)

	names := make([]string, 0, len(catalog.Fields()))
	for _, f := range catalog.Fields() {
		names = append(names, cat.Option(f, entry.Value(f)).Name)
	}
	p.section(fmt.Sprintf("Site %d of %d: %s (class %s)", pos, total, l.EntryID, l.Class))
	p.line("  %s", strings.Join(names, " / "))
	p.printf(p.dim, "  %s\n\n", strings.Join(l.Hierarchy, " > "))

	s := l.Stats
	prm := l.Params
	p.labelValue("Capacity", p.decimal(s.TotalMW, 3)+" MW")
	p.labelValue("Modules", p.integer(s.TotalModules))
	p.labelValue("Strings", p.integer(s.TotalStrings))
	p.labelValue("Inverters", p.integer(s.InverterCount))
	p.labelValue("Block", p.decimal(s.BlockKW, 1)+" kW")
	p.labelValue("Per row", fmt.Sprintf("%d modules, %d strings, %s m, %d posts",
		s.ModulesPerRow, s.StringsPerRow, p.decimal(s.ActualRowLength, 3), s.PostsPerRow))
	p.labelValue("Blocks", fmt.Sprintf("%d x %d rows at %s m pitch (%d x %d grid)",
		prm.BlockCount, prm.BlockRows, p.decimal(prm.RowPitch, 1), l.Grid.Columns, l.Grid.Rows))
	p.labelValue("Footprint", fmt.Sprintf("%s x %s m", p.decimal(l.Bounds.Width, 1), p.decimal(l.Bounds.Height, 1)))
	p.labelValue("Equipment", tally(equipmentTypes(l)))
	p.labelValue("Cables", tally(cableTypes(l)))
	if s.ModulesPerRow == 0 {
		p.printf(p.bad, "  no string fits a %s m row\n", p.decimal(prm.RowLength, 1))
	}
	return p.err
}

func equipmentTypes(l *layout.Layout) map[string]int {
	out := make(map[string]int)
	for _, eq := range l.Equipment {
		out[string(eq.Type)]++
	}
	return out
}

func cableTypes(l *layout.Layout) map[string]int {
	out := make(map[string]int)
	for _, c := range l.Cables {
		out[string(c.Type)]++
	}
	return out
}

func tally(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
