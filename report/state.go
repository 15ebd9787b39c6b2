package report

import (
	"fmt"
	"io"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/designer"
)

// State writes the options of a session.
func State(w io.Writer, st designer.State, format Format, opts Options) error {
	if format != FormatText {
		return encode(w, format, st)
	}
	p := newPrinter(w, opts)
	for i, field := range st.Fields {
		title := fmt.Sprintf("%d. %s", i+1, field.Label)
		if field.Field == st.Step {
			title += "  <"
		}
		p.section(title)
		for _, opt := range field.Options {
			text := opt.Name
			if opt.Sub != "" {
				text += " (" + opt.Sub + ")"
			}
			switch {
			case opt.Selected:
				p.printf(p.good, "  [x] %-16s %s\n", opt.Value, text)
			case opt.Enabled:
				p.line("  [ ] %-16s %s", opt.Value, text)
			default:
				p.printf(p.dim, "   -  %-16s %s\n", opt.Value, text)
			}
		}
	}
	p.line("")
	if st.Matched != nil {
		p.printf(p.good, "Site %d of %d: %s (class %s)\n", st.Matched.Ordinal, st.Matched.Of, st.Matched.ID, st.Matched.Class)
		return p.err
	}
	p.printf(p.dim, "No configuration matched (%d remaining)\n", st.Remaining)
	return p.err
}

// Catalog writes the entries and rules of a catalog.
func Catalog(w io.Writer, cat *catalog.Catalog, format Format, opts Options) error {
	if format != FormatText {
		return encode(w, format, catalogDocument(cat))
	}
	p := newPrinter(w, opts)
	p.section(fmt.Sprintf("Catalog %s (%d entries)", cat.Name(), cat.Len()))
	p.printf(p.label, "  %-5s %-5s %-16s %-12s %-16s %s\n", "ID", "CLASS", "MODULE", "INVERTER", "DC COLLECTION", "DC COMBINATION")
	cat.Each(func(e catalog.Entry) {
		p.line("  %-5s %-5s %-16s %-12s %-16s %s", e.ID, e.Class, e.Module, e.Inverter, e.DCCollection, e.DCCombination)
	})
	rules := cat.Rules()
	if len(rules) == 0 {
		return p.err
	}
	p.line("")
	p.section("Rules")
	for _, r := range rules {
		p.labelValue(r.ID, r.Description)
	}
	return p.err
}

// Violations writes the outcome of checking def against its rules and
// reports whether it passed.
func Violations(w io.Writer, def catalog.Definition, violations []catalog.Violation, opts Options) (bool, error) {
	p := newPrinter(w, opts)
	if len(violations) == 0 {
		p.printf(p.good, "ok  %s: %d entries satisfy %d rules\n", def.Name, len(def.Entries), len(def.Rules))
		return true, p.err
	}
	for _, v := range violations {
		p.printf(p.bad, "FAIL %s\n", v)
	}
	return false, p.err
}

type catalogRule struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Expression  string `json:"expression" yaml:"expression"`
}

type catalogDoc struct {
	Name    string          `json:"name" yaml:"name"`
	Entries []catalog.Entry `json:"entries" yaml:"entries"`
	Rules   []catalogRule   `json:"rules,omitempty" yaml:"rules,omitempty"`
}

func catalogDocument(cat *catalog.Catalog) catalogDoc {
	doc := catalogDoc{Name: cat.Name(), Entries: cat.Entries()}
	for _, r := range cat.Rules() {
		doc.Rules = append(doc.Rules, catalogRule{ID: r.ID, Description: r.Description, Expression: r.Expression})
	}
	return doc
}
