package resolver

import (
	"github.com/timzifer/ebos/catalog"
)

// Apply toggles value on field and returns the new selection; sel itself is
// never modified.
//
// Selecting the current value clears the field. Otherwise the field takes the
// value and every later field whose value is no longer among its options,
// computed against the toggled selection, is cleared. A value that cannot be
// reached together with the fields before it leaves the selection unchanged,
// which keeps every reachable selection viable.
func Apply(cat *catalog.Catalog, sel Selection, field catalog.Field, value string) Selection {
	idx := field.Index()
	if idx < 0 {
		return sel
	}

	var toggled Selection
	if sel.Get(field) == value || value == "" {
		toggled = sel.With(field, "")
	} else {
		if !Reachable(cat, sel, field, value) {
			return sel
		}
		toggled = sel.With(field, value)
	}

	options := Resolve(cat, toggled)
	next := toggled
	for _, f := range catalog.Fields()[idx+1:] {
		current := toggled.Get(f)
		if current == "" {
			continue
		}
		if !options.Allows(f, current) {
			next = next.With(f, "")
		}
	}
	return next
}

// Cleared lists the fields assigned in before but not in after, in
// dependency order.
func Cleared(before, after Selection) []catalog.Field {
	var out []catalog.Field
	for _, f := range catalog.Fields() {
		if before.IsSet(f) && !after.IsSet(f) {
			out = append(out, f)
		}
	}
	return out
}
