// Package resolver propagates constraints from a partial Selection over a
// Catalog and applies user toggles with forward cascade resets.
//
// Every function here is pure: results depend only on the Selection passed in
// and the immutable Catalog.
package resolver

import (
	"github.com/timzifer/ebos/catalog"
)

// Result is the outcome of resolving a Selection.
type Result struct {
	// Options holds, per field, the values that appear in at least one entry
	// matching all other assigned fields. A field is never constrained by its
	// own current value.
	Options map[catalog.Field][]string
	// Matched is the unique entry agreeing with every assigned field, or nil.
	Matched *catalog.Entry
	// Remaining lists every entry agreeing with every assigned field.
	Remaining []catalog.Entry
}

// Allows reports whether value is among the options of field.
func (r Result) Allows(field catalog.Field, value string) bool {
	for _, candidate := range r.Options[field] {
		if candidate == value {
			return true
		}
	}
	return false
}

// Resolve computes the viable options per field and the matched entry.
// Inconsistent selections yield empty option sets for the violated fields and
// no match.
func Resolve(cat *catalog.Catalog, sel Selection) Result {
	fields := catalog.Fields()
	sets := make(map[catalog.Field]map[string]struct{}, len(fields))
	for _, f := range fields {
		sets[f] = make(map[string]struct{})
	}

	var remaining []catalog.Entry
	cat.Each(func(entry catalog.Entry) {
		for _, f := range fields {
			if sel.matchesExcept(entry, f) {
				sets[f][entry.Value(f)] = struct{}{}
			}
		}
		if sel.Matches(entry) {
			remaining = append(remaining, entry)
		}
	})

	res := Result{
		Options:   make(map[catalog.Field][]string, len(fields)),
		Remaining: remaining,
	}
	for _, f := range fields {
		res.Options[f] = catalog.SortValues(f, sets[f])
	}
	if len(remaining) == 1 {
		matched := remaining[0]
		res.Matched = &matched
	}
	return res
}

// Reachable reports whether value can be chosen for field given only the
// fields that precede it in dependency order.
func Reachable(cat *catalog.Catalog, sel Selection, field catalog.Field, value string) bool {
	idx := field.Index()
	if idx < 0 {
		return false
	}
	upstream := Selection{}
	for _, f := range catalog.Fields()[:idx] {
		upstream = upstream.With(f, sel.Get(f))
	}
	upstream = upstream.With(field, value)
	found := false
	cat.Each(func(entry catalog.Entry) {
		if !found && upstream.Matches(entry) {
			found = true
		}
	})
	return found
}
