package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/ebos/catalog"
)

func scenarioA() Selection {
	return Selection{
		Module:        catalog.ModuleBifacial600,
		Inverter:      catalog.InverterDistributed,
		DCCollection:  catalog.CollectionHomeruns,
		DCCombination: catalog.CombinationNone,
	}
}

// allSelections enumerates every selection over the closed enumerations,
// including unset fields.
func allSelections() []Selection {
	out := []Selection{{}}
	for _, f := range catalog.Fields() {
		values := append([]string{""}, catalog.AllValues(f)...)
		next := make([]Selection, 0, len(out)*len(values))
		for _, sel := range out {
			for _, v := range values {
				next = append(next, sel.With(f, v))
			}
		}
		out = next
	}
	return out
}

func countMatches(cat *catalog.Catalog, sel Selection) int {
	n := 0
	cat.Each(func(e catalog.Entry) {
		if sel.Matches(e) {
			n++
		}
	})
	return n
}

func TestResolveEmptySelectionProjectsCatalog(t *testing.T) {
	cat := catalog.Default()
	res := Resolve(cat, Selection{})
	for _, f := range catalog.Fields() {
		require.Equal(t, cat.Values(f), res.Options[f], f)
	}
	require.Nil(t, res.Matched)
	require.Len(t, res.Remaining, cat.Len())
}

func TestResolveScenarioAMatchesB1(t *testing.T) {
	res := Resolve(catalog.Default(), scenarioA())
	require.NotNil(t, res.Matched)
	require.Equal(t, "B1", res.Matched.ID)
	require.Equal(t, catalog.ClassA, res.Matched.Class)
}

func TestMatchedIffExactlyOneEntry(t *testing.T) {
	for _, name := range catalog.PresetNames() {
		cat, err := catalog.Preset(name)
		require.NoError(t, err)
		for _, sel := range allSelections() {
			res := Resolve(cat, sel)
			if countMatches(cat, sel) == 1 {
				require.NotNil(t, res.Matched, "%s: %s", name, sel)
				require.True(t, sel.Matches(*res.Matched))
			} else {
				require.Nil(t, res.Matched, "%s: %s", name, sel)
			}
		}
	}
}

func TestOptionsIgnoreOwnField(t *testing.T) {
	cat := catalog.Default()
	sel := Selection{Module: catalog.ModuleFirstSolar525}
	res := Resolve(cat, sel)
	require.Equal(t, []string{"bifacial-600", "first-solar-525"}, res.Options[catalog.FieldModule])
	require.Equal(t, []string{"harnesses", "trunk-bus"}, res.Options[catalog.FieldDCCollection])
}

func TestScenarioCInconsistentPair(t *testing.T) {
	cat := catalog.Default()
	sel := Selection{Module: catalog.ModuleFirstSolar525, DCCollection: catalog.CollectionHomeruns}

	res := Resolve(cat, sel)
	require.NotContains(t, res.Options[catalog.FieldDCCollection], "string-homeruns")
	require.Empty(t, res.Options[catalog.FieldInverter])
	require.Empty(t, res.Options[catalog.FieldDCCombination])
	require.Equal(t, []string{"bifacial-600"}, res.Options[catalog.FieldModule])
	require.Nil(t, res.Matched)
	require.Empty(t, res.Remaining)

	for _, inv := range catalog.AllValues(catalog.FieldInverter) {
		for _, dcm := range catalog.AllValues(catalog.FieldDCCombination) {
			full := sel.With(catalog.FieldInverter, inv).With(catalog.FieldDCCombination, dcm)
			require.Nil(t, Resolve(cat, full).Matched, full.String())
		}
	}
}

func TestScenarioBModuleChangeCascades(t *testing.T) {
	cat := catalog.Default()
	before := scenarioA()
	after := Apply(cat, before, catalog.FieldModule, string(catalog.ModuleFirstSolar525))

	require.Equal(t, Selection{Module: catalog.ModuleFirstSolar525}, after)
	require.Equal(t, scenarioA(), before, "input selection must not change")
	require.Equal(t, []catalog.Field{catalog.FieldInverter, catalog.FieldDCCollection, catalog.FieldDCCombination}, Cleared(before, after))

	res := Resolve(cat, after)
	only := Resolve(cat, Selection{Module: catalog.ModuleFirstSolar525})
	require.Equal(t, only.Options, res.Options)
	require.Equal(t, []string{"distributed", "cluster", "central"}, res.Options[catalog.FieldInverter])
	require.Equal(t, []string{"none", "combiner", "lbd"}, res.Options[catalog.FieldDCCombination])
}

func TestApplyTogglesOff(t *testing.T) {
	cat := catalog.Default()
	sel := scenarioA()
	next := Apply(cat, sel, catalog.FieldInverter, string(catalog.InverterDistributed))
	require.False(t, next.IsSet(catalog.FieldInverter))
	require.True(t, next.IsSet(catalog.FieldDCCollection))
	require.True(t, next.IsSet(catalog.FieldDCCombination))
}

func TestApplyKeepsCompatibleDownstream(t *testing.T) {
	cat := catalog.Default()
	sel := Selection{Module: catalog.ModuleBifacial600, DCCollection: catalog.CollectionHarnesses}
	next := Apply(cat, sel, catalog.FieldInverter, string(catalog.InverterCentral))
	require.Equal(t, catalog.CollectionHarnesses, next.DCCollection)
	require.Equal(t, catalog.InverterCentral, next.Inverter)

	res := Resolve(cat, next)
	require.NotNil(t, res.Matched)
	require.Equal(t, "B6", res.Matched.ID)
}

func TestApplyClearsIncompatibleDownstream(t *testing.T) {
	cat := catalog.Default()
	sel := Selection{Module: catalog.ModuleBifacial600, DCCombination: catalog.CombinationNone}
	next := Apply(cat, sel, catalog.FieldInverter, string(catalog.InverterCluster))
	require.Equal(t, Selection{Module: catalog.ModuleBifacial600, Inverter: catalog.InverterCluster}, next)
}

func TestApplyIgnoresUnreachableValue(t *testing.T) {
	cat := catalog.Default()
	sel := Selection{Module: catalog.ModuleFirstSolar525}
	require.False(t, Reachable(cat, sel, catalog.FieldDCCollection, string(catalog.CollectionHomeruns)))
	next := Apply(cat, sel, catalog.FieldDCCollection, string(catalog.CollectionHomeruns))
	require.Equal(t, sel, next)
}

func TestApplyUnknownFieldIsNoop(t *testing.T) {
	sel := scenarioA()
	require.Equal(t, sel, Apply(catalog.Default(), sel, catalog.Field("tracker"), "x"))
}

// TestApplyPreservesViability walks every state reachable from the empty
// selection through Apply and checks each one matches at least one entry.
func TestApplyPreservesViability(t *testing.T) {
	for _, name := range catalog.PresetNames() {
		cat, err := catalog.Preset(name)
		require.NoError(t, err)

		seen := map[Selection]struct{}{{}: {}}
		queue := []Selection{{}}
		for len(queue) > 0 {
			sel := queue[0]
			queue = queue[1:]
			require.Positive(t, countMatches(cat, sel), "%s: unviable %s", name, sel)
			for _, f := range catalog.Fields() {
				for _, v := range catalog.AllValues(f) {
					next := Apply(cat, sel, f, v)
					if _, ok := seen[next]; ok {
						continue
					}
					seen[next] = struct{}{}
					queue = append(queue, next)
				}
			}
		}
		require.Greater(t, len(seen), cat.Len(), name)
	}
}

func TestCurrentStep(t *testing.T) {
	step, ok := CurrentStep(Selection{})
	require.True(t, ok)
	require.Equal(t, catalog.FieldModule, step)

	step, ok = CurrentStep(Selection{Module: catalog.ModuleBifacial600, Inverter: catalog.InverterCentral})
	require.True(t, ok)
	require.Equal(t, catalog.FieldDCCollection, step)

	_, ok = CurrentStep(scenarioA())
	require.False(t, ok)
}

func TestSelectionHelpers(t *testing.T) {
	sel := scenarioA()
	require.Equal(t, 4, sel.Count())
	require.True(t, sel.Complete())
	require.Equal(t, "module=bifacial-600 inverter=distributed dcCollection=string-homeruns dcCombination=none", sel.String())
	require.Equal(t, "module=- inverter=- dcCollection=- dcCombination=-", Reset().String())
	require.Equal(t, 3, sel.With(catalog.FieldDCCollection, "").Count())
}
