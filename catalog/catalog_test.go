package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogEntriesAreDistinct(t *testing.T) {
	cat := Default()
	require.Equal(t, PresetSite, cat.Name())
	require.Equal(t, 13, cat.Len())

	ids := make(map[string]struct{})
	tuples := make(map[string]struct{})
	for _, entry := range cat.Entries() {
		_, dupID := ids[entry.ID]
		require.False(t, dupID, "duplicate id %s", entry.ID)
		ids[entry.ID] = struct{}{}
		_, dupTuple := tuples[entry.tuple()]
		require.False(t, dupTuple, "duplicate tuple %s", entry.tuple())
		tuples[entry.tuple()] = struct{}{}
	}
}

func TestCatalogValuesFollowOptionOrder(t *testing.T) {
	cat := Default()
	require.Equal(t, []string{"bifacial-600", "first-solar-525"}, cat.Values(FieldModule))
	require.Equal(t, []string{"distributed", "cluster", "central"}, cat.Values(FieldInverter))
	require.Equal(t, []string{"string-homeruns", "harnesses", "trunk-bus"}, cat.Values(FieldDCCollection))
	require.Equal(t, []string{"none", "combiner", "lbd"}, cat.Values(FieldDCCombination))
}

func TestNewRejectsDuplicateTuple(t *testing.T) {
	def := Definition{
		Name: "dup",
		Entries: []Entry{
			{ID: "X1", Class: ClassA, Module: ModuleBifacial600, Inverter: InverterDistributed, DCCollection: CollectionHomeruns, DCCombination: CombinationNone},
			{ID: "X2", Class: ClassA, Module: ModuleBifacial600, Inverter: InverterDistributed, DCCollection: CollectionHomeruns, DCCombination: CombinationNone},
		},
	}
	_, err := New(def)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateEntry))
}

func TestNewRejectsDuplicateID(t *testing.T) {
	def := Definition{
		Entries: []Entry{
			{ID: "X1", Class: ClassA, Module: ModuleBifacial600, Inverter: InverterDistributed, DCCollection: CollectionHomeruns, DCCombination: CombinationNone},
			{ID: "X1", Class: ClassB, Module: ModuleBifacial600, Inverter: InverterCluster, DCCollection: CollectionHarnesses, DCCombination: CombinationCombiner},
		},
	}
	_, err := New(def)
	require.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestNewRejectsUnknownValues(t *testing.T) {
	def := Definition{
		Entries: []Entry{
			{ID: "X1", Class: ClassA, Module: "thin-film", Inverter: InverterDistributed, DCCollection: CollectionHomeruns, DCCombination: CombinationNone},
		},
	}
	_, err := New(def)
	require.ErrorIs(t, err, ErrInvalidFieldValue)

	def.Entries[0].Module = ModuleBifacial600
	def.Entries[0].Class = "D"
	_, err = New(def)
	require.ErrorIs(t, err, ErrInvalidFieldValue)
}

func TestNewRejectsMissingMetadata(t *testing.T) {
	def := Definition{
		Entries: []Entry{
			{ID: "X1", Class: ClassA, Module: ModuleFirstSolar525, Inverter: InverterDistributed, DCCollection: CollectionHarnesses, DCCombination: CombinationNone},
		},
		Modules: map[ModuleType]ModuleSpec{
			ModuleBifacial600: DefaultModules()[ModuleBifacial600],
		},
	}
	_, err := New(def)
	require.ErrorIs(t, err, ErrMissingMetadata)
}

func TestNewRejectsRuleViolation(t *testing.T) {
	def, err := PresetDefinition(PresetSite)
	require.NoError(t, err)
	def.Entries = append(def.Entries, Entry{
		ID: "FS9", Class: ClassA, Module: ModuleFirstSolar525, Inverter: InverterDistributed,
		DCCollection: CollectionHomeruns, DCCombination: CombinationNone,
	})
	_, err = New(def)
	require.ErrorIs(t, err, ErrRuleViolation)
	require.Contains(t, err.Error(), "no-first-solar-homeruns")
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range PresetNames() {
		cat, err := Preset(name)
		require.NoError(t, err, name)
		require.Positive(t, cat.Len())
	}
	ebos, err := Preset("EBOS")
	require.NoError(t, err)
	require.Equal(t, 10, ebos.Len())

	_, err = Preset("utility")
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestEmptyPresetNameSelectsSite(t *testing.T) {
	cat, err := Preset("")
	require.NoError(t, err)
	require.Equal(t, PresetSite, cat.Name())
}

func TestLookupAndContains(t *testing.T) {
	cat := Default()
	entry, ok := cat.Lookup("FS3")
	require.True(t, ok)
	require.Equal(t, InverterCentral, entry.Inverter)
	require.True(t, cat.Contains(entry))

	forged := entry
	forged.DCCombination = CombinationLBD
	require.False(t, cat.Contains(forged))

	_, ok = cat.Lookup("Z1")
	require.False(t, ok)
}

func TestOrdinal(t *testing.T) {
	cat := Default()
	b6, _ := cat.Lookup("B6")
	pos, total := cat.Ordinal(b6)
	require.Equal(t, 6, pos)
	require.Equal(t, 8, total)

	fs2, _ := cat.Lookup("FS2")
	pos, total = cat.Ordinal(fs2)
	require.Equal(t, 2, pos)
	require.Equal(t, 5, total)

	pos, total = cat.Ordinal(Entry{ID: "nope"})
	require.Zero(t, pos)
	require.Zero(t, total)
}

func TestOptionLabels(t *testing.T) {
	cat := Default()
	require.Equal(t, "Bifacial 600W", cat.Option(FieldModule, "bifacial-600").Name)
	require.Equal(t, "Central Inverters", cat.Option(FieldInverter, "central").Name)
	require.Equal(t, "Trunk Bus", cat.Option(FieldDCCollection, "trunk-bus").Name)
	require.Equal(t, "LBD's", cat.Option(FieldDCCombination, "lbd").Name)
	require.Equal(t, "mystery", cat.Option(FieldDCCombination, "mystery").Name)
}
