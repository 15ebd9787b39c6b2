package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValueAcceptsAliases(t *testing.T) {
	cases := []struct {
		field Field
		raw   string
		want  string
	}{
		{FieldModule, "bifacial", "bifacial-600"},
		{FieldModule, " FirstSolar ", "first-solar-525"},
		{FieldInverter, "centralized-cluster", "cluster"},
		{FieldDCCollection, "homeruns", "string-homeruns"},
		{FieldDCCollection, "trunk", "trunk-bus"},
		{FieldDCCombination, "combiner-boxes", "combiner"},
		{FieldDCCombination, "lbds", "lbd"},
		{FieldDCCombination, "none", "none"},
	}
	for _, tc := range cases {
		got, err := ParseValue(tc.field, tc.raw)
		require.NoError(t, err, "%s=%s", tc.field, tc.raw)
		require.Equal(t, tc.want, got)
	}
}

func TestParseValueRejectsUnknown(t *testing.T) {
	_, err := ParseValue(FieldInverter, "micro")
	require.ErrorIs(t, err, ErrInvalidFieldValue)

	_, err = ParseValue(Field("tracker"), "single-axis")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestParseField(t *testing.T) {
	for raw, want := range map[string]Field{
		"module":         FieldModule,
		"Inverter":       FieldInverter,
		"dc_collection":  FieldDCCollection,
		"dcCombination":  FieldDCCombination,
		"dcCombo":        FieldDCCombination,
		"dc-combination": FieldDCCombination,
	} {
		got, err := ParseField(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got)
	}
	_, err := ParseField("racking")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldsOrder(t *testing.T) {
	fields := Fields()
	require.Equal(t, []Field{FieldModule, FieldInverter, FieldDCCollection, FieldDCCombination}, fields)
	fields[0] = "mutated"
	require.Equal(t, FieldModule, Fields()[0])
	for i, f := range Fields() {
		require.Equal(t, i, f.Index())
	}
	require.Equal(t, -1, Field("x").Index())
}

func TestTypedParsers(t *testing.T) {
	m, err := ParseModuleType("bifacial")
	require.NoError(t, err)
	require.Equal(t, ModuleBifacial600, m)

	inv, err := ParseInverterArchitecture("central")
	require.NoError(t, err)
	require.True(t, inv.Valid())

	dcc, err := ParseDCCollection("harness")
	require.NoError(t, err)
	require.Equal(t, CollectionHarnesses, dcc)

	dcm, err := ParseDCCombination("LBD")
	require.NoError(t, err)
	require.Equal(t, CombinationLBD, dcm)
}
