package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultInRange(t *testing.T) {
	p := Default()
	require.Equal(t, Params{RowLength: 140, PostSpacing: 7, RowPitch: 6.5, BlockRows: 12, BlockCount: 4}, p)
	require.True(t, p.InRange())
	require.Equal(t, p, Clamp(p))
}

func TestClampSnapsAndBounds(t *testing.T) {
	p := Clamp(Params{RowLength: 512, PostSpacing: 6.3, RowPitch: 2, BlockRows: 30, BlockCount: 0})
	require.Equal(t, 300.0, p.RowLength)
	require.Equal(t, 6.5, p.PostSpacing)
	require.Equal(t, 4.0, p.RowPitch)
	require.Equal(t, 20, p.BlockRows)
	require.Equal(t, 1, p.BlockCount)
	require.True(t, p.InRange())
}

func TestSnap(t *testing.T) {
	r, ok := Bounds(RowPitch)
	require.True(t, ok)
	require.Equal(t, 7.0, r.Snap(7.2))
	require.Equal(t, 7.5, r.Snap(7.3))
	require.Equal(t, 10.0, r.Snap(9.9))
	require.Equal(t, r.Default, r.Snap(math.NaN()))
	require.Equal(t, r.Max, r.Snap(math.Inf(1)))
	require.Equal(t, r.Min, r.Snap(math.Inf(-1)))

	r, _ = Bounds(RowLength)
	require.Equal(t, 141.0, r.Snap(140.6))
}

func TestSet(t *testing.T) {
	p, err := Set(Default(), "row_length", "95")
	require.NoError(t, err)
	require.Equal(t, 95.0, p.RowLength)

	p, err = Set(p, "blocks", "99")
	require.NoError(t, err)
	require.Equal(t, 12, p.BlockCount)

	_, err = Set(p, "tilt", "10")
	require.ErrorIs(t, err, ErrUnknownParameter)

	_, err = Set(p, "rowPitch", "wide")
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestParametersOrder(t *testing.T) {
	require.Equal(t, []Parameter{RowLength, PostSpacing, RowPitch, BlockRows, BlockCount}, Parameters())
	for _, param := range Parameters() {
		parsed, err := ParseParameter(string(param))
		require.NoError(t, err)
		require.Equal(t, param, parsed)
	}
}

func TestInRangeDetectsUnclamped(t *testing.T) {
	p := Default()
	p.BlockRows = 3
	require.False(t, p.InRange())
	require.True(t, math.IsNaN(p.Get("tilt")))
}
