// Package spatial holds the bounded scalar parameters that shape a site
// layout and the boundary helpers that keep them in range.
package spatial

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownParameter is returned for parameter names outside the fixed set.
	ErrUnknownParameter = errors.New("unknown spatial parameter")
	// ErrInvalidValue is returned when a raw value is not a finite number.
	ErrInvalidValue = errors.New("invalid spatial value")
)

// Parameter names one spatial parameter.
type Parameter string

const (
	RowLength   Parameter = "rowLength"
	PostSpacing Parameter = "postSpacing"
	RowPitch    Parameter = "rowPitch"
	BlockRows   Parameter = "blockRows"
	BlockCount  Parameter = "blockCount"
)

// Range documents the bounds, step and default of one parameter.
type Range struct {
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Step    float64 `json:"step" yaml:"step"`
	Default float64 `json:"default" yaml:"default"`
	Unit    string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

var (
	order  = [...]Parameter{RowLength, PostSpacing, RowPitch, BlockRows, BlockCount}
	ranges = map[Parameter]Range{
		RowLength:   {Min: 60, Max: 300, Step: 1, Default: 140, Unit: "m"},
		PostSpacing: {Min: 4, Max: 10, Step: 0.5, Default: 7, Unit: "m"},
		RowPitch:    {Min: 4, Max: 10, Step: 0.5, Default: 6.5, Unit: "m"},
		BlockRows:   {Min: 6, Max: 20, Step: 1, Default: 12},
		BlockCount:  {Min: 1, Max: 12, Step: 1, Default: 4},
	}
	aliases = map[string]Parameter{
		"rowlength":    RowLength,
		"row_length":   RowLength,
		"row-length":   RowLength,
		"postspacing":  PostSpacing,
		"post_spacing": PostSpacing,
		"post-spacing": PostSpacing,
		"rowpitch":     RowPitch,
		"row_pitch":    RowPitch,
		"row-pitch":    RowPitch,
		"pitch":        RowPitch,
		"blockrows":    BlockRows,
		"block_rows":   BlockRows,
		"block-rows":   BlockRows,
		"blockcount":   BlockCount,
		"block_count":  BlockCount,
		"block-count":  BlockCount,
		"blocks":       BlockCount,
	}
)

// Params is the set of spatial parameters fed into the layout engine.
type Params struct {
	RowLength   float64 `json:"row_length" yaml:"row_length"`
	PostSpacing float64 `json:"post_spacing" yaml:"post_spacing"`
	RowPitch    float64 `json:"row_pitch" yaml:"row_pitch"`
	BlockRows   int     `json:"block_rows" yaml:"block_rows"`
	BlockCount  int     `json:"block_count" yaml:"block_count"`
}

// Default returns the slider defaults.
func Default() Params {
	return Params{
		RowLength:   ranges[RowLength].Default,
		PostSpacing: ranges[PostSpacing].Default,
		RowPitch:    ranges[RowPitch].Default,
		BlockRows:   int(ranges[BlockRows].Default),
		BlockCount:  int(ranges[BlockCount].Default),
	}
}

// Parameters lists the parameters in display order.
func Parameters() []Parameter {
	out := make([]Parameter, len(order))
	copy(out, order[:])
	return out
}

// Bounds returns the documented range of a parameter.
func Bounds(p Parameter) (Range, bool) {
	r, ok := ranges[p]
	return r, ok
}

// ParseParameter resolves a parameter name, accepting snake and kebab case.
func ParseParameter(raw string) (Parameter, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if p, ok := aliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownParameter, raw)
}

// Snap rounds v to the nearest step and clamps it into the range. NaN maps to
// the default.
func (r Range) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return r.Default
	}
	if v <= r.Min {
		return r.Min
	}
	if v >= r.Max {
		return r.Max
	}
	lo := decimal.NewFromFloat(r.Min)
	step := decimal.NewFromFloat(r.Step)
	snapped := decimal.NewFromFloat(v).Sub(lo).Div(step).Round(0).Mul(step).Add(lo)
	return math.Min(r.Max, snapped.InexactFloat64())
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Get returns the value of one parameter.
func (p Params) Get(param Parameter) float64 {
	switch param {
	case RowLength:
		return p.RowLength
	case PostSpacing:
		return p.PostSpacing
	case RowPitch:
		return p.RowPitch
	case BlockRows:
		return float64(p.BlockRows)
	case BlockCount:
		return float64(p.BlockCount)
	default:
		return math.NaN()
	}
}

// With returns a copy of p with param snapped and clamped to v. Unknown
// parameters leave p unchanged.
func (p Params) With(param Parameter, v float64) Params {
	r, ok := ranges[param]
	if !ok {
		return p
	}
	v = r.Snap(v)
	switch param {
	case RowLength:
		p.RowLength = v
	case PostSpacing:
		p.PostSpacing = v
	case RowPitch:
		p.RowPitch = v
	case BlockRows:
		p.BlockRows = int(v)
	case BlockCount:
		p.BlockCount = int(v)
	}
	return p
}

// InRange reports whether every parameter lies within its bounds.
func (p Params) InRange() bool {
	for _, param := range order {
		if !ranges[param].Contains(p.Get(param)) {
			return false
		}
	}
	return true
}

// Clamp snaps and clamps every parameter into its documented range.
func Clamp(p Params) Params {
	out := p
	for _, param := range order {
		out = out.With(param, p.Get(param))
	}
	return out
}

// Set parses raw and assigns it to the named parameter. Out-of-range values
// are clamped; only unknown names and non-numeric input are errors.
func Set(p Params, name, raw string) (Params, error) {
	param, err := ParseParameter(name)
	if err != nil {
		return p, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return p, fmt.Errorf("%w: %s=%q", ErrInvalidValue, param, raw)
	}
	return p.With(param, v), nil
}

func (p Params) String() string {
	return fmt.Sprintf("rowLength=%g postSpacing=%g rowPitch=%g blockRows=%d blockCount=%d",
		p.RowLength, p.PostSpacing, p.RowPitch, p.BlockRows, p.BlockCount)
}
