// Package designer holds the editing session of the site designer: the
// current selection and spatial parameters, an undo history and the layout
// derived from them.
package designer

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/layout"
	"github.com/timzifer/ebos/resolver"
	"github.com/timzifer/ebos/spatial"
	"github.com/timzifer/ebos/telemetry"
)

var (
	// ErrOptionUnavailable is returned when a value cannot be chosen given the
	// fields before it.
	ErrOptionUnavailable = errors.New("option unavailable")
	// ErrNotMatched is returned when a layout is requested before the
	// selection identifies exactly one configuration.
	ErrNotMatched = errors.New("no configuration matched")
)

const defaultHistoryLimit = 64

type snapshot struct {
	selection resolver.Selection
	params    spatial.Params
}

// Change describes the effect of one toggle.
type Change struct {
	Field     catalog.Field      `json:"field"`
	Value     string             `json:"value"`
	Previous  string             `json:"previous,omitempty"`
	Cleared   []catalog.Field    `json:"cleared,omitempty"`
	Selection resolver.Selection `json:"selection"`
}

// Session is a single user's design state. It is not safe for concurrent
// use.
type Session struct {
	catalog   *catalog.Catalog
	selection resolver.Selection
	params    spatial.Params
	history   []snapshot
	limit     int

	logger    zerolog.Logger
	collector telemetry.Collector

	layout *layout.Layout
}

// New creates a session over cat.
func New(cat *catalog.Catalog, opts ...Option) (*Session, error) {
	if cat == nil {
		return nil, errors.New("catalog must not be nil")
	}
	cfg := settings{
		logger:       zerolog.Nop(),
		telemetry:    telemetry.Noop(),
		params:       spatial.Default(),
		historyLimit: defaultHistoryLimit,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &Session{
		catalog:   cat,
		params:    cfg.params,
		limit:     cfg.historyLimit,
		logger:    cfg.logger.With().Str("catalog", cat.Name()).Logger(),
		collector: cfg.telemetry,
	}
	for _, field := range catalog.Fields() {
		value := cfg.selection.Get(field)
		if value == "" {
			continue
		}
		if !resolver.Reachable(cat, s.selection, field, value) {
			return nil, fmt.Errorf("initial selection %s=%s: %w", field, value, ErrOptionUnavailable)
		}
		s.selection = resolver.Apply(cat, s.selection, field, value)
	}
	return s, nil
}

// Catalog returns the catalog the session resolves against.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Selection returns the current selection.
func (s *Session) Selection() resolver.Selection { return s.selection }

// Params returns the current spatial parameters.
func (s *Session) Params() spatial.Params { return s.params }

// Resolve computes the options for the current selection.
func (s *Session) Resolve() resolver.Result {
	return resolver.Resolve(s.catalog, s.selection)
}

// Matched returns the configuration identified by the selection.
func (s *Session) Matched() (catalog.Entry, bool) {
	res := s.Resolve()
	if res.Matched == nil {
		return catalog.Entry{}, false
	}
	return *res.Matched, true
}

// Toggle selects value for field, or clears the field when value is empty or
// already selected. Later fields that no longer fit are cleared.
func (s *Session) Toggle(field catalog.Field, value string) (Change, error) {
	if !field.Valid() {
		return Change{}, fmt.Errorf("%w: %q", catalog.ErrUnknownField, field)
	}
	if value != "" {
		parsed, err := catalog.ParseValue(field, value)
		if err != nil {
			s.collector.IncToggle(string(field), telemetry.OutcomeRejected)
			return Change{}, err
		}
		value = parsed
	}

	previous := s.selection.Get(field)
	clearing := value == "" || value == previous
	if !clearing && !resolver.Reachable(s.catalog, s.selection, field, value) {
		s.collector.IncToggle(string(field), telemetry.OutcomeRejected)
		s.logger.Debug().Str("field", string(field)).Str("value", value).Msg("option unavailable")
		return Change{}, fmt.Errorf("%s=%s: %w", field, value, ErrOptionUnavailable)
	}

	before := s.selection
	next := resolver.Apply(s.catalog, before, field, value)
	if next == before {
		return Change{Field: field, Value: previous, Previous: previous, Selection: before}, nil
	}
	s.push()
	s.selection = next
	s.layout = nil

	change := Change{
		Field:     field,
		Value:     s.selection.Get(field),
		Previous:  previous,
		Cleared:   clearedDownstream(field, before, s.selection),
		Selection: s.selection,
	}
	outcome := telemetry.OutcomeSet
	if clearing {
		outcome = telemetry.OutcomeCleared
	}
	s.collector.IncToggle(string(field), outcome)
	for _, f := range change.Cleared {
		s.collector.IncCascadeReset(string(f))
	}

	evt := s.logger.Info().Str("field", string(field)).Str("value", change.Value).Str("outcome", outcome)
	if len(change.Cleared) > 0 {
		evt = evt.Strs("cleared", fieldNames(change.Cleared))
	}
	if entry, ok := s.Matched(); ok {
		evt = evt.Str("config", entry.ID)
	}
	evt.Msg("selection changed")
	return change, nil
}

// ToggleNamed is Toggle with a field name as written by users.
func (s *Session) ToggleNamed(name, value string) (Change, error) {
	field, err := catalog.ParseField(name)
	if err != nil {
		return Change{}, err
	}
	return s.Toggle(field, value)
}

// SetParam updates one spatial parameter from raw input. Values outside the
// documented range are clamped.
func (s *Session) SetParam(name, raw string) (spatial.Params, error) {
	next, err := spatial.Set(s.params, name, raw)
	if err != nil {
		return s.params, err
	}
	s.setParams(next)
	return s.params, nil
}

// SetParams replaces all spatial parameters after clamping them.
func (s *Session) SetParams(p spatial.Params) spatial.Params {
	s.setParams(spatial.Clamp(p))
	return s.params
}

func (s *Session) setParams(p spatial.Params) {
	if p == s.params {
		return
	}
	s.push()
	s.params = p
	s.layout = nil
	s.logger.Debug().Str("params", p.String()).Msg("spatial parameters changed")
}

// Reset clears the selection. Spatial parameters are kept.
func (s *Session) Reset() {
	if s.selection == resolver.Reset() {
		return
	}
	s.push()
	s.selection = resolver.Reset()
	s.layout = nil
	s.logger.Info().Msg("selection reset")
}

// Undo restores the state before the last change. It reports false when
// there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.history) == 0 {
		return false
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.selection = last.selection
	s.params = last.params
	s.layout = nil
	s.logger.Debug().Msg("undo")
	return true
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return len(s.history) > 0 }

func (s *Session) push() {
	if s.limit == 0 {
		return
	}
	s.history = append(s.history, snapshot{selection: s.selection, params: s.params})
	if len(s.history) > s.limit {
		s.history = append(s.history[:0], s.history[len(s.history)-s.limit:]...)
	}
}

// Layout returns the layout for the matched configuration, building it on
// first use after a change.
func (s *Session) Layout() (*layout.Layout, error) {
	if s.layout != nil {
		return s.layout, nil
	}
	entry, ok := s.Matched()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotMatched, s.selection)
	}
	start := time.Now()
	built := layout.Build(s.catalog, entry, s.params)
	elapsed := time.Since(start)

	s.collector.ObserveLayoutBuild(entry.ID, elapsed)
	s.collector.SetCapacity(built.Stats.TotalMW)
	s.logger.Info().
		Str("config", entry.ID).
		Float64("mw", built.Stats.TotalMW).
		Int("modules", built.Stats.TotalModules).
		Int("inverters", built.Stats.InverterCount).
		Dur("elapsed", elapsed).
		Msg("layout built")
	s.layout = built
	return built, nil
}

// clearedDownstream lists the fields after field that the toggle cleared.
func clearedDownstream(field catalog.Field, before, after resolver.Selection) []catalog.Field {
	var out []catalog.Field
	for _, f := range resolver.Cleared(before, after) {
		if f.Index() > field.Index() {
			out = append(out, f)
		}
	}
	return out
}

func fieldNames(fields []catalog.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
