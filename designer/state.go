package designer

import (
	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/resolver"
	"github.com/timzifer/ebos/spatial"
)

// OptionView is one choice of a field as shown to a user.
type OptionView struct {
	Value    string `json:"value" yaml:"value"`
	Name     string `json:"name" yaml:"name"`
	Sub      string `json:"sub,omitempty" yaml:"sub,omitempty"`
	Selected bool   `json:"selected" yaml:"selected"`
	// Viable is true when the value appears in an entry matching every other
	// assigned field.
	Viable bool `json:"viable" yaml:"viable"`
	// Enabled is true when a toggle to this value would be accepted.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// FieldView groups the options of one field.
type FieldView struct {
	Field   catalog.Field `json:"field" yaml:"field"`
	Label   string        `json:"label" yaml:"label"`
	Value   string        `json:"value,omitempty" yaml:"value,omitempty"`
	Options []OptionView  `json:"options" yaml:"options"`
}

// MatchView describes the matched configuration.
type MatchView struct {
	catalog.Entry `yaml:",inline"`
	Ordinal       int `json:"ordinal" yaml:"ordinal"`
	Of            int `json:"of" yaml:"of"`
}

// State is a read-only snapshot of a session.
type State struct {
	Catalog   string                              `json:"catalog" yaml:"catalog"`
	Selection resolver.Selection                  `json:"selection" yaml:"selection"`
	Fields    []FieldView                         `json:"fields" yaml:"fields"`
	Step      catalog.Field                       `json:"step,omitempty" yaml:"step,omitempty"`
	Complete  bool                                `json:"complete" yaml:"complete"`
	Matched   *MatchView                          `json:"matched" yaml:"matched"`
	Remaining int                                 `json:"remaining" yaml:"remaining"`
	Params    spatial.Params                      `json:"params" yaml:"params"`
	Bounds    map[spatial.Parameter]spatial.Range `json:"bounds" yaml:"bounds"`
	CanUndo   bool                                `json:"can_undo" yaml:"can_undo"`
}

// State captures the current session for display.
func (s *Session) State() State {
	res := s.Resolve()
	st := State{
		Catalog:   s.catalog.Name(),
		Selection: s.selection,
		Complete:  s.selection.Complete(),
		Remaining: len(res.Remaining),
		Params:    s.params,
		Bounds:    make(map[spatial.Parameter]spatial.Range, len(spatial.Parameters())),
		CanUndo:   s.CanUndo(),
	}
	if step, ok := resolver.CurrentStep(s.selection); ok {
		st.Step = step
	}
	for _, p := range spatial.Parameters() {
		st.Bounds[p], _ = spatial.Bounds(p)
	}
	for _, field := range catalog.Fields() {
		current := s.selection.Get(field)
		view := FieldView{Field: field, Label: field.Label(), Value: current}
		for _, value := range s.catalog.Values(field) {
			opt := s.catalog.Option(field, value)
			view.Options = append(view.Options, OptionView{
				Value:    value,
				Name:     opt.Name,
				Sub:      opt.Sub,
				Selected: value == current,
				Viable:   res.Allows(field, value),
				Enabled:  value == current || resolver.Reachable(s.catalog, s.selection, field, value),
			})
		}
		st.Fields = append(st.Fields, view)
	}
	if res.Matched != nil {
		pos, total := s.catalog.Ordinal(*res.Matched)
		st.Matched = &MatchView{Entry: *res.Matched, Ordinal: pos, Of: total}
	}
	return st
}
