package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/designer"
	"github.com/timzifer/ebos/layout"
	"github.com/timzifer/ebos/spatial"
)

var plain = Options{NoColor: true}

func scenarioLayout(t *testing.T) *layout.Layout {
	t.Helper()
	entry, ok := catalog.Default().Lookup("B1")
	require.True(t, ok)
	return layout.Build(catalog.Default(), entry, spatial.Default())
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "yml": FormatYAML} {
		got, err := ParseFormat(raw)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("csv")
	require.Error(t, err)
}

func TestLayoutText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Layout(&buf, catalog.Default(), scenarioLayout(t), FormatText, plain))
	out := buf.String()
	require.Contains(t, out, "Site 1 of 8: B1 (class A)")
	require.Contains(t, out, "Bifacial 600W / Distributed String Inverters / String Homeruns / None")
	require.Contains(t, out, "MODULE > STRING > STR INV > MV XFMR > MV COLL > SUBSTATION")
	require.Contains(t, out, "1.613 MW")
	require.Contains(t, out, "2,688")
	require.Contains(t, out, "56 modules, 2 strings, 128.688 m, 19 posts")
	require.Contains(t, out, "string-inverter 16, substation 1")
	require.Contains(t, out, "ac 16, homerun 48, mv 6")
	require.NotContains(t, out, "\x1b[")
}

func TestLayoutTextLocale(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Layout(&buf, catalog.Default(), scenarioLayout(t), FormatText, Options{NoColor: true, Locale: language.German}))
	require.Contains(t, buf.String(), "2.688")
	require.Contains(t, buf.String(), "1,613 MW")
}

func TestLayoutJSONAndYAML(t *testing.T) {
	l := scenarioLayout(t)

	var buf bytes.Buffer
	require.NoError(t, Layout(&buf, catalog.Default(), l, FormatJSON, plain))
	var decoded layout.Layout
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, l.Stats, decoded.Stats)
	require.Len(t, decoded.Rows, len(l.Rows))

	buf.Reset()
	require.NoError(t, Layout(&buf, catalog.Default(), l, FormatYAML, plain))
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, "B1", doc["entry_id"])
	require.Contains(t, doc, "cables")
}

func TestStateText(t *testing.T) {
	s, err := designer.New(catalog.Default())
	require.NoError(t, err)
	_, err = s.ToggleNamed("module", "first-solar")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, State(&buf, s.State(), FormatText, plain))
	out := buf.String()
	require.Contains(t, out, "1. Module")
	require.Contains(t, out, "2. Inverter  <")
	require.Contains(t, out, "[x] first-solar-525")
	require.Contains(t, out, " -  string-homeruns")
	require.Contains(t, out, "[ ] harnesses")
	require.Contains(t, out, "No configuration matched (5 remaining)")

	for _, step := range [][2]string{{"inverter", "central"}, {"dcCollection", "trunk"}} {
		_, err = s.ToggleNamed(step[0], step[1])
		require.NoError(t, err)
	}
	buf.Reset()
	require.NoError(t, State(&buf, s.State(), FormatText, plain))
	require.Contains(t, buf.String(), "Site 5 of 5: FS5 (class C)")
}

func TestStateJSON(t *testing.T) {
	s, err := designer.New(catalog.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, State(&buf, s.State(), FormatJSON, plain))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "module", decoded["step"])
	require.Nil(t, decoded["matched"])
}

func TestCatalogAndViolations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Catalog(&buf, catalog.Default(), FormatText, plain))
	require.Contains(t, buf.String(), "Catalog site (13 entries)")
	require.Contains(t, buf.String(), "lbd-needs-trunk")

	buf.Reset()
	require.NoError(t, Catalog(&buf, catalog.Default(), FormatYAML, plain))
	require.Contains(t, buf.String(), "dc_collection: string-homeruns")

	def, err := catalog.PresetDefinition(catalog.PresetSite)
	require.NoError(t, err)
	buf.Reset()
	ok, err := Violations(&buf, def, nil, plain)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, buf.String(), "ok  site: 13 entries satisfy 5 rules")

	buf.Reset()
	entry, _ := catalog.Default().Lookup("B1")
	v := catalog.Violation{Rule: catalog.Rule{ID: "r1"}, Entry: entry}
	ok, err = Violations(&buf, def, []catalog.Violation{v}, plain)
	require.NoError(t, err)
	require.False(t, ok)
	require.Contains(t, buf.String(), "FAIL entry B1 violates r1")
}

type failingWriter struct {
	writes int
	failAt int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes >= w.failAt {
		return 0, errors.New("broken pipe")
	}
	return len(p), nil
}

func TestTextRenderersReportWriteErrors(t *testing.T) {
	def, err := catalog.PresetDefinition(catalog.PresetSite)
	require.NoError(t, err)
	s, err := designer.New(catalog.Default())
	require.NoError(t, err)
	st := s.State()

	for name, render := range map[string]func(w *failingWriter) error{
		"layout": func(w *failingWriter) error {
			return Layout(w, catalog.Default(), scenarioLayout(t), FormatText, plain)
		},
		"state":   func(w *failingWriter) error { return State(w, st, FormatText, plain) },
		"catalog": func(w *failingWriter) error { return Catalog(w, catalog.Default(), FormatText, plain) },
		"violations": func(w *failingWriter) error {
			_, err := Violations(w, def, nil, plain)
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			w := &failingWriter{failAt: 1}
			require.EqualError(t, render(w), "broken pipe")
			require.Equal(t, 1, w.writes, "writes after the first failure must be skipped")
		})
	}
}
