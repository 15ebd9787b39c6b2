package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/designer"
	"github.com/timzifer/ebos/layout"
	"github.com/timzifer/ebos/telemetry"
)

func newTestServer(t *testing.T, opts ...designer.Option) (*Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	collector, err := telemetry.NewPrometheusCollector(reg)
	if err != nil {
		t.Fatalf("collector: %v", err)
	}
	opts = append(opts, designer.WithTelemetry(collector))
	session, err := designer.New(catalog.Default(), opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return New(session, WithGatherer(reg)), reg
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}

func TestStateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var st designer.State
	decode(t, rec, &st)
	if st.Step != catalog.FieldModule {
		t.Fatalf("expected first step module, got %q", st.Step)
	}
	if st.Remaining != 13 {
		t.Fatalf("expected 13 remaining configurations, got %d", st.Remaining)
	}
	if len(st.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(st.Fields))
	}

	rec = do(t, h, http.MethodPost, "/api/state", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestToggleEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/toggle", `{"field":"module","value":"first-solar"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp toggleResponse
	decode(t, rec, &resp)
	if resp.Change.Field != catalog.FieldModule || resp.Change.Value != string(catalog.ModuleFirstSolar525) {
		t.Fatalf("unexpected change %+v", resp.Change)
	}
	if resp.State.Step != catalog.FieldInverter {
		t.Fatalf("expected inverter step, got %q", resp.State.Step)
	}

	rec = do(t, h, http.MethodPost, "/api/toggle", `{"field":"dc_collection","value":"homeruns"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unavailable option, got %d", rec.Code)
	}
	var errResp errorResponse
	decode(t, rec, &errResp)
	if !strings.Contains(errResp.Error, "option unavailable") {
		t.Fatalf("unexpected error %q", errResp.Error)
	}

	rec = do(t, h, http.MethodPost, "/api/toggle", `{"field":"colour","value":"red"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/toggle", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}

	if got := srv.Session().Selection().Module; got != catalog.ModuleFirstSolar525 {
		t.Fatalf("rejected toggles must not change the selection, module %q", got)
	}
}

func TestParamsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/params", `{"row_length":500,"block_count":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var st designer.State
	decode(t, rec, &st)
	if st.Params.RowLength != 300 {
		t.Fatalf("expected row length clamped to 300, got %v", st.Params.RowLength)
	}
	if st.Params.BlockCount != 2 {
		t.Fatalf("expected 2 blocks, got %d", st.Params.BlockCount)
	}

	rec = do(t, h, http.MethodPost, "/api/params", `{"tilt":30}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown parameter, got %d", rec.Code)
	}
	if got := srv.Session().Params().BlockCount; got != 2 {
		t.Fatalf("rejected update must keep params, block count %d", got)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv, reg := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/layout", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before a match, got %d", rec.Code)
	}

	for _, body := range []string{
		`{"field":"module","value":"bifacial"}`,
		`{"field":"inverter","value":"distributed"}`,
		`{"field":"dcCollection","value":"homeruns"}`,
		`{"field":"dcCombination","value":"none"}`,
	} {
		if rec := do(t, h, http.MethodPost, "/api/toggle", body); rec.Code != http.StatusOK {
			t.Fatalf("toggle %s: %d %s", body, rec.Code, rec.Body.String())
		}
	}

	rec = do(t, h, http.MethodGet, "/api/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var l layout.Layout
	decode(t, rec, &l)
	if l.EntryID != "B1" {
		t.Fatalf("expected B1, got %q", l.EntryID)
	}
	if l.Stats.TotalMW != 1.6128 {
		t.Fatalf("expected 1.6128 MW, got %v", l.Stats.TotalMW)
	}
	if len(l.Rows) != 48 {
		t.Fatalf("expected 48 rows, got %d", len(l.Rows))
	}

	rec = do(t, h, http.MethodGet, "/api/layout?format=text", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Site 1 of 8: B1") {
		t.Fatalf("unexpected text layout:\n%s", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/layout?format=xml", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ebos_layout_builds_total") {
		t.Fatalf("metrics missing layout builds:\n%s", rec.Body.String())
	}
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("gather: %v", err)
	}
}

func TestUndoAndResetEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/undo", "")
	var undo undoResponse
	decode(t, rec, &undo)
	if undo.Undone {
		t.Fatal("nothing to undo on a fresh session")
	}

	do(t, h, http.MethodPost, "/api/toggle", `{"field":"module","value":"bifacial"}`)
	do(t, h, http.MethodPost, "/api/toggle", `{"field":"inverter","value":"central"}`)

	rec = do(t, h, http.MethodPost, "/api/undo", "")
	decode(t, rec, &undo)
	if !undo.Undone || undo.State.Selection.Inverter != "" {
		t.Fatalf("expected inverter undone, got %+v", undo)
	}

	rec = do(t, h, http.MethodPost, "/api/reset", "")
	var st designer.State
	decode(t, rec, &st)
	if st.Selection.Count() != 0 {
		t.Fatalf("expected empty selection, got %s", st.Selection)
	}

	rec = do(t, h, http.MethodGet, "/api/reset", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestIndexPage(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"eBOS Configurator", "Bifacial 600W", "Central Inverters"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index missing %q", want)
		}
	}

	rec = do(t, h, http.MethodGet, "/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestReplaceSwapsSession(t *testing.T) {
	srv, _ := newTestServer(t)
	next, err := designer.New(catalog.Default())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := next.ToggleNamed("module", "bifacial"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	srv.Replace(next)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/state", "")
	var st designer.State
	decode(t, rec, &st)
	if st.Selection.Module != catalog.ModuleBifacial600 {
		t.Fatalf("expected replaced session, got %s", st.Selection)
	}
}

func TestStartAndClose(t *testing.T) {
	srv, _ := newTestServer(t)
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Close()

	resp, err := http.Get("http://" + srv.Addr() + "/api/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
