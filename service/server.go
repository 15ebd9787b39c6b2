// Package service serves one design session over HTTP so a browser or an
// external renderer can drive the wizard and fetch layouts.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/timzifer/ebos/designer"
	"github.com/timzifer/ebos/report"
	"github.com/timzifer/ebos/spatial"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// Server wraps a session. Requests are serialised on a mutex since sessions
// are single-user.
type Server struct {
	mu      sync.Mutex
	session *designer.Session

	logger   zerolog.Logger
	gatherer prometheus.Gatherer

	server *http.Server
	ln     net.Listener
}

type toggleRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type toggleResponse struct {
	Change designer.Change `json:"change"`
	State  designer.State  `json:"state"`
}

type undoResponse struct {
	Undone bool           `json:"undone"`
	State  designer.State `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a server for session.
func New(session *designer.Session, opts ...Option) *Server {
	s := &Server{session: session, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/toggle", s.handleToggle)
	mux.HandleFunc("/api/params", s.handleParams)
	mux.HandleFunc("/api/undo", s.handleUndo)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/layout", s.handleLayout)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.server = srv
	s.ln = ln

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("preview server stopped")
		}
	}()

	s.logger.Info().Str("listen", ln.Addr().String()).Msg("preview server started")
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Session returns the served session.
func (s *Server) Session() *designer.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Replace swaps the served session.
func (s *Server) Replace(session *designer.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
}

// Close stops the listener.
func (s *Server) Close() {
	if s == nil || s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil && err != context.Canceled {
		s.logger.Error().Err(err).Msg("shutdown preview server")
	}
}

func (s *Server) state() designer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.State()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, s.state()); err != nil {
		s.logger.Error().Err(err).Msg("render preview page")
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	s.mu.Lock()
	change, err := s.session.ToggleNamed(req.Field, req.Value)
	st := s.session.State()
	s.mu.Unlock()

	switch {
	case errors.Is(err, designer.ErrOptionUnavailable):
		s.writeError(w, http.StatusConflict, err)
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err)
	default:
		s.writeJSON(w, http.StatusOK, toggleResponse{Change: change, State: st})
	}
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()
	var req map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	s.mu.Lock()
	next := s.session.Params()
	for name, value := range req {
		param, err := spatial.ParseParameter(name)
		if err != nil {
			s.mu.Unlock()
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		next = next.With(param, value)
	}
	s.session.SetParams(next)
	st := s.session.State()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	undone := s.session.Undo()
	st := s.session.State()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, undoResponse{Undone: undone, State: st})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	s.session.Reset()
	st := s.session.State()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format := report.FormatJSON
	if raw := r.URL.Query().Get("format"); raw != "" {
		parsed, err := report.ParseFormat(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		format = parsed
	}

	s.mu.Lock()
	l, err := s.session.Layout()
	cat := s.session.Catalog()
	s.mu.Unlock()
	if errors.Is(err, designer.ErrNotMatched) {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	switch format {
	case report.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
	case report.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	if err := report.Layout(w, cat, l, format, report.Options{NoColor: true}); err != nil {
		s.logger.Error().Err(err).Msg("encode layout")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
