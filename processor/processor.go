// Package processor wires a site file into a running design session: it
// builds the catalog, opens the session, serves the preview and rebuilds
// everything when the site file changes.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/config"
	"github.com/timzifer/ebos/designer"
	"github.com/timzifer/ebos/internal/logging"
	"github.com/timzifer/ebos/internal/reload"
	"github.com/timzifer/ebos/service"
	"github.com/timzifer/ebos/telemetry"
)

// ReloadFunc re-reads the site file and replaces the session.
type ReloadFunc func(ctx context.Context) error

// Option configures the processor during construction.
type Option func(*settings) error

type settings struct {
	config            *config.Config
	configPath        string
	registerReload    func(ReloadFunc)
	logger            zerolog.Logger
	customLogger      bool
	telemetry         telemetry.Collector
	telemetryProvided bool
	registry          *prometheus.Registry
	serve             bool
	listen            string
	sessionOptions    []designer.Option
}

// Processor owns the session lifecycle.
type Processor struct {
	mu sync.Mutex

	config     *config.Config
	configPath string

	collector telemetry.Collector
	gatherer  prometheus.Gatherer

	customLogger bool
	baseLogger   zerolog.Logger

	sessionOptions []designer.Option

	serve  bool
	listen string
	server *service.Server

	watcher  *reload.Watcher
	reloadCh chan reloadRequest

	current *runtimeState
	running bool
}

type runtimeState struct {
	cfg     *config.Config
	logger  zerolog.Logger
	cleanup func()
	catalog *catalog.Catalog
	session *designer.Session
}

type reloadRequest struct {
	done  chan error
	files []string
}

// New constructs a processor with the supplied options.
func New(ctx context.Context, opts ...Option) (*Processor, error) {
	if ctx != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	cfg := settings{
		logger:    zerolog.Nop(),
		telemetry: telemetry.Noop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		if cfg.configPath == "" {
			return nil, errors.New("configuration path required")
		}
		loaded, err := config.Load(cfg.configPath)
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		cfg.config = loaded
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.registry != nil {
		registerer, gatherer = cfg.registry, cfg.registry
	}

	if !cfg.telemetryProvided {
		collector, err := newTelemetryCollector(cfg.config.Telemetry, registerer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "telemetry disabled: %v\n", err)
			cfg.telemetry = telemetry.Noop()
		} else {
			cfg.telemetry = collector
		}
	}

	proc := &Processor{
		config:         cfg.config,
		configPath:     cfg.configPath,
		collector:      cfg.telemetry,
		gatherer:       gatherer,
		customLogger:   cfg.customLogger,
		baseLogger:     cfg.logger,
		sessionOptions: cfg.sessionOptions,
		serve:          cfg.serve,
		listen:         cfg.listen,
	}

	runtime, err := proc.buildRuntime(cfg.config)
	if err != nil {
		return nil, err
	}
	proc.current = runtime

	if cfg.configPath != "" {
		proc.reloadCh = make(chan reloadRequest)
	}
	if err := proc.initWatcher(cfg.config); err != nil {
		runtime.cleanup()
		return nil, err
	}

	if cfg.registerReload != nil {
		cfg.registerReload(proc.Reload)
	}
	return proc, nil
}

// Config returns the active configuration.
func (p *Processor) Config() *config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// Catalog returns the active catalog.
func (p *Processor) Catalog() *catalog.Catalog {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	return p.current.catalog
}

// Session returns the active session.
func (p *Processor) Session() *designer.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	return p.current.session
}

// Addr returns the preview server address once Run has started it.
func (p *Processor) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.server == nil {
		return ""
	}
	return p.server.Addr()
}

// Run serves the session until ctx is cancelled, swapping in a fresh session
// whenever the site file changes or Reload is called.
func (p *Processor) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return errors.New("processor not initialized")
	}
	if p.running {
		p.mu.Unlock()
		return errors.New("processor already running")
	}
	p.running = true
	current := p.current
	watcher := p.watcher
	reloadCh := p.reloadCh
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	if p.serve {
		srv := service.New(current.session, service.WithLogger(current.logger), service.WithGatherer(p.gatherer))
		if err := srv.Start(p.listenAddress(current.cfg)); err != nil {
			return fmt.Errorf("start preview server: %w", err)
		}
		p.mu.Lock()
		p.server = srv
		p.mu.Unlock()
		defer func() {
			srv.Close()
			p.mu.Lock()
			p.server = nil
			p.mu.Unlock()
		}()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan []string)
	stopWatcher := p.startWatcher(runCtx, watcher, changes)
	defer func() { stopWatcher() }()

	// A reload may enable, disable or replace the watcher.
	syncWatcher := func() {
		next := p.currentWatcher()
		if next == watcher {
			return
		}
		stopWatcher()
		watcher = next
		stopWatcher = p.startWatcher(runCtx, watcher, changes)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-reloadCh:
			err := p.reload(req.files)
			syncWatcher()
			if req.done != nil {
				req.done <- err
			}
		case files := <-changes:
			if err := p.reload(files); err != nil {
				logger := p.logger()
				logger.Error().Err(err).Strs("files", files).Msg("failed to reload configuration")
			}
			syncWatcher()
		}
	}
}

// startWatcher runs w until the returned stop function is called or ctx ends.
// A nil watcher yields a no-op stop function.
func (p *Processor) startWatcher(ctx context.Context, w *reload.Watcher, changes chan<- []string) func() {
	if w == nil {
		return func() {}
	}
	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := w.Run(watchCtx, time.Second, func(files []string) {
			select {
			case changes <- files:
			case <-watchCtx.Done():
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger := p.logger()
			logger.Error().Err(err).Msg("configuration watcher stopped")
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (p *Processor) currentWatcher() *reload.Watcher {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.watcher
}

// Reload re-reads the site file and replaces the session.
func (p *Processor) Reload(ctx context.Context) error {
	p.mu.Lock()
	running := p.running
	reloadCh := p.reloadCh
	p.mu.Unlock()

	if reloadCh == nil {
		return errors.New("reload not supported without configuration path")
	}
	if !running {
		return p.reload(nil)
	}

	req := reloadRequest{done: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case reloadCh <- req:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-req.done:
		return err
	}
}

// Close releases resources managed by the processor.
func (p *Processor) Close() {
	p.mu.Lock()
	current := p.current
	server := p.server
	p.current = nil
	p.server = nil
	p.mu.Unlock()

	server.Close()
	if current != nil {
		current.cleanup()
	}
}

func (p *Processor) reload(files []string) error {
	cfg, err := p.loadConfig()
	if err != nil {
		return err
	}
	runtime, err := p.buildRuntime(cfg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	old := p.current
	p.current = runtime
	p.config = cfg
	server := p.server
	err = p.initWatcher(cfg)
	p.mu.Unlock()
	if err != nil {
		runtime.logger.Error().Err(err).Msg("failed to update configuration watcher")
	}

	if server != nil {
		server.Replace(runtime.session)
	}
	if old != nil {
		old.cleanup()
	}

	if len(files) == 0 {
		files = []string{cfg.Source}
	}
	for _, file := range files {
		p.collector.IncHotReload(file)
	}
	runtime.logger.Info().
		Str("catalog", runtime.catalog.Name()).
		Int("entries", runtime.catalog.Len()).
		Strs("files", files).
		Msg("configuration reloaded")
	return nil
}

func (p *Processor) buildRuntime(cfg *config.Config) (*runtimeState, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	runtime := &runtimeState{cfg: cfg, cleanup: func() {}}
	if p.customLogger {
		runtime.logger = p.baseLogger
	} else {
		logger, cleanup, err := logging.Setup(cfg.Logging)
		if err != nil {
			return nil, err
		}
		runtime.logger = logger
		runtime.cleanup = cleanup
	}
	log.Logger = runtime.logger

	cat, err := cfg.BuildCatalog()
	if err != nil {
		runtime.cleanup()
		return nil, err
	}
	sel, err := cfg.SelectionValues()
	if err != nil {
		runtime.cleanup()
		return nil, err
	}

	opts := []designer.Option{
		designer.WithLogger(runtime.logger),
		designer.WithTelemetry(p.collector),
		designer.WithParams(cfg.Params()),
		designer.WithSelection(sel),
	}
	opts = append(opts, p.sessionOptions...)
	session, err := designer.New(cat, opts...)
	if err != nil {
		runtime.cleanup()
		return nil, err
	}
	runtime.catalog = cat
	runtime.session = session
	return runtime, nil
}

func (p *Processor) loadConfig() (*config.Config, error) {
	if p.configPath == "" {
		return nil, errors.New("configuration path not configured")
	}
	return config.Load(p.configPath)
}

func (p *Processor) initWatcher(cfg *config.Config) error {
	if p.configPath == "" || !cfg.HotReload {
		p.watcher = nil
		return nil
	}
	path := cfg.Source
	if path == "" {
		path = p.configPath
	}
	if p.watcher == nil {
		watcher, err := reload.NewWatcher(path)
		if err != nil {
			return err
		}
		p.watcher = watcher
		return nil
	}
	return p.watcher.Update(path)
}

func (p *Processor) listenAddress(cfg *config.Config) string {
	if p.listen != "" {
		return p.listen
	}
	return cfg.Server.Listen
}

func (p *Processor) logger() zerolog.Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return p.baseLogger
	}
	return p.current.logger
}
