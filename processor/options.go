package processor

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/timzifer/ebos/config"
	"github.com/timzifer/ebos/designer"
	"github.com/timzifer/ebos/telemetry"
)

// WithLogger provides a custom logger instance. The logging section of the
// site file is ignored when set.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.logger = logger
		cfg.customLogger = true
		return nil
	}
}

// WithConfigPath loads the site file from path. register, when non-nil,
// receives the processor's reload function.
func WithConfigPath(path string, register func(ReloadFunc)) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.configPath = strings.TrimSpace(path)
		cfg.registerReload = register
		return nil
	}
}

// WithConfig supplies an already loaded configuration.
func WithConfig(cfgData *config.Config) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.config = cfgData
		return nil
	}
}

// WithTelemetry injects a collector overriding the telemetry section.
func WithTelemetry(collector telemetry.Collector) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		if collector == nil {
			collector = telemetry.Noop()
		}
		cfg.telemetry = collector
		cfg.telemetryProvided = true
		return nil
	}
}

// WithRegistry registers metrics on reg instead of the default registry and
// serves it on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		if reg == nil {
			return errors.New("registry must not be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithServer enables the preview server. An empty listen address falls back
// to the server section of the site file.
func WithServer(listen string) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.serve = true
		cfg.listen = strings.TrimSpace(listen)
		return nil
	}
}

// WithSessionOptions appends options applied to every session the processor
// creates.
func WithSessionOptions(opts ...designer.Option) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.sessionOptions = append(cfg.sessionOptions, opts...)
		return nil
	}
}
