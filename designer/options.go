package designer

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/timzifer/ebos/resolver"
	"github.com/timzifer/ebos/spatial"
	"github.com/timzifer/ebos/telemetry"
)

// Option configures a session during construction.
type Option func(*settings) error

type settings struct {
	logger       zerolog.Logger
	telemetry    telemetry.Collector
	params       spatial.Params
	selection    resolver.Selection
	historyLimit int
}

// WithLogger provides a custom logger instance for the session.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.logger = logger
		return nil
	}
}

// WithTelemetry injects a metrics collector.
func WithTelemetry(collector telemetry.Collector) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		if collector == nil {
			collector = telemetry.Noop()
		}
		cfg.telemetry = collector
		return nil
	}
}

// WithParams sets the initial spatial parameters. They are clamped.
func WithParams(p spatial.Params) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.params = spatial.Clamp(p)
		return nil
	}
}

// WithSelection sets the initial selection. Its fields are toggled in
// dependency order, so every value must be reachable from the ones before it.
func WithSelection(sel resolver.Selection) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.selection = sel
		return nil
	}
}

// WithHistoryLimit bounds the number of undo steps kept.
func WithHistoryLimit(n int) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		if n < 0 {
			return fmt.Errorf("history limit must be non-negative")
		}
		cfg.historyLimit = n
		return nil
	}
}
