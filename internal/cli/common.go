package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/timzifer/ebos/config"
	"github.com/timzifer/ebos/designer"
	"github.com/timzifer/ebos/internal/logging"
	"github.com/timzifer/ebos/processor"
	"github.com/timzifer/ebos/report"
	"github.com/timzifer/ebos/spatial"
	"github.com/timzifer/ebos/telemetry"
)

func (o *globalOptions) outputFormat() (report.Format, error) {
	if o.jsonOutput {
		return report.FormatJSON, nil
	}
	return report.ParseFormat(o.format)
}

func (o *globalOptions) reportOptions() (report.Options, error) {
	tag, err := language.Parse(o.locale)
	if err != nil {
		return report.Options{}, fmt.Errorf("invalid locale %q: %w", o.locale, err)
	}
	return report.Options{NoColor: o.noColor || color.NoColor, Locale: tag}, nil
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.configPath)
}

// openSession builds a one-shot session from the site file. Metrics are not
// collected outside serve.
func (o *globalOptions) openSession(ctx context.Context, cfg *config.Config) (*designer.Session, func(), error) {
	logger := zerolog.Nop()
	cleanup := func() {}
	if o.verbose {
		l, c, err := logging.Setup(cfg.Logging)
		if err != nil {
			return nil, nil, err
		}
		logger, cleanup = l, c
	}
	proc, err := processor.New(ctx,
		processor.WithConfig(cfg),
		processor.WithLogger(logger),
		processor.WithTelemetry(telemetry.Noop()),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return proc.Session(), func() {
		proc.Close()
		cleanup()
	}, nil
}

// applySelections toggles each field=value pair in order.
func applySelections(s *designer.Session, pairs []string) error {
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid selection %q, expected field=value", pair)
		}
		if _, err := s.ToggleNamed(field, value); err != nil {
			return err
		}
	}
	return nil
}

// applyParams sets each name=value spatial parameter in order.
func applyParams(s *designer.Session, pairs []string) error {
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid parameter %q, expected name=value", pair)
		}
		if _, err := s.SetParam(name, value); err != nil {
			return err
		}
	}
	return nil
}

func parameterNames() string {
	names := make([]string, 0, len(spatial.Parameters()))
	for _, p := range spatial.Parameters() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
