// Package config loads site files describing the catalog, the initial
// selection, the spatial parameters and the ambient settings of a design
// session.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/resolver"
	"github.com/timzifer/ebos/spatial"
)

// ErrUnsupportedFormat is returned for site files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported site file format")

// LokiConfig configures optional Loki integration for logging.
type LokiConfig struct {
	Enabled bool              `yaml:"enabled" json:"enabled"`
	URL     string            `yaml:"url" json:"url"`
	Labels  map[string]string `yaml:"labels" json:"labels"`
}

// LoggingConfig encapsulates runtime logging options.
type LoggingConfig struct {
	Level  string     `yaml:"level" json:"level"`
	Format string     `yaml:"format" json:"format"`
	Loki   LokiConfig `yaml:"loki" json:"loki"`
}

// TelemetryConfig selects the metrics backend.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Provider string `yaml:"provider" json:"provider"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Listen string `yaml:"listen" json:"listen"`
}

// EntryConfig is a catalog entry as written in a site file. Values may use
// any accepted alias.
type EntryConfig struct {
	ID            string `yaml:"id" json:"id"`
	Class         string `yaml:"class" json:"class"`
	Module        string `yaml:"module" json:"module"`
	Inverter      string `yaml:"inverter" json:"inverter"`
	DCCollection  string `yaml:"dc_collection" json:"dc_collection"`
	DCCombination string `yaml:"dc_combination" json:"dc_combination"`
}

// RuleConfig is an additional hard constraint.
type RuleConfig struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Expression  string `yaml:"expression" json:"expression"`
}

// CatalogConfig selects a preset or supplies custom entries.
type CatalogConfig struct {
	Preset  string        `yaml:"preset,omitempty" json:"preset,omitempty"`
	Entries []EntryConfig `yaml:"entries,omitempty" json:"entries,omitempty"`
	Rules   []RuleConfig  `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// SelectionConfig is the initial selection. Fields are applied in dependency
// order.
type SelectionConfig struct {
	Module        string `yaml:"module,omitempty" json:"module,omitempty"`
	Inverter      string `yaml:"inverter,omitempty" json:"inverter,omitempty"`
	DCCollection  string `yaml:"dc_collection,omitempty" json:"dc_collection,omitempty"`
	DCCombination string `yaml:"dc_combination,omitempty" json:"dc_combination,omitempty"`
}

// SpatialConfig overrides individual spatial parameters. Unset fields keep
// their defaults.
type SpatialConfig struct {
	RowLength   *float64 `yaml:"row_length,omitempty" json:"row_length,omitempty"`
	PostSpacing *float64 `yaml:"post_spacing,omitempty" json:"post_spacing,omitempty"`
	RowPitch    *float64 `yaml:"row_pitch,omitempty" json:"row_pitch,omitempty"`
	BlockRows   *int     `yaml:"block_rows,omitempty" json:"block_rows,omitempty"`
	BlockCount  *int     `yaml:"block_count,omitempty" json:"block_count,omitempty"`
}

// Config is the root of a site file.
type Config struct {
	Name      string          `yaml:"name,omitempty" json:"name,omitempty"`
	Catalog   CatalogConfig   `yaml:"catalog" json:"catalog"`
	Selection SelectionConfig `yaml:"selection" json:"selection"`
	Spatial   SpatialConfig   `yaml:"spatial" json:"spatial"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	HotReload bool            `yaml:"hot_reload,omitempty" json:"hot_reload,omitempty"`
	Source    string          `yaml:"-" json:"-"`
}

// Default returns the configuration used when no site file is given.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{Preset: catalog.PresetSite},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server:  ServerConfig{Listen: "127.0.0.1:8080"},
	}
}

// Load reads and decodes a site file from disk.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(abs, raw)
	if err != nil {
		return nil, err
	}
	cfg.Source = abs
	return cfg, nil
}

// Parse decodes raw site file content. The file name selects the format.
func Parse(name string, raw []byte) (*Config, error) {
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unmarshal config %s: %w", filepath.Base(name), err)
		}
	case ".cue", ".json":
		if err := decodeCUE(name, raw, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", filepath.Base(name), err)
	}
	return cfg, nil
}

// Validate checks every value that can be checked without building the
// catalog.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging format %q must be json or text", c.Logging.Format)
	}
	switch strings.ToLower(c.Telemetry.Provider) {
	case "", "prometheus", "noop":
	default:
		return fmt.Errorf("telemetry provider %q is not supported", c.Telemetry.Provider)
	}
	if c.Logging.Loki.Enabled && strings.TrimSpace(c.Logging.Loki.URL) == "" {
		return errors.New("logging.loki.url is required when loki is enabled")
	}
	if _, err := c.SelectionValues(); err != nil {
		return err
	}
	return nil
}

// Definition assembles the catalog definition described by the file without
// validating it.
func (c *Config) Definition() (catalog.Definition, error) {
	var def catalog.Definition
	if len(c.Catalog.Entries) == 0 {
		preset, err := catalog.PresetDefinition(c.Catalog.Preset)
		if err != nil {
			return catalog.Definition{}, err
		}
		def = preset
	} else {
		if c.Catalog.Preset != "" {
			preset, err := catalog.PresetDefinition(c.Catalog.Preset)
			if err != nil {
				return catalog.Definition{}, err
			}
			def.Rules = preset.Rules
		}
		def.Name = firstNonEmpty(c.Name, "custom")
		for _, raw := range c.Catalog.Entries {
			entry, err := raw.entry()
			if err != nil {
				return catalog.Definition{}, err
			}
			def.Entries = append(def.Entries, entry)
		}
	}
	for _, rule := range c.Catalog.Rules {
		def.Rules = append(def.Rules, catalog.Rule{ID: rule.ID, Description: rule.Description, Expression: rule.Expression})
	}
	return def, nil
}

// BuildCatalog constructs the catalog described by the file.
func (c *Config) BuildCatalog() (*catalog.Catalog, error) {
	def, err := c.Definition()
	if err != nil {
		return nil, err
	}
	return catalog.New(def)
}

func (e EntryConfig) entry() (catalog.Entry, error) {
	module, err := catalog.ParseModuleType(e.Module)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	inverter, err := catalog.ParseInverterArchitecture(e.Inverter)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	collection, err := catalog.ParseDCCollection(e.DCCollection)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	combination, err := catalog.ParseDCCombination(e.DCCombination)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	return catalog.Entry{
		ID:            e.ID,
		Class:         catalog.Class(strings.ToUpper(e.Class)),
		Module:        module,
		Inverter:      inverter,
		DCCollection:  collection,
		DCCombination: combination,
	}, nil
}

// SelectionValues parses the initial selection. Values are normalised but not
// checked against a catalog; apply them through a design session.
func (c *Config) SelectionValues() (resolver.Selection, error) {
	raw := map[catalog.Field]string{
		catalog.FieldModule:        c.Selection.Module,
		catalog.FieldInverter:      c.Selection.Inverter,
		catalog.FieldDCCollection:  c.Selection.DCCollection,
		catalog.FieldDCCombination: c.Selection.DCCombination,
	}
	sel := resolver.Reset()
	for _, field := range catalog.Fields() {
		if strings.TrimSpace(raw[field]) == "" {
			continue
		}
		value, err := catalog.ParseValue(field, raw[field])
		if err != nil {
			return resolver.Selection{}, fmt.Errorf("selection: %w", err)
		}
		sel = sel.With(field, value)
	}
	return sel, nil
}

// Params returns the spatial parameters with overrides applied and clamped.
func (c *Config) Params() spatial.Params {
	p := spatial.Default()
	s := c.Spatial
	if s.RowLength != nil {
		p = p.With(spatial.RowLength, *s.RowLength)
	}
	if s.PostSpacing != nil {
		p = p.With(spatial.PostSpacing, *s.PostSpacing)
	}
	if s.RowPitch != nil {
		p = p.With(spatial.RowPitch, *s.RowPitch)
	}
	if s.BlockRows != nil {
		p = p.With(spatial.BlockRows, float64(*s.BlockRows))
	}
	if s.BlockCount != nil {
		p = p.With(spatial.BlockCount, float64(*s.BlockCount))
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
