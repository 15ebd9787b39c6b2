package config

import (
	_ "embed"
	"fmt"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Schema returns the CUE definition site files are validated against.
func Schema() string { return schemaSource }

// decodeCUE compiles a CUE or JSON site file, unifies it with #Site and
// decodes the concrete result into cfg. Defaults already in cfg survive for
// fields the file leaves unset.
func decodeCUE(name string, raw []byte, cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile site schema: %w", err)
	}
	site := schema.LookupPath(cue.ParsePath("#Site"))

	value := ctx.CompileBytes(raw, cue.Filename(filepath.Base(name)))
	if err := value.Err(); err != nil {
		return fmt.Errorf("compile %s: %s", filepath.Base(name), cueerrors.Details(err, nil))
	}
	unified := site.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validate %s: %s", filepath.Base(name), cueerrors.Details(err, nil))
	}
	if err := unified.Decode(cfg); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(name), err)
	}
	return nil
}
