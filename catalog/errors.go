package catalog

import "errors"

var (
	// ErrUnknownField indicates a field name outside the four configuration axes.
	ErrUnknownField = errors.New("unknown configuration field")
	// ErrInvalidFieldValue indicates a value outside a field's closed enumeration.
	ErrInvalidFieldValue = errors.New("invalid field value")
	// ErrDuplicateEntry indicates two catalog entries sharing an id or a tuple.
	ErrDuplicateEntry = errors.New("duplicate catalog entry")
	// ErrMissingMetadata indicates an entry referencing a module or inverter without specs.
	ErrMissingMetadata = errors.New("missing catalog metadata")
	// ErrRuleViolation indicates an entry rejected by a catalog rule.
	ErrRuleViolation = errors.New("catalog rule violated")
	// ErrUnknownPreset indicates a preset name that is not built in.
	ErrUnknownPreset = errors.New("unknown catalog preset")
)
