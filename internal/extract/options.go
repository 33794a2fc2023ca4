package extract

import (
	"fmt"
	"strings"
)

// Policy decides which functions and constants are emitted.
type Policy string

const (
	// EmitDocumented emits functions and constants only when they carry /// docs.
	EmitDocumented Policy = "documented"
	// EmitAll emits every named function and constant.
	EmitAll Policy = "all"
)

// DefaultImportBuiltin is the builtin Zig uses to import another module.
const DefaultImportBuiltin = "@import"

// ParsePolicy parses a policy name (case-insensitive). An empty name selects EmitDocumented.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(EmitDocumented):
		return EmitDocumented, nil
	case string(EmitAll):
		return EmitAll, nil
	default:
		return "", fmt.Errorf("invalid emission policy %q (expected %q or %q)", s, EmitDocumented, EmitAll)
	}
}

// Options configures an Extractor.
type Options struct {
	// Emission is the emission policy for functions and constants.
	Emission Policy

	// ImportBuiltin is the callee name that marks a binding as an import.
	ImportBuiltin string
}

// DefaultOptions returns documented-only emission with the standard import builtin.
func DefaultOptions() Options {
	return Options{
		Emission:      EmitDocumented,
		ImportBuiltin: DefaultImportBuiltin,
	}
}

func (o Options) withDefaults() Options {
	if o.Emission == "" {
		o.Emission = EmitDocumented
	}
	if o.ImportBuiltin == "" {
		o.ImportBuiltin = DefaultImportBuiltin
	}
	return o
}

func (o Options) emit(doc string) bool {
	return o.Emission == EmitAll || doc != ""
}
