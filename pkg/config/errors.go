// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"

	"github.com/ManuGH/plugconf/pkg/codec"
	"github.com/ManuGH/plugconf/pkg/keypath"
	"github.com/ManuGH/plugconf/pkg/tree"
)

// Error kinds returned by Config. Match them with errors.Is.
var (
	ErrParse            = tree.ErrParse
	ErrIO               = tree.ErrIO
	ErrNoSuchSection    = tree.ErrNoSuchSection
	ErrMissingField     = codec.ErrMissingField
	ErrTypeMismatch     = codec.ErrTypeMismatch
	ErrInvalidEnumValue = codec.ErrInvalidEnumValue
	ErrUnknownEnum      = codec.ErrUnknownEnum
	ErrUnresolvedWorld  = codec.ErrUnresolvedWorld
	ErrInvalidValue     = codec.ErrInvalidValue
	ErrInvalidPath      = keypath.ErrInvalidPath
)

// errorKind maps err onto a short label for logs and metrics.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrInvalidEnumValue):
		return "invalid_enum_value"
	case errors.Is(err, ErrUnknownEnum):
		return "unknown_enum"
	case errors.Is(err, ErrUnresolvedWorld):
		return "unresolved_world"
	case errors.Is(err, ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrNoSuchSection):
		return "no_such_section"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrIO):
		return "io_error"
	default:
		return "other"
	}
}

// repairable reports whether GetOrSetDefault may overwrite the stored
// content after a decode failed with err.
func repairable(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrInvalidEnumValue)
}
