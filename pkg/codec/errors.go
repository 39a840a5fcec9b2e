// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField reports an absent (or null) path a decoder requires.
	ErrMissingField = errors.New("missing field")

	// ErrTypeMismatch reports a stored node that does not represent the
	// requested type without loss.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidEnumValue reports a stored name that is not a constant of
	// the requested enum type.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrUnknownEnum reports a decode against an enum type that was never
	// registered.
	ErrUnknownEnum = errors.New("unknown enum type")

	// ErrUnresolvedWorld reports a world name the resolver does not know.
	ErrUnresolvedWorld = errors.New("unresolved world")

	// ErrInvalidValue reports a value that cannot be encoded.
	ErrInvalidValue = errors.New("invalid value")
)

// DecodeError carries the failing path of a decode together with one of
// the sentinel kinds above.
type DecodeError struct {
	Path     string
	Kind     error
	Expected string // set for ErrTypeMismatch
	Actual   string // set for ErrTypeMismatch
	Err      error  // optional underlying cause
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %q: %v", e.Path, e.Kind)
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": want %s, got %s", e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func missing(path string) error {
	return &DecodeError{Path: path, Kind: ErrMissingField}
}

func mismatch(path, expected, actual string) error {
	return &DecodeError{Path: path, Kind: ErrTypeMismatch, Expected: expected, Actual: actual}
}
