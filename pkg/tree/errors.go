// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrParse classifies malformed documents. Use errors.Is(err, ErrParse).
	ErrParse = errors.New("malformed document")

	// ErrIO classifies load/save failures of the backing file.
	ErrIO = errors.New("document i/o failed")

	// ErrNoSuchSection is returned when a path does not resolve to a map node.
	ErrNoSuchSection = errors.New("no such section")
)

// ParseError reports a backing file that exists but is not a valid document.
type ParseError struct {
	File string // empty when parsing bytes
	Line int    // 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	where := "parse document"
	if e.File != "" {
		where += " " + e.File
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", where, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// IOError reports a failure reading or writing the backing file.
type IOError struct {
	Op   string // "load" or "save"
	File string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s document %s: %v", e.Op, e.File, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
