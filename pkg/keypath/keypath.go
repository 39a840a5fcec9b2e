// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package keypath implements the dot-separated path algebra used to address
// nodes in a configuration document.
//
// A path is a sequence of non-empty segments joined by Separator. Paths are
// case-sensitive and opaque beyond segment splitting. The empty path denotes
// the document root.
package keypath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator joins path segments.
const Separator = "."

// ErrInvalidPath reports a path with an empty segment.
var ErrInvalidPath = errors.New("invalid path")

// Join concatenates parts with Separator, skipping empty parts.
func Join(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(p)
	}
	return b.String()
}

// Split returns the segments of path. The empty path has no segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Parent returns path without its last segment.
func Parent(path string) string {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// Base returns the last segment of path.
func Base(path string) string {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// Index addresses the i-th numbered child of base, e.g. "chest.3".
func Index(base string, i int) string {
	return Join(base, strconv.Itoa(i))
}

// Validate reports ErrInvalidPath if any segment of path is empty.
// The empty path itself is valid and denotes the root.
func Validate(path string) error {
	if path == "" {
		return nil
	}
	for i, seg := range strings.Split(path, Separator) {
		if seg == "" {
			return fmt.Errorf("%w: %q has an empty segment at position %d", ErrInvalidPath, path, i)
		}
	}
	return nil
}

// HasPrefix reports whether ancestor equals path or is one of its ancestors,
// comparing whole segments ("a.b" contains "a.b.c" but not "a.bc").
func HasPrefix(path, ancestor string) bool {
	if ancestor == "" {
		return true
	}
	if path == ancestor {
		return true
	}
	return strings.HasPrefix(path, ancestor+Separator)
}
