// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codec

import (
	"fmt"
	"slices"
)

// EnumType is a named table of constants, such as the sound names a host
// exposes.
type EnumType struct {
	name      string
	constants []string
	index     map[string]struct{}
}

// NewEnumType builds an enum table. Matching is exact and case-sensitive.
func NewEnumType(name string, constants ...string) *EnumType {
	t := &EnumType{
		name:      name,
		constants: slices.Clone(constants),
		index:     make(map[string]struct{}, len(constants)),
	}
	for _, c := range constants {
		t.index[c] = struct{}{}
	}
	return t
}

// Name returns the type name used to register and look up the table.
func (t *EnumType) Name() string { return t.name }

// Constants returns the declared constants in order.
func (t *EnumType) Constants() []string { return slices.Clone(t.constants) }

// Has reports whether name is a declared constant.
func (t *EnumType) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Parse returns the Enum for name or ErrInvalidEnumValue.
func (t *EnumType) Parse(name string) (Enum, error) {
	if !t.Has(name) {
		return Enum{}, fmt.Errorf("%w: %q is not a %s", ErrInvalidEnumValue, name, t.name)
	}
	return Enum{Type: t.name, Name: name}, nil
}
