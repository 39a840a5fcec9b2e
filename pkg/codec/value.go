// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codec

import (
	"time"

	"github.com/google/uuid"
)

// Value is the closed set of types the store can encode. Only the types
// declared in this package implement it.
type Value interface {
	kind() string
}

type (
	// Null is an explicit null.
	Null struct{}

	// String is a string scalar.
	String string

	// Int is an integer scalar.
	Int int

	// Bool is a boolean scalar.
	Bool bool

	// Double is a 64-bit float scalar.
	Double float64

	// Float is a 32-bit float scalar.
	Float float32

	// StringList is a list of string scalars.
	StringList []string

	// IntList is a list of integer scalars.
	IntList []int

	// Long is stored as a decimal string so no reader loses precision.
	Long int64

	// UUID is stored in its canonical string form.
	UUID uuid.UUID

	// Date is stored as a Long of Unix milliseconds.
	Date time.Time
)

// Enum is a constant of an enum type registered with the Registry, stored by
// its constant name.
type Enum struct {
	Type string
	Name string
}

// Location is a position with orientation inside a world.
type Location struct {
	World      World
	X, Y, Z    float64
	Yaw, Pitch float32
}

// Chunk is a grid cell of a world.
type Chunk struct {
	World World
	X, Z  int
}

// WorldRef references a world by name.
type WorldRef struct {
	World World
}

// Inventory is a fixed-capacity container; len(Slots) is its size. A nil
// slot is empty. Slot contents are opaque and handled by the ItemCodec.
type Inventory struct {
	Slots []any
}

// Item is a single inventory slot value handled by the ItemCodec.
type Item struct {
	Value any
}

func (Null) kind() string       { return "null" }
func (String) kind() string     { return "string" }
func (Int) kind() string        { return "int" }
func (Bool) kind() string       { return "bool" }
func (Double) kind() string     { return "double" }
func (Float) kind() string      { return "float" }
func (StringList) kind() string { return "string-list" }
func (IntList) kind() string    { return "int-list" }
func (Long) kind() string       { return "long" }
func (UUID) kind() string       { return "uuid" }
func (Date) kind() string       { return "date" }
func (Enum) kind() string       { return "enum" }
func (Location) kind() string   { return "location" }
func (Chunk) kind() string      { return "chunk" }
func (WorldRef) kind() string   { return "world" }
func (Inventory) kind() string  { return "inventory" }
func (Item) kind() string       { return "item" }

// Kind names the variant of v ("int", "location", ...). A nil Value is "null".
func Kind(v Value) string {
	if v == nil {
		return Null{}.kind()
	}
	return v.kind()
}

// Time returns d as a time.Time.
func (d Date) Time() time.Time { return time.Time(d) }

// String returns the canonical form of u.
func (u UUID) String() string { return uuid.UUID(u).String() }

var zeros = []Value{
	Null{}, String(""), Int(0), Bool(false), Double(0), Float(0),
	StringList(nil), IntList(nil), Long(0), UUID{}, Date{},
	Location{}, Chunk{}, WorldRef{}, Inventory{}, Item{},
}

// Zero returns the zero value of the variant named kind, for use as the
// like argument of Decode. Enum is not included: it needs a type name.
func Zero(kind string) (Value, bool) {
	for _, z := range zeros {
		if z.kind() == kind {
			return z, true
		}
	}
	return nil, false
}

// Kinds lists the names Zero accepts, in declaration order.
func Kinds() []string {
	names := make([]string, len(zeros))
	for i, z := range zeros {
		names[i] = z.kind()
	}
	return names
}
