// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codec

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ManuGH/plugconf/pkg/keypath"
	"github.com/ManuGH/plugconf/pkg/tree"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Decode reads the value at path as the variant of like. It is the decode
// side of dispatch-by-requested-type: like only selects the decoder (and,
// for Enum, the enum type); its contents are ignored.
func (r *Registry) Decode(src Source, path string, like Value) (Value, error) {
	switch like := like.(type) {
	case nil, Null:
		n, ok := src.Get(path)
		if !ok {
			return nil, missing(path)
		}
		if !tree.IsNull(n) {
			return nil, mismatch(path, "null", tree.Describe(n))
		}
		return Null{}, nil
	case String:
		v, err := r.DecodeString(src, path)
		return result(String(v), err)
	case Int:
		v, err := r.DecodeInt(src, path)
		return result(Int(v), err)
	case Bool:
		v, err := r.DecodeBool(src, path)
		return result(Bool(v), err)
	case Double:
		v, err := r.DecodeDouble(src, path)
		return result(Double(v), err)
	case Float:
		v, err := r.DecodeFloat(src, path)
		return result(Float(v), err)
	case StringList:
		v, err := r.DecodeStringList(src, path)
		return result(StringList(v), err)
	case IntList:
		v, err := r.DecodeIntList(src, path)
		return result(IntList(v), err)
	case Long:
		v, err := r.DecodeLong(src, path)
		return result(Long(v), err)
	case UUID:
		v, err := r.DecodeUUID(src, path)
		return result(UUID(v), err)
	case Date:
		v, err := r.DecodeDate(src, path)
		return result(Date(v), err)
	case Enum:
		return result(r.DecodeEnum(src, path, like.Type))
	case Location:
		return result(r.DecodeLocation(src, path))
	case Chunk:
		return result(r.DecodeChunk(src, path))
	case WorldRef:
		w, ok, err := r.DecodeWorld(src, path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &DecodeError{Path: path, Kind: ErrUnresolvedWorld}
		}
		return WorldRef{World: w}, nil
	case Inventory:
		return result(r.DecodeInventory(src, path))
	case Item:
		v, err := r.DecodeItem(src, path)
		return result(Item{Value: v}, err)
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", ErrInvalidValue, like)
	}
}

func result(v Value, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// scalar returns the non-null scalar at path.
func scalar(src Source, path, expected string) (*yaml.Node, error) {
	n, ok := src.Get(path)
	if !ok || tree.IsNull(n) {
		return nil, missing(path)
	}
	if n.Kind != yaml.ScalarNode {
		return nil, mismatch(path, expected, tree.Describe(n))
	}
	return n, nil
}

// DecodeString accepts any non-null scalar and returns its literal text.
func (r *Registry) DecodeString(src Source, path string) (string, error) {
	n, err := scalar(src, path, "string")
	if err != nil {
		return "", err
	}
	return n.Value, nil
}

// DecodeInt requires an integer scalar that fits int. Floats are never
// truncated and numeric strings are never parsed.
func (r *Registry) DecodeInt(src Source, path string) (int, error) {
	n, err := scalar(src, path, tree.TagInt)
	if err != nil {
		return 0, err
	}
	i, err := intValue(n, path)
	if err != nil {
		return 0, err
	}
	if i < math.MinInt || i > math.MaxInt {
		return 0, mismatch(path, "int", "out of range "+n.Value)
	}
	return int(i), nil
}

func intValue(n *yaml.Node, path string) (int64, error) {
	if n.ShortTag() != tree.TagInt {
		return 0, mismatch(path, tree.TagInt, tree.Describe(n))
	}
	var i int64
	if err := n.Decode(&i); err != nil {
		return 0, &DecodeError{Path: path, Kind: ErrTypeMismatch, Expected: "int64", Actual: n.Value, Err: err}
	}
	return i, nil
}

// DecodeBool requires a boolean scalar.
func (r *Registry) DecodeBool(src Source, path string) (bool, error) {
	n, err := scalar(src, path, tree.TagBool)
	if err != nil {
		return false, err
	}
	if n.ShortTag() != tree.TagBool {
		return false, mismatch(path, tree.TagBool, tree.Describe(n))
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, &DecodeError{Path: path, Kind: ErrTypeMismatch, Expected: tree.TagBool, Actual: n.Value, Err: err}
	}
	return b, nil
}

// DecodeDouble accepts float and integer scalars.
func (r *Registry) DecodeDouble(src Source, path string) (float64, error) {
	n, err := scalar(src, path, tree.TagFloat)
	if err != nil {
		return 0, err
	}
	switch n.ShortTag() {
	case tree.TagFloat, tree.TagInt:
	default:
		return 0, mismatch(path, tree.TagFloat, tree.Describe(n))
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, &DecodeError{Path: path, Kind: ErrTypeMismatch, Expected: tree.TagFloat, Actual: n.Value, Err: err}
	}
	return f, nil
}

// DecodeFloat is DecodeDouble restricted to the float32 range.
func (r *Registry) DecodeFloat(src Source, path string) (float32, error) {
	f, err := r.DecodeDouble(src, path)
	if err != nil {
		return 0, err
	}
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return 0, mismatch(path, "float32", "out of range "+strconv.FormatFloat(f, 'g', -1, 64))
	}
	return float32(f), nil
}

// DecodeLong accepts the canonical decimal-string encoding as well as a
// plain integer scalar written by hand.
func (r *Registry) DecodeLong(src Source, path string) (int64, error) {
	n, err := scalar(src, path, "long")
	if err != nil {
		return 0, err
	}
	switch n.ShortTag() {
	case tree.TagStr:
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return 0, &DecodeError{Path: path, Kind: ErrTypeMismatch, Expected: "decimal long", Actual: strconv.Quote(n.Value), Err: err}
		}
		return i, nil
	case tree.TagInt:
		return intValue(n, path)
	default:
		return 0, mismatch(path, "long", tree.Describe(n))
	}
}

// DecodeDate reads a Long of Unix milliseconds.
func (r *Registry) DecodeDate(src Source, path string) (time.Time, error) {
	ms, err := r.DecodeLong(src, path)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

// DecodeUUID reads the string form of a UUID.
func (r *Registry) DecodeUUID(src Source, path string) (uuid.UUID, error) {
	s, err := r.DecodeString(src, path)
	if err != nil {
		return uuid.Nil, err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &DecodeError{Path: path, Kind: ErrTypeMismatch, Expected: "uuid", Actual: strconv.Quote(s), Err: err}
	}
	return u, nil
}

// DecodeEnum reads a constant name of the registered enum type typeName.
// A missing path is reported as ErrMissingField even when the table is not
// registered.
func (r *Registry) DecodeEnum(src Source, path, typeName string) (Enum, error) {
	if n, ok := src.Get(path); !ok || tree.IsNull(n) {
		return Enum{}, missing(path)
	}
	t, ok := r.enums[typeName]
	if !ok {
		return Enum{}, &DecodeError{Path: path, Kind: ErrUnknownEnum, Err: fmt.Errorf("enum type %q is not registered", typeName)}
	}
	s, err := r.DecodeString(src, path)
	if err != nil {
		return Enum{}, err
	}
	e, err := t.Parse(s)
	if err != nil {
		return Enum{}, &DecodeError{Path: path, Kind: ErrInvalidEnumValue, Err: err}
	}
	return e, nil
}

// DecodeStringList requires a list whose items are non-null scalars.
func (r *Registry) DecodeStringList(src Source, path string) ([]string, error) {
	items, err := sequence(src, path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, n := range items {
		if n.Kind != yaml.ScalarNode || tree.IsNull(n) {
			return nil, mismatch(keypath.Index(path, i), "string", tree.Describe(n))
		}
		out = append(out, n.Value)
	}
	return out, nil
}

// DecodeIntList requires a list of integer scalars.
func (r *Registry) DecodeIntList(src Source, path string) ([]int, error) {
	items, err := sequence(src, path)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(items))
	for i, n := range items {
		v, err := intValue(n, keypath.Index(path, i))
		if err != nil {
			return nil, err
		}
		if v < math.MinInt || v > math.MaxInt {
			return nil, mismatch(keypath.Index(path, i), "int", "out of range "+n.Value)
		}
		out = append(out, int(v))
	}
	return out, nil
}

func sequence(src Source, path string) ([]*yaml.Node, error) {
	n, ok := src.Get(path)
	if !ok || tree.IsNull(n) {
		return nil, missing(path)
	}
	if n.Kind != yaml.SequenceNode {
		return nil, mismatch(path, "list", tree.Describe(n))
	}
	return n.Content, nil
}

// DecodeWorld resolves the world named at path. An unknown name is not an
// error: it returns ok == false.
func (r *Registry) DecodeWorld(src Source, path string) (World, bool, error) {
	name, err := r.DecodeString(src, path)
	if err != nil {
		return nil, false, err
	}
	w, ok := r.resolve(name)
	return w, ok, nil
}

func (r *Registry) resolve(name string) (World, bool) {
	if r.worlds == nil {
		return nil, false
	}
	w, ok := r.worlds.ResolveWorld(name)
	if !ok || w == nil {
		return nil, false
	}
	return w, true
}

// requireSection fails with ErrMissingField when nothing is stored at base,
// so a missing composite is reported at its own path.
func requireSection(src Source, base string) error {
	n, ok := src.Get(base)
	if !ok || tree.IsNull(n) {
		return missing(base)
	}
	if n.Kind != yaml.MappingNode {
		return mismatch(base, "map", tree.Describe(n))
	}
	return nil
}

// DecodeLocation reads every field of a Location before resolving its
// world, so it never returns a partially populated value.
func (r *Registry) DecodeLocation(src Source, path string) (Location, error) {
	if err := requireSection(src, path); err != nil {
		return Location{}, err
	}
	var (
		loc  Location
		name string
		err  error
	)
	if loc.X, err = r.DecodeDouble(src, keypath.Join(path, FieldX)); err != nil {
		return Location{}, err
	}
	if loc.Y, err = r.DecodeDouble(src, keypath.Join(path, FieldY)); err != nil {
		return Location{}, err
	}
	if loc.Z, err = r.DecodeDouble(src, keypath.Join(path, FieldZ)); err != nil {
		return Location{}, err
	}
	if loc.Pitch, err = r.DecodeFloat(src, keypath.Join(path, FieldPitch)); err != nil {
		return Location{}, err
	}
	if loc.Yaw, err = r.DecodeFloat(src, keypath.Join(path, FieldYaw)); err != nil {
		return Location{}, err
	}
	worldPath := keypath.Join(path, FieldWorld)
	if name, err = r.DecodeString(src, worldPath); err != nil {
		return Location{}, err
	}
	w, ok := r.resolve(name)
	if !ok {
		return Location{}, &DecodeError{Path: worldPath, Kind: ErrUnresolvedWorld, Err: fmt.Errorf("world %q", name)}
	}
	loc.World = w
	return loc, nil
}

// DecodeChunk reads a Chunk and resolves its world.
func (r *Registry) DecodeChunk(src Source, path string) (Chunk, error) {
	if err := requireSection(src, path); err != nil {
		return Chunk{}, err
	}
	var (
		c    Chunk
		name string
		err  error
	)
	if c.X, err = r.DecodeInt(src, keypath.Join(path, FieldX)); err != nil {
		return Chunk{}, err
	}
	if c.Z, err = r.DecodeInt(src, keypath.Join(path, FieldZ)); err != nil {
		return Chunk{}, err
	}
	worldPath := keypath.Join(path, FieldWorld)
	if name, err = r.DecodeString(src, worldPath); err != nil {
		return Chunk{}, err
	}
	w, ok := r.resolve(name)
	if !ok {
		return Chunk{}, &DecodeError{Path: worldPath, Kind: ErrUnresolvedWorld, Err: fmt.Errorf("world %q", name)}
	}
	c.World = w
	return c, nil
}

// DecodeInventory reads the declared size and that many slots. Absent or
// null slots are empty.
func (r *Registry) DecodeInventory(src Source, path string) (Inventory, error) {
	if err := requireSection(src, path); err != nil {
		return Inventory{}, err
	}
	sizePath := keypath.Join(path, FieldSize)
	size, err := r.DecodeInt(src, sizePath)
	if err != nil {
		return Inventory{}, err
	}
	if size < 0 || size > MaxInventorySize {
		return Inventory{}, mismatch(sizePath, fmt.Sprintf("size in [0, %d]", MaxInventorySize), strconv.Itoa(size))
	}
	return r.DecodeInventorySized(src, path, size)
}

// DecodeInventorySized reads size slots under path, ignoring any stored size.
func (r *Registry) DecodeInventorySized(src Source, path string, size int) (Inventory, error) {
	if size < 0 || size > MaxInventorySize {
		return Inventory{}, fmt.Errorf("%w: inventory size %d", ErrInvalidValue, size)
	}
	inv := Inventory{Slots: make([]any, size)}
	for i := range size {
		slotPath := keypath.Index(path, i)
		n, ok := src.Get(slotPath)
		if !ok || tree.IsNull(n) {
			continue
		}
		item, err := r.items.DecodeItem(n)
		if err != nil {
			return Inventory{}, &DecodeError{Path: slotPath, Kind: ErrTypeMismatch, Expected: "item", Actual: tree.Describe(n), Err: err}
		}
		inv.Slots[i] = item
	}
	return inv, nil
}

// DecodeItem reads a single slot value.
func (r *Registry) DecodeItem(src Source, path string) (any, error) {
	n, ok := src.Get(path)
	if !ok || tree.IsNull(n) {
		return nil, missing(path)
	}
	item, err := r.items.DecodeItem(n)
	if err != nil {
		return nil, &DecodeError{Path: path, Kind: ErrTypeMismatch, Expected: "item", Actual: tree.Describe(n), Err: err}
	}
	return item, nil
}
