// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ManuGH/plugconf/pkg/keypath"
	"github.com/ManuGH/plugconf/pkg/tree"
	"gopkg.in/yaml.v3"
)

// Sub-path names of the composite encodings.
const (
	FieldX     = "x"
	FieldY     = "y"
	FieldZ     = "z"
	FieldPitch = "pitch"
	FieldYaw   = "yaw"
	FieldWorld = "world"
	FieldSize  = "size"
)

// MaxInventorySize bounds the size a stored inventory may declare.
const MaxInventorySize = 1 << 12

// Source is the read side of a document.
type Source interface {
	Get(path string) (*yaml.Node, bool)
}

// Sink is the write side of a document.
type Sink interface {
	Set(path string, node *yaml.Node) error
}

// Field is one node an encoding writes, at Path relative to the base path.
// The empty Path is the base itself.
type Field struct {
	Path string
	Node *yaml.Node
}

// Registry holds the encode/decode rules for every Value variant together
// with the capabilities they need.
type Registry struct {
	worlds WorldResolver
	items  ItemCodec
	enums  map[string]*EnumType
}

// NewRegistry returns a Registry using caps.
func NewRegistry(caps Capabilities) *Registry {
	r := &Registry{
		worlds: caps.Worlds,
		items:  caps.Items,
		enums:  make(map[string]*EnumType, len(caps.Enums)),
	}
	if r.items == nil {
		r.items = NodeItemCodec{}
	}
	for _, e := range caps.Enums {
		if e != nil {
			r.enums[e.Name()] = e
		}
	}
	return r
}

// EnumType returns the registered table called name.
func (r *Registry) EnumType(name string) (*EnumType, bool) {
	t, ok := r.enums[name]
	return t, ok
}

// Encode turns v into the fields its encoding writes. It does not touch any
// document, so a failing composite encode leaves the target unchanged.
func (r *Registry) Encode(v Value) ([]Field, error) {
	one := func(n *yaml.Node) ([]Field, error) {
		return []Field{{Node: n}}, nil
	}

	switch v := v.(type) {
	case nil, Null:
		return one(tree.NullNode())
	case String:
		return one(tree.StringNode(string(v)))
	case Int:
		return one(tree.IntNode(int64(v)))
	case Bool:
		return one(tree.BoolNode(bool(v)))
	case Double:
		return one(tree.FloatNode(float64(v), 64))
	case Float:
		return one(tree.FloatNode(float64(v), 32))
	case StringList:
		return one(tree.StringListNode(v))
	case IntList:
		return one(tree.IntListNode(v))
	case Long:
		return one(longNode(int64(v)))
	case UUID:
		return one(tree.StringNode(v.String()))
	case Date:
		return one(longNode(time.Time(v).UnixMilli()))
	case Enum:
		if t, ok := r.enums[v.Type]; ok && !t.Has(v.Name) {
			return nil, fmt.Errorf("%w: %q is not a %s", ErrInvalidEnumValue, v.Name, v.Type)
		}
		return one(tree.StringNode(v.Name))
	case Location:
		if v.World == nil {
			return nil, fmt.Errorf("%w: location without world", ErrInvalidValue)
		}
		return []Field{
			{FieldX, tree.FloatNode(v.X, 64)},
			{FieldY, tree.FloatNode(v.Y, 64)},
			{FieldZ, tree.FloatNode(v.Z, 64)},
			{FieldPitch, tree.FloatNode(float64(v.Pitch), 32)},
			{FieldYaw, tree.FloatNode(float64(v.Yaw), 32)},
			{FieldWorld, tree.StringNode(v.World.Name())},
		}, nil
	case Chunk:
		if v.World == nil {
			return nil, fmt.Errorf("%w: chunk without world", ErrInvalidValue)
		}
		return []Field{
			{FieldX, tree.IntNode(int64(v.X))},
			{FieldZ, tree.IntNode(int64(v.Z))},
			{FieldWorld, tree.StringNode(v.World.Name())},
		}, nil
	case WorldRef:
		if v.World == nil {
			return nil, fmt.Errorf("%w: world reference without world", ErrInvalidValue)
		}
		return one(tree.StringNode(v.World.Name()))
	case Inventory:
		return r.encodeInventory(v)
	case Item:
		n, err := r.encodeItem(v.Value)
		if err != nil {
			return nil, err
		}
		return one(n)
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", ErrInvalidValue, v)
	}
}

func (r *Registry) encodeInventory(inv Inventory) ([]Field, error) {
	if len(inv.Slots) > MaxInventorySize {
		return nil, fmt.Errorf("%w: inventory size %d exceeds %d", ErrInvalidValue, len(inv.Slots), MaxInventorySize)
	}
	fields := make([]Field, 0, len(inv.Slots)+1)
	fields = append(fields, Field{FieldSize, tree.IntNode(int64(len(inv.Slots)))})
	for i, item := range inv.Slots {
		n, err := r.encodeItem(item)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		fields = append(fields, Field{strconv.Itoa(i), n})
	}
	return fields, nil
}

func (r *Registry) encodeItem(item any) (*yaml.Node, error) {
	if item == nil {
		return tree.NullNode(), nil
	}
	n, err := r.items.EncodeItem(item)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return tree.NullNode(), nil
	}
	return n, nil
}

// Write encodes v and stores its fields under path in dst. Nothing is
// written if encoding fails.
func (r *Registry) Write(dst Sink, path string, v Value) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", keypath.ErrInvalidPath)
	}
	if err := keypath.Validate(path); err != nil {
		return err
	}
	fields, err := r.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s at %q: %w", Kind(v), path, err)
	}
	for _, f := range fields {
		if err := dst.Set(keypath.Join(path, f.Path), f.Node); err != nil {
			return err
		}
	}
	return nil
}

func longNode(i int64) *yaml.Node {
	return tree.StringNode(strconv.FormatInt(i, 10))
}
