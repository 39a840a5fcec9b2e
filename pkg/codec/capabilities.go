// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codec

import (
	"fmt"

	"github.com/ManuGH/plugconf/pkg/tree"
	"gopkg.in/yaml.v3"
)

// World is a host world handle. Only its name is persisted.
type World interface {
	Name() string
}

// WorldResolver turns a stored world name back into a live handle.
type WorldResolver interface {
	ResolveWorld(name string) (World, bool)
}

// WorldResolverFunc adapts a function to WorldResolver.
type WorldResolverFunc func(name string) (World, bool)

// ResolveWorld calls f.
func (f WorldResolverFunc) ResolveWorld(name string) (World, bool) { return f(name) }

// NamedWorld is a World that is nothing more than its name.
type NamedWorld string

// Name returns w.
func (w NamedWorld) Name() string { return string(w) }

// StaticWorlds resolves exactly the given names to NamedWorld handles.
func StaticWorlds(names ...string) WorldResolver {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}
	return WorldResolverFunc(func(name string) (World, bool) {
		if _, ok := known[name]; !ok {
			return nil, false
		}
		return NamedWorld(name), true
	})
}

// ItemCodec encodes one inventory slot to a node and back.
type ItemCodec interface {
	EncodeItem(item any) (*yaml.Node, error)
	DecodeItem(n *yaml.Node) (any, error)
}

// NodeItemCodec stores items as plain YAML values: anything yaml.v3 can
// marshal goes in, and generic values (map[string]any, []any, scalars) come
// out. A *yaml.Node item is stored as-is.
type NodeItemCodec struct{}

// EncodeItem implements ItemCodec.
func (NodeItemCodec) EncodeItem(item any) (*yaml.Node, error) {
	if n, ok := item.(*yaml.Node); ok {
		return tree.CloneNode(n), nil
	}
	var n yaml.Node
	if err := n.Encode(item); err != nil {
		return nil, fmt.Errorf("encode item: %w", err)
	}
	return &n, nil
}

// DecodeItem implements ItemCodec.
func (NodeItemCodec) DecodeItem(n *yaml.Node) (any, error) {
	var out any
	if err := n.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return out, nil
}

// Capabilities are the host lookups a Registry needs. Worlds may be nil, in
// which case every world-bearing decode fails with ErrUnresolvedWorld. Items
// defaults to NodeItemCodec.
type Capabilities struct {
	Worlds WorldResolver
	Items  ItemCodec
	Enums  []*EnumType
}
