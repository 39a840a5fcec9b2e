// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tree

import (
	"fmt"
	"strings"

	"github.com/ManuGH/plugconf/pkg/keypath"
	"gopkg.in/yaml.v3"
)

// nestKeys rebuilds the mapping m so that every stored path has exactly one
// node: keys containing the separator are split into nested sections, and a
// key that is defined twice (directly or through a dotted spelling) is
// rejected.
func nestKeys(m *yaml.Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: TagMap, Style: m.Style, Line: m.Line, Column: m.Column}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, lineError(k.Line, "key is a %s, want a scalar", Describe(k))
		}
		if err := keypath.Validate(k.Value); err != nil || k.Value == "" {
			return nil, lineError(k.Line, "key %q has an empty segment", k.Value)
		}
		if v.Kind == yaml.MappingNode {
			var err error
			if v, err = nestKeys(v); err != nil {
				return nil, err
			}
		}
		if err := insertKey(out, k, keypath.Split(k.Value), v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// insertKey stores v under segs in m. Intermediate sections are created or
// shared with sibling keys; two maps at the same path are merged.
func insertKey(m, k *yaml.Node, segs []string, v *yaml.Node) error {
	for n, seg := range segs[:len(segs)-1] {
		_, child := lookup(m, seg)
		switch {
		case child == nil:
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: TagMap, Line: k.Line, Column: k.Column}
			m.Content = append(m.Content, segmentKey(k, seg), child)
		case child.Kind != yaml.MappingNode:
			return lineError(k.Line, "key %q conflicts with value at %q", k.Value, strings.Join(segs[:n+1], keypath.Separator))
		}
		m = child
	}

	last := segs[len(segs)-1]
	_, existing := lookup(m, last)
	switch {
	case existing == nil:
		if len(segs) == 1 {
			m.Content = append(m.Content, k, v)
		} else {
			m.Content = append(m.Content, segmentKey(k, last), v)
		}
		return nil
	case existing.Kind == yaml.MappingNode && v.Kind == yaml.MappingNode:
		for i := 0; i+1 < len(v.Content); i += 2 {
			ck := v.Content[i]
			if err := insertKey(existing, ck, []string{ck.Value}, v.Content[i+1]); err != nil {
				return err
			}
		}
		return nil
	default:
		return lineError(k.Line, "duplicate key %q", k.Value)
	}
}

func segmentKey(k *yaml.Node, seg string) *yaml.Node {
	n := keyNode(seg)
	n.Line, n.Column = k.Line, k.Column
	return n
}

func lineError(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Err: fmt.Errorf(format, args...)}
}
