// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tree

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Short tags of the scalar kinds a document can hold.
const (
	TagStr   = "!!str"
	TagInt   = "!!int"
	TagFloat = "!!float"
	TagBool  = "!!bool"
	TagNull  = "!!null"
	TagMap   = "!!map"
	TagSeq   = "!!seq"
)

// StringNode returns a string scalar. Values that would otherwise read back
// as another type (e.g. "42") are quoted on output.
func StringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagStr, Value: s}
}

// IntNode returns an integer scalar.
func IntNode(i int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagInt, Value: strconv.FormatInt(i, 10)}
}

// FloatNode returns a float scalar using the shortest representation that
// round-trips at bitSize (32 or 64). Integral values keep a ".0" suffix so
// they read back as floats.
func FloatNode(f float64, bitSize int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagFloat, Value: formatFloat(f, bitSize)}
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// BoolNode returns a boolean scalar.
func BoolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagBool, Value: strconv.FormatBool(b)}
}

// NullNode returns an explicit null scalar.
func NullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagNull, Value: "null"}
}

// StringListNode returns a sequence of string scalars.
func StringListNode(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: TagSeq}
	for _, s := range items {
		n.Content = append(n.Content, StringNode(s))
	}
	return n
}

// IntListNode returns a sequence of integer scalars.
func IntListNode(items []int) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: TagSeq}
	for _, i := range items {
		n.Content = append(n.Content, IntNode(int64(i)))
	}
	return n
}

// IsNull reports whether n is absent or an explicit null scalar.
func IsNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == TagNull)
}

// Describe names the kind of n for error messages: "map", "list", "null",
// or the scalar's short tag.
func Describe(n *yaml.Node) string {
	switch {
	case n == nil:
		return "absent"
	case n.Kind == yaml.MappingNode:
		return "map"
	case n.Kind == yaml.SequenceNode:
		return "list"
	case IsNull(n):
		return "null"
	case n.Kind == yaml.ScalarNode:
		return n.ShortTag()
	default:
		return "unknown"
	}
}

func newMap() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: TagMap}
}

func keyNode(seg string) *yaml.Node {
	// untagged so numeric segments ("0", "1") are written as plain keys
	return &yaml.Node{Kind: yaml.ScalarNode, Value: seg}
}

// CloneNode returns a deep copy of n.
func CloneNode(n *yaml.Node) *yaml.Node {
	return clone(n)
}

// clone deep-copies n, expanding aliases so that no two paths share a node.
func clone(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return clone(n.Alias)
	}
	c := *n
	c.Anchor = ""
	c.Alias = nil
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = clone(child)
		}
	}
	return &c
}
