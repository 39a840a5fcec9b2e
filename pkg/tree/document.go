// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package tree implements the ordered, path-addressed YAML document that
// backs a configuration store.
//
// A Document is a map of segment names to nodes. A node is either a scalar
// (string, integer, float, boolean, explicit null, or a list of scalars) or a
// nested map. Nodes are gopkg.in/yaml.v3 nodes, so key insertion order is
// kept across load and save. Comments and formatting of loaded content are
// not guaranteed to survive a save.
package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ManuGH/plugconf/internal/fsutil"
	"github.com/ManuGH/plugconf/pkg/keypath"
	"gopkg.in/yaml.v3"
)

// Document is an ordered tree of YAML nodes addressed by dot-separated paths.
// It is not safe for concurrent use.
type Document struct {
	root *yaml.Node
	rev  uint64
}

// Leaf is a non-map node (or an empty map) together with its full path.
type Leaf struct {
	Path string
	Node *yaml.Node
}

// New returns an empty document.
func New() *Document {
	return &Document{root: newMap()}
}

// Parse decodes a YAML document. Empty input yields an empty document.
// Anchors and aliases are expanded and dotted keys ("a.b: 1") are nested
// into sections, so every node has exactly one path. A key defined twice
// is a *ParseError carrying its line.
func Parse(data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return New(), nil
	}

	body := doc.Content[0]
	if body.Kind == yaml.AliasNode && body.Alias != nil {
		body = body.Alias
	}
	switch {
	case body.Kind == yaml.MappingNode:
		root, err := nestKeys(clone(body))
		if err != nil {
			return nil, err
		}
		return &Document{root: root}, nil
	case IsNull(body):
		return New(), nil
	default:
		return nil, &ParseError{Err: fmt.Errorf("top-level value is a %s, want a map", Describe(body))}
	}
}

// Load reads and parses filename. A file that does not exist yields an empty
// document; a file that exists but cannot be read returns an *IOError.
func Load(filename string) (*Document, error) {
	// #nosec G304 -- document paths are chosen by the host application
	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, &IOError{Op: "load", File: filename, Err: err}
	}
	doc, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = filename
		}
		return nil, err
	}
	return doc, nil
}

// Marshal encodes the document as YAML with a two-space indent.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	return nil
}

// Save atomically writes the document to filename, creating parent
// directories as needed. The in-memory document is never modified.
func (d *Document) Save(filename string) error {
	// encode first so a marshalling failure never touches the file
	data, err := d.Marshal()
	if err != nil {
		return &IOError{Op: "save", File: filename, Err: err}
	}
	return WriteFile(filename, data)
}

// WriteFile atomically replaces filename with data, the output of Marshal.
// Callers that marshal under a lock use it to write outside of it.
func WriteFile(filename string, data []byte) error {
	err := fsutil.WriteFileAtomic(filename, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	if err != nil {
		return &IOError{Op: "save", File: filename, Err: err}
	}
	return nil
}

// Revision increases on every mutation of the document.
func (d *Document) Revision() uint64 {
	return d.rev
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{root: clone(d.root), rev: d.rev}
}

// Get returns the node at path, or false if any segment along it is absent.
// The empty path returns the root map.
func (d *Document) Get(path string) (*yaml.Node, bool) {
	n := d.root
	for _, seg := range keypath.Split(path) {
		if n.Kind != yaml.MappingNode {
			return nil, false
		}
		_, v := lookup(n, seg)
		if v == nil {
			return nil, false
		}
		n = v
	}
	return n, true
}

// Contains reports whether a node exists at path. Explicit nulls count.
func (d *Document) Contains(path string) bool {
	_, ok := d.Get(path)
	return ok
}

// Set creates or replaces the node at path, creating intermediate maps.
// An intermediate segment that currently holds a scalar is replaced by a
// fresh map; the old scalar is lost. A nil node stores an explicit null.
func (d *Document) Set(path string, node *yaml.Node) error {
	if path == "" {
		return fmt.Errorf("%w: cannot replace the document root", keypath.ErrInvalidPath)
	}
	if err := keypath.Validate(path); err != nil {
		return err
	}
	if node == nil {
		node = NullNode()
	}

	segs := keypath.Split(path)
	n := d.root
	for _, seg := range segs[:len(segs)-1] {
		_, child := lookup(n, seg)
		if child == nil || child.Kind != yaml.MappingNode {
			child = newMap()
			put(n, seg, child)
		}
		n = child
	}
	put(n, segs[len(segs)-1], node)
	d.rev++
	return nil
}

// Delete removes the node at path. It reports whether anything was removed.
func (d *Document) Delete(path string) bool {
	if path == "" {
		return false
	}
	parent, ok := d.Get(keypath.Parent(path))
	if !ok || parent.Kind != yaml.MappingNode {
		return false
	}
	i, _ := lookup(parent, keypath.Base(path))
	if i < 0 {
		return false
	}
	parent.Content = append(parent.Content[:i], parent.Content[i+2:]...)
	d.rev++
	return true
}

// ChildKeys returns the immediate child segment names of the map at path in
// document order. It fails with ErrNoSuchSection if path is not a map.
func (d *Document) ChildKeys(path string) ([]string, error) {
	n, ok := d.Get(path)
	if !ok || n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchSection, path)
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys, nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys, _ := d.ChildKeys("")
	return keys
}

// Leaves lists every non-map node, and every empty map, in document order.
// The returned nodes are copies.
func (d *Document) Leaves() []Leaf {
	var out []Leaf
	walk(d.root, "", &out)
	return out
}

func walk(n *yaml.Node, prefix string, out *[]Leaf) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		path := keypath.Join(prefix, n.Content[i].Value)
		v := n.Content[i+1]
		if v.Kind == yaml.MappingNode && len(v.Content) > 0 {
			walk(v, path, out)
			continue
		}
		*out = append(*out, Leaf{Path: path, Node: clone(v)})
	}
}

// lookup returns the key index and value of seg in the map m, or -1, nil.
func lookup(m *yaml.Node, seg string) (int, *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == seg {
			v := m.Content[i+1]
			if v.Kind == yaml.AliasNode && v.Alias != nil {
				v = v.Alias
			}
			return i, v
		}
	}
	return -1, nil
}

// put replaces the value of seg in place, or appends a new pair.
func put(m *yaml.Node, seg string, v *yaml.Node) {
	if i, _ := lookup(m, seg); i >= 0 {
		m.Content[i+1] = v
		return
	}
	m.Content = append(m.Content, keyNode(seg), v)
}
