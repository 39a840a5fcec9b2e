// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"

	"github.com/ManuGH/plugconf/internal/metrics"
	"github.com/ManuGH/plugconf/pkg/codec"
	"github.com/ManuGH/plugconf/pkg/keypath"
	"github.com/ManuGH/plugconf/pkg/tree"
	"gopkg.in/yaml.v3"
)

// SetValue writes v at path. A nil or codec.Null value stores an explicit
// null; the path is kept. Composite values replace a scalar at path with a
// map. If v cannot be encoded the document is left unchanged.
func (c *Config) SetValue(path string, v codec.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(path, v)
}

func (c *Config) setLocked(path string, v codec.Value) error {
	if err := c.registry.Write(c.doc, path, v); err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	return nil
}

// SetDefaultValue writes v at path unless the path already exists. Existing
// content, an explicit null included, is never overwritten.
func (c *Config) SetDefaultValue(path string, v codec.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc.Contains(path) {
		return nil
	}
	return c.setLocked(path, v)
}

// ApplyDefaults copies every leaf of defaults that is missing from the
// document and returns how many were written. A leaf is skipped when the
// document already holds a scalar at one of its ancestors.
func (c *Config) ApplyDefaults(defaults *tree.Document) (int, error) {
	if defaults == nil {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	written := 0
	for _, leaf := range defaults.Leaves() {
		if c.doc.Contains(leaf.Path) || c.shadowed(leaf.Path) {
			continue
		}
		if err := c.doc.Set(leaf.Path, leaf.Node); err != nil {
			return written, fmt.Errorf("apply default %q: %w", leaf.Path, err)
		}
		written++
	}
	if written > 0 {
		c.logger.Debug().
			Str("event", "config.defaults_applied").
			Int("count", written).
			Msg("applied configuration defaults")
	}
	return written, nil
}

// shadowed reports whether some ancestor of path holds a non-map node.
func (c *Config) shadowed(path string) bool {
	for p := keypath.Parent(path); p != ""; p = keypath.Parent(p) {
		if n, ok := c.doc.Get(p); ok {
			return n.Kind != yaml.MappingNode
		}
	}
	return false
}

// GetOrSetDefault returns the value at path decoded as def's type. When the
// path is missing, or its content no longer decodes as that type, def is
// written over it and the written content is decoded and returned, so the
// first and later calls agree. The old content is lost in that case.
//
// An unresolved world or an unregistered enum type is returned as an error
// without writing: neither means the stored content is wrong.
func (c *Config) GetOrSetDefault(path string, def codec.Value) (codec.Value, error) {
	if def == nil {
		def = codec.Null{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.registry.Decode(c.doc, path, def)
	if err == nil {
		return v, nil
	}
	if !repairable(err) {
		c.observe(err)
		return nil, err
	}

	drifted := !errors.Is(err, ErrMissingField) || c.holdsValue(path)
	if werr := c.setLocked(path, def); werr != nil {
		return nil, werr
	}
	if drifted {
		metrics.RecordReadRepair()
		c.logger.Warn().
			Str("event", "config.read_repair").
			Str("path", path).
			Str("kind", codec.Kind(def)).
			Str("cause", errorKind(err)).
			Msg("stored value replaced by default")
	}
	return c.readBack(path, def)
}

// GetOrSetDefaultStrict is GetOrSetDefault without the repair: def is only
// written when nothing (or an explicit null) is stored at path. Incompatible
// content is reported as the decode error and left in place.
func (c *Config) GetOrSetDefaultStrict(path string, def codec.Value) (codec.Value, error) {
	if def == nil {
		def = codec.Null{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.registry.Decode(c.doc, path, def)
	if err == nil {
		return v, nil
	}
	if c.holdsValue(path) || !errors.Is(err, ErrMissingField) {
		c.observe(err)
		return nil, err
	}
	if werr := c.setLocked(path, def); werr != nil {
		return nil, werr
	}
	return c.readBack(path, def)
}

// readBack decodes a freshly written default so the first call returns what
// every later call will. Content that only fails on a capability (world not
// loaded, enum table not registered) yields def itself.
func (c *Config) readBack(path string, def codec.Value) (codec.Value, error) {
	v, err := c.registry.Decode(c.doc, path, def)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, ErrUnresolvedWorld), errors.Is(err, ErrUnknownEnum):
		return def, nil
	default:
		return nil, fmt.Errorf("read back default %q: %w", path, err)
	}
}

func (c *Config) holdsValue(path string) bool {
	n, ok := c.doc.Get(path)
	return ok && !tree.IsNull(n)
}

// Default is GetOrSetDefault with the result typed as the default's variant.
func Default[T codec.Value](c *Config, path string, def T) (T, error) {
	v, err := c.GetOrSetDefault(path, def)
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q decoded as %s", ErrTypeMismatch, path, codec.Kind(v))
	}
	return t, nil
}

// Delete removes path and everything below it. It reports whether anything
// was removed.
func (c *Config) Delete(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Delete(path)
}

// Contains reports whether path exists. An explicit null counts as present.
func (c *Config) Contains(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc.Contains(path)
}

// GetKeys returns the top-level keys in document order.
func (c *Config) GetKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc.Keys()
}

// GetKeysAt returns the immediate children of path in document order. It
// fails with ErrNoSuchSection when path is not a map.
func (c *Config) GetKeysAt(path string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc.ChildKeys(path)
}

// GetValue returns a copy of the raw node at path.
func (c *Config) GetValue(path string) (*yaml.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.doc.Get(path)
	if !ok {
		return nil, false
	}
	return tree.CloneNode(n), true
}
