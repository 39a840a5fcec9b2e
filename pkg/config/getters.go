// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/plugconf/internal/metrics"
	"github.com/ManuGH/plugconf/pkg/codec"
	"github.com/google/uuid"
)

// get runs read against the document under the read lock.
func get[T any](c *Config, read func(codec.Source) (T, error)) (T, error) {
	c.mu.RLock()
	v, err := read(c.doc)
	c.mu.RUnlock()
	if err != nil {
		c.observe(err)
		var zero T
		return zero, err
	}
	return v, nil
}

func (c *Config) observe(err error) {
	kind := errorKind(err)
	metrics.RecordDecodeFailure(kind)
	c.logger.Debug().
		Err(err).
		Str("event", "config.decode_failed").
		Str("kind", kind).
		Msg("typed read failed")
}

// Get decodes path as the variant of like. Only the variant of like (and the
// type of an Enum) matters.
func (c *Config) Get(path string, like codec.Value) (codec.Value, error) {
	return get(c, func(src codec.Source) (codec.Value, error) {
		return c.registry.Decode(src, path, like)
	})
}

// GetString returns the literal text of the scalar at path.
func (c *Config) GetString(path string) (string, error) {
	return get(c, func(src codec.Source) (string, error) {
		return c.registry.DecodeString(src, path)
	})
}

// GetInt returns the integer at path.
func (c *Config) GetInt(path string) (int, error) {
	return get(c, func(src codec.Source) (int, error) {
		return c.registry.DecodeInt(src, path)
	})
}

// GetBoolean returns the boolean at path.
func (c *Config) GetBoolean(path string) (bool, error) {
	return get(c, func(src codec.Source) (bool, error) {
		return c.registry.DecodeBool(src, path)
	})
}

// GetStringList returns the list of scalars at path as strings.
func (c *Config) GetStringList(path string) ([]string, error) {
	return get(c, func(src codec.Source) ([]string, error) {
		return c.registry.DecodeStringList(src, path)
	})
}

// GetIntList returns the list of integers at path.
func (c *Config) GetIntList(path string) ([]int, error) {
	return get(c, func(src codec.Source) ([]int, error) {
		return c.registry.DecodeIntList(src, path)
	})
}

// GetFloat returns the single precision number at path.
func (c *Config) GetFloat(path string) (float32, error) {
	return get(c, func(src codec.Source) (float32, error) {
		return c.registry.DecodeFloat(src, path)
	})
}

// GetDouble returns the number at path.
func (c *Config) GetDouble(path string) (float64, error) {
	return get(c, func(src codec.Source) (float64, error) {
		return c.registry.DecodeDouble(src, path)
	})
}

// GetLong returns the 64-bit integer at path.
func (c *Config) GetLong(path string) (int64, error) {
	return get(c, func(src codec.Source) (int64, error) {
		return c.registry.DecodeLong(src, path)
	})
}

// GetDate returns the timestamp at path.
func (c *Config) GetDate(path string) (time.Time, error) {
	return get(c, func(src codec.Source) (time.Time, error) {
		return c.registry.DecodeDate(src, path)
	})
}

// GetUUID returns the identifier at path.
func (c *Config) GetUUID(path string) (uuid.UUID, error) {
	return get(c, func(src codec.Source) (uuid.UUID, error) {
		return c.registry.DecodeUUID(src, path)
	})
}

// GetEnum returns the constant of the registered enum type enumType stored
// at path.
func (c *Config) GetEnum(path, enumType string) (codec.Enum, error) {
	return get(c, func(src codec.Source) (codec.Enum, error) {
		return c.registry.DecodeEnum(src, path, enumType)
	})
}

// GetLocation returns the location stored under path.
func (c *Config) GetLocation(path string) (codec.Location, error) {
	return get(c, func(src codec.Source) (codec.Location, error) {
		return c.registry.DecodeLocation(src, path)
	})
}

// GetChunk returns the chunk stored under path.
func (c *Config) GetChunk(path string) (codec.Chunk, error) {
	return get(c, func(src codec.Source) (codec.Chunk, error) {
		return c.registry.DecodeChunk(src, path)
	})
}

// GetWorld resolves the world named at path. ok is false when the name is
// not known to the resolver; that is not an error.
func (c *Config) GetWorld(path string) (w codec.World, ok bool, err error) {
	c.mu.RLock()
	w, ok, err = c.registry.DecodeWorld(c.doc, path)
	c.mu.RUnlock()
	if err != nil {
		c.observe(err)
		return nil, false, err
	}
	return w, ok, nil
}

// GetInventory returns the inventory stored under path.
func (c *Config) GetInventory(path string) (codec.Inventory, error) {
	return get(c, func(src codec.Source) (codec.Inventory, error) {
		return c.registry.DecodeInventory(src, path)
	})
}

// GetInventorySized reads size slots under path and ignores the stored size.
func (c *Config) GetInventorySized(path string, size int) (codec.Inventory, error) {
	return get(c, func(src codec.Source) (codec.Inventory, error) {
		return c.registry.DecodeInventorySized(src, path, size)
	})
}

// GetItem returns the single item stored at path.
func (c *Config) GetItem(path string) (any, error) {
	return get(c, func(src codec.Source) (any, error) {
		return c.registry.DecodeItem(src, path)
	})
}

// OrElse returns fallback when err is non-nil and v otherwise. It turns any
// typed getter into a get-or-else read:
//
//	port := config.OrElse(c.GetInt("server.port"))(25565)
func OrElse[T any](v T, err error) func(fallback T) T {
	return func(fallback T) T {
		if err != nil {
			return fallback
		}
		return v
	}
}

// GetStringOr returns the string at path, or fallback if it cannot be read.
func (c *Config) GetStringOr(path, fallback string) string {
	return OrElse(c.GetString(path))(fallback)
}

// GetIntOr returns the integer at path, or fallback if it cannot be read.
func (c *Config) GetIntOr(path string, fallback int) int {
	return OrElse(c.GetInt(path))(fallback)
}

// GetBooleanOr returns the boolean at path, or fallback if it cannot be read.
func (c *Config) GetBooleanOr(path string, fallback bool) bool {
	return OrElse(c.GetBoolean(path))(fallback)
}

// GetDoubleOr returns the number at path, or fallback if it cannot be read.
func (c *Config) GetDoubleOr(path string, fallback float64) float64 {
	return OrElse(c.GetDouble(path))(fallback)
}

// GetLongOr returns the 64-bit integer at path, or fallback if it cannot be
// read.
func (c *Config) GetLongOr(path string, fallback int64) int64 {
	return OrElse(c.GetLong(path))(fallback)
}
