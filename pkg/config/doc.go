// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config is the typed configuration store a plugin host hands to its
// plugins.
//
// A Config owns one in-memory tree.Document and the file it was loaded from.
// Values are written with SetValue and friends and read back with the typed
// getters. Nothing is persisted until Save is called; Reload discards unsaved
// changes.
//
// Encodings are not self-describing (see package codec): the caller decides
// which getter to use for a path. GetOrSetDefault turns that convention into
// a self-healing read: when the stored content no longer decodes as the
// default's type, the default is written over it. Use GetOrSetDefaultStrict
// to get the type mismatch instead of losing the stored content.
//
// A Config is safe for concurrent use. Several Config values bound to the
// same file do not share state, and concurrent saves from them are
// last-writer-wins.
package config
