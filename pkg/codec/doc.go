// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package codec maps typed domain values onto path-addressed YAML nodes.
//
// Every supported type is a variant of the closed Value sum type. A value is
// encoded either as one scalar at its base path or as a fixed set of named
// sub-paths under it (Location, Chunk, Inventory).
//
// # Encodings are not self-describing
//
// No type tag is written to the document. A Location and a Chunk written at
// the same path look alike apart from their field sets, and a Long is just a
// quoted decimal string. Decoding therefore always needs the caller to say
// which type it expects at a path; keeping track of which type lives where
// is a convention of the calling code.
//
// # Capabilities
//
// Decoders never reach into global state. Resolving a world name, encoding an
// inventory slot and looking up enum constants are done through the
// Capabilities handed to NewRegistry.
package codec
