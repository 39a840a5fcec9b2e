// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/plugconf/pkg/tree"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteDocument writes content as name inside a fresh temp dir and returns
// its path.
func WriteDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	WriteFile(t, path, content)
	return path
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	// #nosec G304 -- test fixture paths
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// MustParse parses src as a document or fails the test.
func MustParse(t *testing.T, src string) *tree.Document {
	t.Helper()
	doc, err := tree.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse document: %v\n%s", err, src)
	}
	return doc
}
