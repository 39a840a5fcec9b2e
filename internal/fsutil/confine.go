// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ConfineJoin joins root with the relative path rel and rejects any result
// that would land outside root. The check is lexical; root does not need to
// exist yet.
func ConfineJoin(root, rel string) (string, error) {
	if strings.Contains(rel, "\\") {
		return "", fmt.Errorf("path contains backslash: %s", rel)
	}

	cleanRel := filepath.Clean(rel)
	if filepath.IsAbs(cleanRel) {
		return "", fmt.Errorf("target path must be relative: %s", rel)
	}
	if cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt: %s", rel)
	}
	if cleanRel == "." {
		return "", fmt.Errorf("target path is empty: %q", rel)
	}

	return filepath.Join(root, cleanRel), nil
}
