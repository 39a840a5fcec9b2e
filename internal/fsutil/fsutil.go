// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fsutil holds the filesystem helpers behind document persistence.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	xglog "github.com/ManuGH/plugconf/internal/log"
	"github.com/google/renameio/v2"
)

const (
	dirPerm  fs.FileMode = 0o750
	filePerm fs.FileMode = 0o600
)

// WriteFileAtomic writes the output of write to path with full durability
// guarantees: temp file in the same directory, fsync, then rename over path.
// Missing parent directories are created. On error path is left untouched.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	logger := xglog.WithComponent("fsutil")

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(filePerm), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		// no-op once CloseAtomicallyReplace succeeded
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(xglog.FieldFile, path).Msg("cleanup pending file")
		}
	}()

	if err := write(pendingFile); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

// EnsureFile creates an empty file at path (and its parent directories)
// unless something already exists there. It reports whether the file was
// created.
func EnsureFile(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return false, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	// #nosec G304 -- document paths are chosen by the host application
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("close %s: %w", path, err)
	}
	return true, nil
}
