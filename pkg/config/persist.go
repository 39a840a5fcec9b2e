// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"github.com/ManuGH/plugconf/internal/fsutil"
	xglog "github.com/ManuGH/plugconf/internal/log"
	"github.com/ManuGH/plugconf/internal/metrics"
	"github.com/ManuGH/plugconf/internal/telemetry"
	"github.com/ManuGH/plugconf/pkg/tree"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Reload triggers.
const (
	triggerManual = "manual"
	triggerWatch  = "watch"
)

// Save writes the document to the backing file.
func (c *Config) Save(ctx context.Context) error {
	return c.SaveTo(ctx, c.file)
}

// SaveTo atomically writes the document to dest. Failures are logged and
// returned as a *tree.IOError; the in-memory document is unaffected either
// way.
func (c *Config) SaveTo(ctx context.Context, dest string) error {
	c.mu.RLock()
	data, err := c.doc.Marshal()
	rev := c.doc.Revision()
	c.mu.RUnlock()

	ctx, span := c.tracer.Start(ctx, "config.save", trace.WithAttributes(telemetry.DocumentAttributes(dest, rev)...))
	defer span.End()
	logger := xglog.WithTrace(ctx, c.logger)

	if err != nil {
		err = &tree.IOError{Op: "save", File: dest, Err: err}
	} else {
		err = tree.WriteFile(dest, data)
	}
	if err != nil {
		metrics.RecordSave(false)
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		logger.Error().
			Err(err).
			Str("event", "config.save_failed").
			Str("dest", dest).
			Msg("failed to save configuration document")
		return err
	}

	if filepath.Clean(dest) == filepath.Clean(c.file) {
		c.mu.Lock()
		c.sum = sha256.Sum256(data)
		c.mu.Unlock()
	}
	metrics.RecordSave(true)
	span.SetAttributes(attribute.Int(telemetry.DocumentBytesKey, len(data)))
	logger.Debug().
		Str("event", "config.saved").
		Str("dest", dest).
		Uint64(xglog.FieldRevision, rev).
		Msg("configuration document saved")
	return nil
}

// Reload replaces the document with the content of the backing file. Unsaved
// changes are lost. If the file cannot be read or parsed, the current
// document is kept and the error returned.
func (c *Config) Reload(ctx context.Context) error {
	return c.reload(ctx, triggerManual, false)
}

// reload loads the backing file. With skipUnchanged set, a file whose
// content matches the last load or save is not applied, so an unchanged
// file does not drop in-memory edits. Concurrent reloads with the same
// trigger share one read.
func (c *Config) reload(ctx context.Context, trigger string, skipUnchanged bool) error {
	_, err, _ := c.reloads.Do("reload/"+trigger, func() (any, error) {
		return nil, c.doReload(ctx, trigger, skipUnchanged)
	})
	return err
}

func (c *Config) doReload(ctx context.Context, trigger string, skipUnchanged bool) error {
	ctx, span := c.tracer.Start(ctx, "config.reload", trace.WithAttributes(
		attribute.String(telemetry.DocumentFileKey, c.file),
		attribute.String(telemetry.ReloadTriggerKey, trigger),
	))
	defer span.End()
	logger := xglog.WithTrace(ctx, c.logger)

	logger.Debug().Str("event", "config.reload_start").Str("trigger", trigger).Msg("reloading configuration document")

	doc, sum, err := readDocument(c.file)
	metrics.RecordLoad(loadResult(doc, err))
	if err != nil {
		metrics.RecordReload(trigger, errorKind(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload failed")
		logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Str("trigger", trigger).
			Msg("failed to reload configuration document, keeping current document")
		return fmt.Errorf("reload: %w", err)
	}

	c.mu.Lock()
	if skipUnchanged && sum == c.sum {
		c.mu.Unlock()
		metrics.RecordReload(trigger, metrics.ResultSkipped)
		span.SetAttributes(attribute.String(telemetry.ResultKey, metrics.ResultSkipped))
		logger.Debug().Str("event", "config.reload_skipped").Msg("backing file unchanged")
		return nil
	}
	c.doc = doc
	c.sum = sum
	c.mu.Unlock()

	metrics.RecordReload(trigger, metrics.ResultOK)
	span.SetAttributes(attribute.String(telemetry.ResultKey, metrics.ResultOK))
	c.notifyListeners()

	logger.Info().
		Str("event", "config.reload_success").
		Str("trigger", trigger).
		Msg("configuration document reloaded")
	return nil
}

// CreateFile makes sure the backing file and its parent directories exist.
// An existing file is left alone.
func (c *Config) CreateFile() error {
	created, err := fsutil.EnsureFile(c.file)
	if err != nil {
		err = &tree.IOError{Op: "create", File: c.file, Err: err}
		c.logger.Error().
			Err(err).
			Str("event", "config.create_failed").
			Msg("failed to create configuration file")
		return err
	}
	if created {
		c.logger.Info().
			Str("event", "config.file_created").
			Msg("created empty configuration file")
	}
	return nil
}
