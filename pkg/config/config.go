// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ManuGH/plugconf/internal/fsutil"
	xglog "github.com/ManuGH/plugconf/internal/log"
	"github.com/ManuGH/plugconf/internal/metrics"
	"github.com/ManuGH/plugconf/internal/telemetry"
	"github.com/ManuGH/plugconf/pkg/codec"
	"github.com/ManuGH/plugconf/pkg/tree"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"
)

// DefaultFileName is the document name OpenPlugin uses when none is given.
const DefaultFileName = "config.yml"

// DefaultDebounce is how long Watch waits for file events to settle.
const DefaultDebounce = 500 * time.Millisecond

const tracerName = "github.com/ManuGH/plugconf/pkg/config"

// Config is a typed view over one configuration document and its backing
// file.
type Config struct {
	mu   sync.RWMutex
	file string
	doc  *tree.Document
	sum  [sha256.Size]byte // content hash of the last load or save

	registry *codec.Registry
	logger   zerolog.Logger
	tracer   trace.Tracer
	debounce time.Duration
	reloads  singleflight.Group

	watchMu sync.Mutex
	stop    context.CancelFunc
	done    chan struct{}

	listenerMu sync.RWMutex
	listeners  []chan<- struct{}
	skipLog    *rate.Sometimes
}

type options struct {
	caps     codec.Capabilities
	logger   *zerolog.Logger
	debounce time.Duration
}

// Option configures a Config.
type Option func(*options)

// WithWorlds sets the resolver used by Location, Chunk and world reads.
func WithWorlds(r codec.WorldResolver) Option {
	return func(o *options) { o.caps.Worlds = r }
}

// WithItemCodec sets the codec for inventory slots and items.
func WithItemCodec(c codec.ItemCodec) Option {
	return func(o *options) { o.caps.Items = c }
}

// WithEnums registers enum tables for GetEnum and enum defaults.
func WithEnums(types ...*codec.EnumType) Option {
	return func(o *options) { o.caps.Enums = append(o.caps.Enums, types...) }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithDebounce sets the settle time for Watch. Values <= 0 keep the default.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

func newConfig(file string, opts []Option) *Config {
	o := options{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	logger := xglog.Derive(func(ctx *zerolog.Context) {
		*ctx = ctx.Str(xglog.FieldComponent, "config").Str(xglog.FieldFile, file)
	})
	if o.logger != nil {
		logger = o.logger.With().Str(xglog.FieldFile, file).Logger()
	}
	return &Config{
		file:     file,
		doc:      tree.New(),
		registry: codec.NewRegistry(o.caps),
		logger:   logger,
		tracer:   telemetry.Tracer(tracerName),
		debounce: o.debounce,
		skipLog:  &rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}
}

// New binds an existing document to file without touching the filesystem.
// A nil doc starts empty.
func New(file string, doc *tree.Document, opts ...Option) *Config {
	c := newConfig(file, opts)
	if doc != nil {
		c.doc = doc
	}
	return c
}

// Open loads file into a new Config. A missing file yields an empty
// document; the file is not created until Save or CreateFile.
func Open(ctx context.Context, file string, opts ...Option) (*Config, error) {
	c := newConfig(file, opts)

	ctx, span := c.tracer.Start(ctx, "config.open", trace.WithAttributes(attribute.String(telemetry.DocumentFileKey, file)))
	defer span.End()

	logger := xglog.WithTrace(ctx, c.logger)

	doc, sum, err := readDocument(file)
	metrics.RecordLoad(loadResult(doc, err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		logger.Error().
			Err(err).
			Str("event", "config.load_failed").
			Msg("failed to load configuration document")
		return nil, err
	}
	c.doc = doc
	c.sum = sum

	logger.Debug().
		Str("event", "config.loaded").
		Int("keys", len(doc.Keys())).
		Msg("configuration document loaded")
	return c, nil
}

// OpenPlugin opens <root>/<plugin>/<name>, where spaces in the plugin name
// become underscores. An empty name selects DefaultFileName.
func OpenPlugin(ctx context.Context, root, plugin, name string, opts ...Option) (*Config, error) {
	if name == "" {
		name = DefaultFileName
	}
	dir := strings.ReplaceAll(norm.NFC.String(plugin), " ", "_")
	if dir == "" {
		return nil, fmt.Errorf("open plugin config: empty plugin name")
	}
	file, err := fsutil.ConfineJoin(root, filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("open plugin config: %w", err)
	}
	return Open(ctx, file, opts...)
}

// File returns the backing file path.
func (c *Config) File() string { return c.file }

// Document returns a snapshot of the current document.
func (c *Config) Document() *tree.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc.Clone()
}

// Revision returns the mutation counter of the current document. Reload
// replaces the document, so the counter restarts from zero.
func (c *Config) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc.Revision()
}

// Registry returns the codec registry built from the configured capabilities.
func (c *Config) Registry() *codec.Registry { return c.registry }

// readDocument loads file and returns the hash of the bytes it parsed.
func readDocument(file string) (*tree.Document, [sha256.Size]byte, error) {
	// #nosec G304 -- document paths are chosen by the host application
	data, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tree.New(), sha256.Sum256(nil), nil
		}
		return nil, [sha256.Size]byte{}, &tree.IOError{Op: "load", File: file, Err: err}
	}
	doc, err := tree.Parse(data)
	if err != nil {
		var pe *tree.ParseError
		if errors.As(err, &pe) {
			pe.File = file
		}
		return nil, [sha256.Size]byte{}, err
	}
	return doc, sha256.Sum256(data), nil
}

func loadResult(doc *tree.Document, err error) string {
	switch {
	case errors.Is(err, tree.ErrParse):
		return metrics.ResultParseError
	case errors.Is(err, tree.ErrIO):
		return metrics.ResultIOError
	case err != nil:
		return metrics.ResultError
	case doc != nil && len(doc.Keys()) == 0:
		return metrics.ResultEmpty
	default:
		return metrics.ResultOK
	}
}
