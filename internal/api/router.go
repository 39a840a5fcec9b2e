// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves a read-only HTTP view of a configuration document
// together with the process metrics.
package api

import (
	"net/http"
	"time"

	xglog "github.com/ManuGH/plugconf/internal/log"
	"github.com/ManuGH/plugconf/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Options tunes the router.
type Options struct {
	// ServiceName names the HTTP spans.
	ServiceName string

	// RequestLimit requests per Window are allowed per client IP.
	RequestLimit int
	Window       time.Duration
}

func (o Options) withDefaults() Options {
	if o.ServiceName == "" {
		o.ServiceName = "plugconf"
	}
	if o.RequestLimit <= 0 {
		o.RequestLimit = 600
	}
	if o.Window <= 0 {
		o.Window = time.Minute
	}
	return o
}

type handler struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewRouter returns the handler for:
//
//	GET /healthz
//	GET /metrics
//	GET /v1/keys[?path=p]
//	GET /v1/value?path=p[&type=t]
//	GET /v1/revision
func NewRouter(c *config.Config, opts Options) http.Handler {
	opts = opts.withDefaults()
	h := &handler{cfg: c, logger: xglog.WithComponent("api")}

	r := chi.NewRouter()
	r.Use(traced(opts.ServiceName))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimit(opts.RequestLimit, opts.Window))
		r.Get("/keys", h.keys)
		r.Get("/value", h.value)
		r.Get("/revision", h.revision)
	})
	return r
}
