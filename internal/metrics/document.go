// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics provides Prometheus metrics for configuration documents.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK         = "ok"
	ResultEmpty      = "empty"
	ResultParseError = "parse_error"
	ResultIOError    = "io_error"
	ResultError      = "error"
	ResultSkipped    = "skipped"
)

var (
	// DocumentLoadsTotal counts document loads (open and reload) by result.
	DocumentLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plugconf_document_loads_total",
		Help: "Total number of configuration document loads, by result.",
	}, []string{"result"})

	// DocumentSavesTotal counts document saves by result.
	DocumentSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plugconf_document_saves_total",
		Help: "Total number of configuration document saves, by result.",
	}, []string{"result"})

	// ReloadsTotal counts reloads by trigger (manual/watch) and result.
	ReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plugconf_reloads_total",
		Help: "Total number of configuration reloads, by trigger and result.",
	}, []string{"trigger", "result"})

	// ReadRepairsTotal counts values overwritten by GetOrSetDefault because
	// the stored content no longer decoded as the expected type.
	ReadRepairsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plugconf_read_repairs_total",
		Help: "Total number of stored values replaced by their default after a type drift.",
	})

	// DecodeFailuresTotal counts failed typed reads by error kind.
	DecodeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plugconf_decode_failures_total",
		Help: "Total number of failed typed reads, by error kind.",
	}, []string{"kind"})
)

// RecordLoad increments the load counter for result.
func RecordLoad(result string) {
	DocumentLoadsTotal.WithLabelValues(result).Inc()
}

// RecordSave increments the save counter.
func RecordSave(ok bool) {
	result := ResultOK
	if !ok {
		result = ResultError
	}
	DocumentSavesTotal.WithLabelValues(result).Inc()
}

// RecordReload increments the reload counter.
func RecordReload(trigger, result string) {
	ReloadsTotal.WithLabelValues(trigger, result).Inc()
}

// RecordReadRepair increments the read-repair counter.
func RecordReadRepair() {
	ReadRepairsTotal.Inc()
}

// RecordDecodeFailure increments the decode failure counter for kind.
func RecordDecodeFailure(kind string) {
	DecodeFailuresTotal.WithLabelValues(kind).Inc()
}
