// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordLoad(t *testing.T) {
	DocumentLoadsTotal.Reset()

	RecordLoad(ResultOK)
	RecordLoad(ResultOK)
	RecordLoad(ResultParseError)

	if got := testutil.ToFloat64(DocumentLoadsTotal.WithLabelValues(ResultOK)); got != 2 {
		t.Errorf("expected 2 ok loads, got %f", got)
	}
	if got := testutil.ToFloat64(DocumentLoadsTotal.WithLabelValues(ResultParseError)); got != 1 {
		t.Errorf("expected 1 parse_error load, got %f", got)
	}
}

func TestRecordSave(t *testing.T) {
	DocumentSavesTotal.Reset()

	RecordSave(true)
	RecordSave(false)

	if got := testutil.ToFloat64(DocumentSavesTotal.WithLabelValues(ResultOK)); got != 1 {
		t.Errorf("expected 1 ok save, got %f", got)
	}
	if got := testutil.ToFloat64(DocumentSavesTotal.WithLabelValues(ResultError)); got != 1 {
		t.Errorf("expected 1 failed save, got %f", got)
	}
}

func TestRecordReadRepairAndDecodeFailure(t *testing.T) {
	before := testutil.ToFloat64(ReadRepairsTotal)
	RecordReadRepair()
	if got := testutil.ToFloat64(ReadRepairsTotal); got != before+1 {
		t.Errorf("expected read repairs %f, got %f", before+1, got)
	}

	DecodeFailuresTotal.Reset()
	RecordDecodeFailure("type_mismatch")
	if got := testutil.ToFloat64(DecodeFailuresTotal.WithLabelValues("type_mismatch")); got != 1 {
		t.Errorf("expected 1 type_mismatch, got %f", got)
	}

	ReloadsTotal.Reset()
	RecordReload("watch", ResultOK)
	if got := testutil.ToFloat64(ReloadsTotal.WithLabelValues("watch", ResultOK)); got != 1 {
		t.Errorf("expected 1 watch reload, got %f", got)
	}
}

func TestPromhttpExposure(t *testing.T) {
	RecordLoad(ResultOK)

	recorder := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(recorder.Body.String(), "plugconf_document_loads_total") {
		t.Error("expected plugconf_document_loads_total in exposition")
	}
}

func TestRecordReload_Labels(t *testing.T) {
	ReloadsTotal.Reset()
	RecordReload("manual", ResultSkipped)

	var m dto.Metric
	if err := ReloadsTotal.WithLabelValues("manual", ResultSkipped).Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 1 {
		t.Errorf("expected 1 skipped reload, got %f", got)
	}
	labels := map[string]string{}
	for _, lp := range m.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	if labels["trigger"] != "manual" || labels["result"] != ResultSkipped {
		t.Errorf("unexpected labels %v", labels)
	}
}
