// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Command: "get"})
	if err != nil {
		t.Fatalf("NewProvider() error: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on noop provider: %v", err)
	}

	ctx, span := Tracer("test").Start(context.Background(), "noop-check")
	defer span.End()
	if trace.SpanFromContext(ctx) == nil {
		t.Error("expected span in context")
	}
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Endpoint: "localhost:4317",
		Protocol: "carrier-pigeon",
	})
	if err == nil {
		t.Fatal("expected error for unsupported exporter")
	}
}

func TestDocumentAttributes(t *testing.T) {
	attrs := DocumentAttributes("config.yml", 7)
	want := map[attribute.Key]attribute.Value{
		DocumentFileKey:     attribute.StringValue("config.yml"),
		DocumentRevisionKey: attribute.Int64Value(7),
	}
	if len(attrs) != len(want) {
		t.Fatalf("expected %d attributes, got %d", len(want), len(attrs))
	}
	for _, kv := range attrs {
		if kv.Value != want[kv.Key] {
			t.Errorf("attribute %s = %v, want %v", kv.Key, kv.Value.Emit(), want[kv.Key].Emit())
		}
	}
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(Config{
		ServiceVersion: "v1.2.3",
		Command:        "check",
		Documents:      []string{"a.yml", "b.yml"},
	})
	got := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		got[kv.Key] = kv.Value
	}

	if got["service.name"].AsString() != ServiceName {
		t.Errorf("service.name = %q", got["service.name"].AsString())
	}
	if got["service.version"].AsString() != "v1.2.3" {
		t.Errorf("service.version = %q", got["service.version"].AsString())
	}
	if got[CommandKey].AsString() != "check" {
		t.Errorf("%s = %q", CommandKey, got[CommandKey].AsString())
	}
	if docs := got[DocumentsKey].AsStringSlice(); len(docs) != 2 || docs[1] != "b.yml" {
		t.Errorf("%s = %v", DocumentsKey, docs)
	}

	bare := resourceAttributes(Config{})
	if len(bare) != 2 {
		t.Errorf("expected only service attributes without an invocation, got %d", len(bare))
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "AlwaysOnSampler"},
		{1, "AlwaysOnSampler"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		if got := sampler(tt.ratio).Description(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("sampler(%v) = %q, want prefix %q", tt.ratio, got, tt.want)
		}
	}
}

func TestShutdown_NilProvider(t *testing.T) {
	var p *Provider
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on nil provider: %v", err)
	}
}
