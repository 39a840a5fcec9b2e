// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for document spans.
const (
	DocumentFileKey     = "plugconf.document.file"
	DocumentRevisionKey = "plugconf.document.revision"
	DocumentBytesKey    = "plugconf.document.bytes"
	ReloadTriggerKey    = "plugconf.reload.trigger"
	ResultKey           = "plugconf.result"
)

// Resource attribute keys describing the invocation.
const (
	CommandKey   = "plugconf.command"
	DocumentsKey = "plugconf.documents"
)

// DocumentAttributes returns the attributes describing a document operation.
func DocumentAttributes(file string, revision uint64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(DocumentFileKey, file),
		attribute.Int64(DocumentRevisionKey, int64(revision)),
	}
}
