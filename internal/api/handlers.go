// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ManuGH/plugconf/pkg/codec"
	"github.com/ManuGH/plugconf/pkg/config"
)

type keysResponse struct {
	Path string   `json:"path"`
	Keys []string `json:"keys"`
}

type valueResponse struct {
	Path  string `json:"path"`
	Type  string `json:"type,omitempty"`
	Value any    `json:"value"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (h *handler) keys(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusOK, keysResponse{Keys: h.cfg.GetKeys()})
		return
	}
	keys, err := h.cfg.GetKeysAt(path)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, keysResponse{Path: path, Keys: keys})
}

// value returns the raw content at path. With type set, the content must
// also decode as that type.
func (h *handler) value(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path, typ := q.Get("path"), q.Get("type")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "path is required")
		return
	}

	// type check and read from one snapshot so a reload cannot slip between
	doc := h.cfg.Document()
	if typ != "" {
		like, ok := codec.Zero(typ)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "unknown type "+typ)
			return
		}
		if _, err := h.cfg.Registry().Decode(doc, path, like); err != nil {
			h.fail(w, err)
			return
		}
	}

	node, ok := doc.Get(path)
	if !ok {
		h.fail(w, fmt.Errorf("%w: %q", config.ErrMissingField, path))
		return
	}
	var v any
	if err := node.Decode(&v); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, valueResponse{Path: path, Type: typ, Value: jsonable(v)})
}

// jsonable rewrites the map[any]any values yaml.v3 produces for maps with
// non-string keys (inventory slots) into map[string]any.
func jsonable(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = jsonable(e)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = jsonable(e)
		}
		return out
	case []any:
		for i, e := range v {
			v[i] = jsonable(e)
		}
		return v
	default:
		return v
	}
}

func (h *handler) revision(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"file":     h.cfg.File(),
		"revision": h.cfg.Revision(),
	})
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, config.ErrMissingField), errors.Is(err, config.ErrNoSuchSection):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, config.ErrTypeMismatch),
		errors.Is(err, config.ErrInvalidEnumValue),
		errors.Is(err, config.ErrUnresolvedWorld):
		status, code = http.StatusUnprocessableEntity, "undecodable"
	case errors.Is(err, config.ErrInvalidPath):
		status, code = http.StatusBadRequest, "bad_request"
	}
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("event", "api.request_failed").Msg("request failed")
	}
	writeError(w, status, code, err.Error())
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{Error: code, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorResponse{Error: "unencodable", Detail: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
