// Package respond writes the JSON bodies every feature returns.
//
// Success bodies are the value itself. Failures are {"error": "..."},
// plus "fields" for validation failures.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/casadefe/internal/app/system/limits"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { JSON(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { JSON(w, http.StatusCreated, v) }

// NoContent writes 204.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Error writes {"error": msg} with status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// Invalid writes 422 with one message per field.
func Invalid(w http.ResponseWriter, msg string, fields map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg, Fields: fields})
}

// Decode reads a JSON request body into dst, rejecting unknown fields and
// bodies over limits.MaxJSONBody.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
