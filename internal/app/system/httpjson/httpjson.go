// internal/app/system/httpjson/httpjson.go

// Package httpjson is the JSON request/response plumbing for the API
// handlers: body decoding with a size cap, response encoding, and the
// single place where fault errors become HTTP status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seeyou-app/seeyou/internal/domain/fault"
)

// maxBodyBytes bounds request bodies. Profile images travel inline as
// base64, so the cap sits above the 5 MiB image limit plus encoding
// overhead.
const maxBodyBytes = 8 << 20

// Decode reads the request body into dst. Unknown fields are rejected
// so a misspelled field fails loudly instead of silently defaulting.
func Decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fault.Validationf("body", "invalid JSON: %v", err)
	}
	return nil
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Error maps err onto a status code and writes the JSON envelope.
// Anything outside the fault taxonomy is a 500 with a generic body so
// internals never leak to the client.
func Error(w http.ResponseWriter, err error) {
	var verr *fault.ValidationError
	switch {
	case errors.As(err, &verr):
		Respond(w, http.StatusBadRequest, errorBody{Error: verr.Reason, Field: verr.Field})
	case errors.Is(err, fault.ErrValidation):
		Respond(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, fault.ErrUnauthenticated):
		Respond(w, http.StatusUnauthorized, errorBody{Error: "unauthenticated"})
	case errors.Is(err, fault.ErrForbidden):
		Respond(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, fault.ErrNotFound):
		Respond(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, fault.ErrDuplicateRequest):
		Respond(w, http.StatusConflict, errorBody{Error: "request already exists"})
	case errors.Is(err, fault.ErrInvalidTransition):
		Respond(w, http.StatusConflict, errorBody{Error: "request already resolved"})
	default:
		Respond(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
