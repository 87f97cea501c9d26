// internal/app/system/apperr/apperr.go

// Package apperr defines the application error taxonomy and its JSON
// rendering. Stores and handlers tag errors with a Kind; the HTTP layer
// maps kinds to status codes. Untagged errors render as a generic 500
// so internal detail never leaks to callers.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies an error for callers.
type Kind string

const (
	// Unauthorized: missing or invalid credential at the boundary.
	Unauthorized Kind = "unauthorized"
	// Conflict: an invariant violation was attempted (user already has a
	// group, already a member, not a member, creator leaving). Never
	// retried automatically.
	Conflict Kind = "conflict"
	// NotFound: a referenced group or module does not exist.
	NotFound Kind = "not_found"
	// Validation: malformed input, rejected before any mutation.
	Validation Kind = "validation"
	// Transient: infrastructure failure; safe to retry with backoff.
	Transient Kind = "transient"
)

// Error is a kind-tagged error. Message is safe to surface to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a kind-tagged error with a caller-safe message.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an underlying error with a kind and a caller-safe message.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" if err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is tagged with the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func status(kind Kind) int {
	switch kind {
	case Unauthorized:
		return http.StatusUnauthorized
	case Conflict:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusUnprocessableEntity
	case Transient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// WriteJSON renders err as the API's structured error body. Untagged
// errors are logged and rendered as a generic internal error.
func WriteJSON(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := KindOf(err)
	message := "internal error"

	var e *Error
	if errors.As(err, &e) {
		message = e.Message
	} else if log != nil {
		log.Error("unclassified error", zap.Error(err))
	}

	name := string(kind)
	if name == "" {
		name = "internal"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status(kind))
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Kind: name, Message: message}})
}
