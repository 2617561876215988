package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is a server-reported failure decoded from the JSON error
// envelope. The API uses `detail`, `message` or `error` for a single
// message and `errors` (or top-level field maps) for validation failures.
type Error struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
		}
		return fmt.Sprintf("api error (status %d): %s", e.Status, strings.Join(parts, ", "))
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// TransportError is a network-level failure: the request never produced
// a server response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// AsTransportError extracts a *TransportError from an error chain.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsAuthError reports whether err is an authorization failure
// (not logged in or session expired).
func IsAuthError(err error) bool {
	apiErr, ok := AsError(err)
	return ok && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

// IsValidation reports whether err is a server-side validation failure
// with field-level messages.
func IsValidation(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusBadRequest
}

type errorEnvelope struct {
	Detail  string              `json:"detail"`
	Message string              `json:"message"`
	Err     string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// decodeError converts a non-2xx response body into an *Error. Field
// maps arrive either under `errors` or as the body itself (DRF
// serializer errors), so a second pass tries the bare map shape.
func decodeError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}
	if len(body) == 0 {
		apiErr.Detail = http.StatusText(status)
		return apiErr
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		switch {
		case env.Detail != "":
			apiErr.Detail = env.Detail
		case env.Message != "":
			apiErr.Detail = env.Message
		case env.Err != "":
			apiErr.Detail = env.Err
		}
		if len(env.Errors) > 0 {
			apiErr.Fields = env.Errors
		}
	}

	if apiErr.Detail == "" && apiErr.Fields == nil {
		var fields map[string][]string
		if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
			apiErr.Fields = fields
		}
	}
	if apiErr.Detail == "" && apiErr.Fields == nil {
		apiErr.Detail = http.StatusText(status)
	}
	return apiErr
}
