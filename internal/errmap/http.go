// Package errmap translates domain errors into HTTP responses.
package errmap

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/libmarket/phonecheck/internal/domain"
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e HTTPError) Error() string {
	return e.Message
}

// httpMapping defines a domain error to HTTP status/code mapping.
// A non-empty message replaces the error text in the response body.
type httpMapping struct {
	err        error
	statusCode int
	code       string
	message    string
}

// httpMappings maps domain errors to HTTP status codes and error codes.
// Order matters: first match wins (via errors.Is). The specific phone
// failures precede their umbrella ErrInvalidPhoneNumber.
var httpMappings = []httpMapping{
	// Resource errors
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS", ""},

	// Permission errors
	{domain.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED", ""},

	// Phone validation errors
	{domain.ErrEmptyInput, http.StatusBadRequest, "PHONE_REQUIRED", ""},
	{domain.ErrInvalidLength, http.StatusBadRequest, "INVALID_LENGTH", ""},
	{domain.ErrUnknownPrefix, http.StatusBadRequest, "UNKNOWN_PREFIX", ""},
	{domain.ErrInvalidPhoneNumber, http.StatusBadRequest, "INVALID_ARGUMENT", ""},

	// Validation errors
	{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT", ""},
	{domain.ErrEmptyID, http.StatusBadRequest, "INVALID_ARGUMENT", ""},
	{domain.ErrInvalidID, http.StatusBadRequest, "INVALID_ARGUMENT", ""},
	{domain.ErrRequestTooLarge, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", ""},

	// Operational errors wrap backend detail, so clients get the sentinel text only.
	{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED", domain.ErrRateLimited.Error()},
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", domain.ErrUnavailable.Error()},
}

// ToHTTPError converts a domain error to an HTTP error.
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return HTTPError{StatusCode: http.StatusOK}
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return HTTPError{StatusCode: m.statusCode, Code: m.code, Message: msg}
		}
	}
	// Never expose internal error details to clients
	return HTTPError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
}

// WriteHTTPError writes err as a JSON error body with its mapped status.
// Retryable errors also carry a Retry-After header.
func WriteHTTPError(w http.ResponseWriter, err error) {
	httpErr := ToHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	if domain.IsRetryable(err) {
		w.Header().Set("Retry-After", strconv.Itoa(int(domain.RetryAfter.Seconds())))
	}
	w.WriteHeader(httpErr.StatusCode)
	_ = json.NewEncoder(w).Encode(struct {
		Error HTTPError `json:"error"`
	}{httpErr})
}
