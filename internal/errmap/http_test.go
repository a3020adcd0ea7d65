package errmap_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/errmap"
	"github.com/libmarket/phonecheck/internal/phone"
)

// domainErrors lists every sentinel in domain/errors.go.
var domainErrors = []error{
	domain.ErrEmptyID,
	domain.ErrInvalidID,
	domain.ErrNotFound,
	domain.ErrAlreadyExists,
	domain.ErrForbidden,
	domain.ErrInvalidInput,
	domain.ErrRequestTooLarge,
	domain.ErrRateLimited,
	domain.ErrUnavailable,
	domain.ErrConfigRequired,
	domain.ErrInvalidPhoneNumber,
	domain.ErrEmptyInput,
	domain.ErrInvalidLength,
	domain.ErrUnknownPrefix,
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatusCode int
		wantCode       string
	}{
		{"nil error", nil, http.StatusOK, ""},

		{"ErrNotFound", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"ErrAlreadyExists", domain.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{"ErrForbidden", domain.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},

		{"ErrEmptyInput", domain.ErrEmptyInput, http.StatusBadRequest, "PHONE_REQUIRED"},
		{"ErrInvalidLength", phone.Validate("12345").Err, http.StatusBadRequest, "INVALID_LENGTH"},
		{"ErrUnknownPrefix", phone.Validate("11123456").Err, http.StatusBadRequest, "UNKNOWN_PREFIX"},
		{"ErrInvalidPhoneNumber", domain.ErrInvalidPhoneNumber, http.StatusBadRequest, "INVALID_ARGUMENT"},

		{"ErrInvalidInput", domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"ErrEmptyID", domain.ErrEmptyID, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"ErrInvalidID", domain.ErrInvalidID, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"ErrRequestTooLarge", domain.ErrRequestTooLarge, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE"},

		{"ErrRateLimited", domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"ErrUnavailable", domain.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},

		{"wrapped ErrNotFound", fmt.Errorf("registry: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unknown error", fmt.Errorf("unexpected"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errmap.ToHTTPError(tt.err)
			assert.Equal(t, tt.wantStatusCode, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestToHTTPError_HidesInternalDetails(t *testing.T) {
	got := errmap.ToHTTPError(errors.New("dial tcp 10.0.0.4:6379: connection refused"))

	assert.Equal(t, "internal error", got.Message)
}

func TestToHTTPError_OperationalErrorsUseFixedMessage(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			"unavailable",
			fmt.Errorf("rate limit phone 88****56: %w: %w", domain.ErrUnavailable,
				errors.New("dial tcp 127.0.0.1:44155: connect: connection refused")),
			"service temporarily unavailable",
		},
		{
			"rate limited",
			fmt.Errorf("phone 88****56: %w", domain.ErrRateLimited),
			"rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errmap.ToHTTPError(tt.err)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.NotContains(t, got.Message, "127.0.0.1")
			assert.NotContains(t, got.Message, "88****56")
		})
	}
}

func TestToHTTPError_ClientErrorsKeepContext(t *testing.T) {
	got := errmap.ToHTTPError(fmt.Errorf("phone 88****56 already registered: %w", domain.ErrAlreadyExists))

	assert.Equal(t, "phone 88****56 already registered: resource already exists", got.Message)
}

func TestHTTPMappingCompleteness(t *testing.T) {
	for _, err := range domainErrors {
		t.Run(err.Error(), func(t *testing.T) {
			if errors.Is(err, domain.ErrConfigRequired) {
				return
			}
			assert.NotEqual(t, http.StatusInternalServerError, errmap.ToHTTPError(err).StatusCode,
				"domain error %q should have explicit HTTP mapping", err.Error())
		})
	}
}

func TestWriteHTTPError(t *testing.T) {
	rec := httptest.NewRecorder()

	errmap.WriteHTTPError(rec, phone.Validate("").Err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PHONE_REQUIRED", body.Error.Code)
	assert.Equal(t, "phone number is required", body.Error.Message)
}

func TestWriteHTTPError_RetryAfter(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantRetry string
	}{
		{"unavailable", fmt.Errorf("ping: %w", domain.ErrUnavailable), "30"},
		{"rate limited", domain.ErrRateLimited, "30"},
		{"client error", domain.ErrNotFound, ""},
		{"internal error", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			errmap.WriteHTTPError(rec, tt.err)

			assert.Equal(t, tt.wantRetry, rec.Header().Get("Retry-After"))
		})
	}
}
