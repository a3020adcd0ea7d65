package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// ID validation errors
	ErrEmptyID   = errors.New("ID cannot be empty")
	ErrInvalidID = errors.New("invalid ID format")

	// Resource errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	// Authorization errors
	ErrForbidden = errors.New("permission denied")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrRequestTooLarge = errors.New("request exceeds size limit")

	// Operational errors
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrUnavailable = errors.New("service temporarily unavailable")

	// Configuration errors
	ErrConfigRequired = errors.New("required configuration key missing")
)

// ErrInvalidPhoneNumber is the umbrella for every phone validation failure.
// The specific kinds below unwrap to it.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

var (
	ErrEmptyInput    error = &phoneError{msg: "phone number is required"}
	ErrInvalidLength error = &phoneError{msg: "invalid phone number length"}
	ErrUnknownPrefix error = &phoneError{msg: "invalid network operator prefix"}
)

// phoneError keeps the user-facing message of a phone validation kind
// while still matching ErrInvalidPhoneNumber through errors.Is.
type phoneError struct {
	msg string
}

func (e *phoneError) Error() string { return e.msg }
func (e *phoneError) Unwrap() error { return ErrInvalidPhoneNumber }

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrRateLimited)
}

// clientErrors enumerates all domain errors that represent client-side issues.
var clientErrors = []error{
	ErrInvalidInput,
	ErrRequestTooLarge,
	ErrNotFound,
	ErrAlreadyExists,
	ErrForbidden,
	ErrEmptyID,
	ErrInvalidID,
	ErrInvalidPhoneNumber,
}

// IsClientError returns true if the error represents a client-side issue
// that will not succeed on retry without client-side changes.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound returns true if the error represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
