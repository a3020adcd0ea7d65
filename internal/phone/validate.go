package phone

import (
	"fmt"
	"strings"

	"github.com/libmarket/phonecheck/internal/domain"
)

// ValidationResult is the outcome of Validate. Failures are values, never
// panics: Err is one of domain.ErrEmptyInput, domain.ErrInvalidLength or
// domain.ErrUnknownPrefix, possibly wrapped with detail.
type ValidationResult struct {
	Valid     bool
	Canonical string // 8-digit canonical form; empty unless Valid
	Carrier   Carrier
	Err       error
}

// ErrorMessage returns the human-readable failure reason, or "" when valid.
func (r ValidationResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Validate normalizes raw and checks it against the Liberian numbering plan.
func Validate(raw string) ValidationResult {
	digits := Normalize(raw)
	if digits == "" {
		return ValidationResult{Err: domain.ErrEmptyInput}
	}

	canonical, ok := canonicalLength(digits)
	if !ok {
		return ValidationResult{Err: fmt.Errorf("%w: expected %d digits, got %d",
			domain.ErrInvalidLength, domain.CanonicalPhoneDigits, len(digits))}
	}

	carrier := carrierFor(canonical)
	if carrier == CarrierUnknown {
		return ValidationResult{Err: fmt.Errorf("%w: %s (valid prefixes are %s)",
			domain.ErrUnknownPrefix, canonical[:2], prefixList)}
	}

	return ValidationResult{Valid: true, Canonical: canonical, Carrier: carrier}
}

// IsValid reports whether raw is a valid Liberian mobile number.
func IsValid(raw string) bool {
	return Validate(raw).Valid
}

// canonicalLength accepts 8 normalized digits, or 9 when a second trunk zero
// survived normalization (e.g. "0088123456"); that zero is removed so the
// returned form is always 8 digits.
func canonicalLength(digits string) (string, bool) {
	switch {
	case len(digits) == domain.CanonicalPhoneDigits:
		return digits, true
	case len(digits) == domain.LegacyPhoneDigits && strings.HasPrefix(digits, domain.TrunkPrefix):
		return digits[1:], true
	default:
		return "", false
	}
}
