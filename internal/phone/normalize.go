// Package phone canonicalizes, validates and formats Liberian mobile numbers.
//
// The canonical form is eight ASCII digits: a two-digit network operator
// prefix followed by a six-digit subscriber number, with no country code and
// no trunk zero. It is the only representation that is stored or compared.
// Every function in this package is pure and safe for concurrent use.
package phone

import (
	"strings"

	"github.com/libmarket/phonecheck/internal/domain"
)

// Normalize reduces raw user input to its digit string: every non-digit is
// dropped, then a leading "231" country code is removed once, then a single
// leading trunk "0". The result is not length- or prefix-checked.
func Normalize(raw string) string {
	d := stripCountryCode(digitsOnly(raw))
	return strings.TrimPrefix(d, domain.TrunkPrefix)
}

// digitsOnly keeps ASCII digits in their original order.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func stripCountryCode(digits string) string {
	return strings.TrimPrefix(digits, domain.CountryCallingCode)
}
