package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/libmarket/phonecheck/internal/domain"
)

// ParseResult is live feedback for a phone field that is still being typed.
// It is advisory only; Validate decides whether a submission is accepted.
type ParseResult struct {
	Cleaned        string   `json:"cleaned"`
	HasCountryCode bool     `json:"has_country_code"`
	HasLeadingZero bool     `json:"has_leading_zero"`
	DigitCount     int      `json:"digit_count"`
	NeedDigits     int      `json:"need_digits"`
	Carrier        Carrier  `json:"carrier,omitempty"`
	Suggestions    []string `json:"suggestions"`
}

// Parse inspects partial input and never fails.
func Parse(partial string) ParseResult {
	all := digitsOnly(partial)
	local := stripCountryCode(all)

	res := ParseResult{
		Cleaned:        Normalize(partial),
		HasCountryCode: strings.HasPrefix(all, domain.CountryCallingCode),
		HasLeadingZero: strings.HasPrefix(local, domain.TrunkPrefix),
		Suggestions:    []string{},
	}
	res.DigitCount = len(res.Cleaned)

	canonical, lengthOK := canonicalLength(res.Cleaned)
	switch {
	case res.DigitCount < domain.CanonicalPhoneDigits:
		res.NeedDigits = domain.CanonicalPhoneDigits - res.DigitCount
		res.Suggestions = append(res.Suggestions, fmt.Sprintf("Enter %d more digit(s)", res.NeedDigits))
	case lengthOK:
		res.Suggestions = append(res.Suggestions, "Valid length")
	default:
		res.Suggestions = append(res.Suggestions, "Phone number is too long")
	}

	if !lengthOK {
		canonical = res.Cleaned
	}
	if region := foreignRegion(partial, all); region != "" {
		res.Suggestions = append(res.Suggestions, "Looks like a "+region+" number")
	} else if len(canonical) >= 2 {
		if c := carrierFor(canonical); c != CarrierUnknown {
			res.Carrier = c
			res.Suggestions = append(res.Suggestions, c.String()+" number")
		} else {
			res.Suggestions = append(res.Suggestions, "Invalid prefix. Valid prefixes: "+prefixList)
		}
	}

	return res
}

// foreignRegion returns the ISO region of an explicitly international number
// outside Liberia, or "" when there is none.
func foreignRegion(partial, digits string) string {
	if !strings.HasPrefix(strings.TrimSpace(partial), "+") || strings.HasPrefix(digits, domain.CountryCallingCode) {
		return ""
	}
	num, err := phonenumbers.Parse(partial, "")
	if err != nil {
		return ""
	}
	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == "LR" || region == "ZZ" {
		return ""
	}
	return region
}
