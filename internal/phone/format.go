package phone

import (
	"github.com/nyaruka/phonenumbers"

	"github.com/libmarket/phonecheck/internal/domain"
)

// Format renders s as "+231 XX XXX XXX". Input that does not normalize to
// a canonical length is returned unchanged so display code never fails.
func Format(s string) string {
	d, ok := canonicalLength(Normalize(s))
	if !ok {
		return s
	}
	return "+" + domain.CountryCallingCode + " " + d[:2] + " " + d[2:5] + " " + d[5:]
}

// FormatWithCarrier renders a valid number as "+231 88 123 456 (MTN)" and
// returns anything else unchanged.
func FormatWithCarrier(raw string) string {
	res := Validate(raw)
	if !res.Valid {
		return raw
	}
	return Format(res.Canonical) + " (" + res.Carrier.String() + ")"
}

// ToInternational returns "+231" followed by the normalized digits.
func ToInternational(raw string) string {
	return "+" + domain.CountryCallingCode + Normalize(raw)
}

// ToLocal returns the local dialing form: trunk "0" plus the normalized digits.
func ToLocal(raw string) string {
	return domain.TrunkPrefix + Normalize(raw)
}

// ToE164 renders n for outbound SMS providers.
func ToE164(n Number) string {
	if n.IsZero() {
		return ""
	}
	num, err := phonenumbers.Parse(ToInternational(n.value), "")
	if err != nil {
		return ToInternational(n.value)
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
