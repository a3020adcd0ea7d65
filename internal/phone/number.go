package phone

import (
	"log/slog"
	"strings"

	"github.com/libmarket/phonecheck/internal/domain"
)

// Number is a value object holding a canonical Liberian mobile number.
// Always valid in memory - use New to construct.
type Number struct {
	value string
}

// New validates raw and returns its canonical Number.
func New(raw string) (Number, error) {
	res := Validate(raw)
	if !res.Valid {
		return Number{}, res.Err
	}
	return Number{value: res.Canonical}, nil
}

// MustNew creates a Number, panicking on invalid input. Use only in tests.
func MustNew(raw string) Number {
	n, err := New(raw)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the canonical 8-digit form.
func (n Number) String() string { return n.value }
func (n Number) IsZero() bool   { return n.value == "" }

// Equal reports whether two numbers share a canonical form.
func (n Number) Equal(o Number) bool { return n.value == o.value }

func (n Number) Carrier() Carrier { return carrierFor(n.value) }

// Display returns the "+231 XX XXX XXX" form.
func (n Number) Display() string { return Format(n.value) }

func (n Number) International() string { return ToInternational(n.value) }
func (n Number) Local() string         { return ToLocal(n.value) }
func (n Number) E164() string          { return ToE164(n) }

// Masked hides the subscriber digits except the last two: "88****56".
func (n Number) Masked() string {
	if len(n.value) != domain.CanonicalPhoneDigits {
		return n.value
	}
	return n.value[:2] + strings.Repeat("*", domain.CanonicalPhoneDigits-4) + n.value[domain.CanonicalPhoneDigits-2:]
}

// LogValue implements slog.LogValuer so numbers are never logged in clear.
func (n Number) LogValue() slog.Value {
	return slog.StringValue(n.Masked())
}

var _ slog.LogValuer = Number{}
