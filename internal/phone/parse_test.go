package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libmarket/phonecheck/internal/phone"
)

func TestParse(t *testing.T) {
	t.Run("partial MTN number", func(t *testing.T) {
		res := phone.Parse("881")

		assert.Equal(t, "881", res.Cleaned)
		assert.Equal(t, 3, res.DigitCount)
		assert.Equal(t, 5, res.NeedDigits)
		assert.Equal(t, phone.CarrierMTN, res.Carrier)
		assert.Contains(t, res.Suggestions, "Enter 5 more digit(s)")
		assert.Contains(t, res.Suggestions, "MTN number")
	})

	t.Run("country code and trunk zero are reported", func(t *testing.T) {
		res := phone.Parse("+231 0")

		assert.True(t, res.HasCountryCode)
		assert.True(t, res.HasLeadingZero)
		assert.Equal(t, "", res.Cleaned)
		assert.Equal(t, []string{"Enter 8 more digit(s)"}, res.Suggestions)
	})

	t.Run("local spelling", func(t *testing.T) {
		res := phone.Parse("086 12")

		assert.False(t, res.HasCountryCode)
		assert.True(t, res.HasLeadingZero)
		assert.Equal(t, "8612", res.Cleaned)
		assert.Contains(t, res.Suggestions, "Orange number")
	})

	t.Run("complete number", func(t *testing.T) {
		res := phone.Parse("+231 55 123 456")

		assert.Equal(t, 8, res.DigitCount)
		assert.Zero(t, res.NeedDigits)
		assert.Equal(t, []string{"Valid length", "Lonestar Cell number"}, res.Suggestions)
	})

	t.Run("too long", func(t *testing.T) {
		res := phone.Parse("771234567")

		assert.Contains(t, res.Suggestions, "Phone number is too long")
		assert.Contains(t, res.Suggestions, "MTN number")
	})

	t.Run("invalid prefix flagged at two digits", func(t *testing.T) {
		res := phone.Parse("99")

		assert.Equal(t, phone.CarrierUnknown, res.Carrier)
		assert.Contains(t, res.Suggestions, "Invalid prefix. Valid prefixes: 77, 76, 88, 86, 87, 55, 44, 33, 22")
	})

	t.Run("single digit gives no prefix verdict", func(t *testing.T) {
		res := phone.Parse("9")

		assert.Equal(t, []string{"Enter 7 more digit(s)"}, res.Suggestions)
	})

	t.Run("empty input", func(t *testing.T) {
		res := phone.Parse("")

		assert.Equal(t, 0, res.DigitCount)
		assert.Equal(t, 8, res.NeedDigits)
		assert.NotNil(t, res.Suggestions)
	})

	t.Run("foreign international number", func(t *testing.T) {
		res := phone.Parse("+1 415 555 2671")

		assert.False(t, res.HasCountryCode)
		assert.Contains(t, res.Suggestions, "Looks like a US number")
	})

	t.Run("foreign number gets no carrier suggestion", func(t *testing.T) {
		res := phone.Parse("+44 20 7946 0958")

		assert.Contains(t, res.Suggestions, "Looks like a GB number")
		assert.NotContains(t, res.Suggestions, "Lonestar Cell number")
		assert.Equal(t, phone.CarrierUnknown, res.Carrier)
		for _, s := range res.Suggestions {
			assert.NotContains(t, s, "Invalid prefix")
		}
	})
}
