package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libmarket/phonecheck/internal/domain"
)

func TestUserID(t *testing.T) {
	t.Run("valid UUID", func(t *testing.T) {
		raw := "550e8400-e29b-41d4-a716-446655440000"
		id, err := domain.NewUserID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, id.String())
		assert.False(t, id.IsZero())
	})

	t.Run("other spellings canonicalize", func(t *testing.T) {
		want := "550e8400-e29b-41d4-a716-446655440000"
		for _, raw := range []string{
			"550E8400-E29B-41D4-A716-446655440000",
			"{550e8400-e29b-41d4-a716-446655440000}",
			"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
		} {
			id, err := domain.NewUserID(raw)
			require.NoError(t, err, raw)
			assert.Equal(t, want, id.String(), raw)
		}
	})

	t.Run("empty string returns ErrEmptyID", func(t *testing.T) {
		_, err := domain.NewUserID("")
		assert.ErrorIs(t, err, domain.ErrEmptyID)
	})

	t.Run("invalid UUID returns ErrInvalidID", func(t *testing.T) {
		_, err := domain.NewUserID("not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("generated IDs are unique and valid", func(t *testing.T) {
		a := domain.GenerateUserID()
		b := domain.GenerateUserID()
		assert.NotEqual(t, a.String(), b.String())
		_, err := uuid.Parse(a.String())
		assert.NoError(t, err)
	})

	t.Run("zero value is zero", func(t *testing.T) {
		var id domain.UserID
		assert.True(t, id.IsZero())
	})

	t.Run("MustUserID panics on invalid", func(t *testing.T) {
		assert.Panics(t, func() { domain.MustUserID("nope") })
	})
}

func TestRequestID(t *testing.T) {
	t.Run("keeps a caller-supplied UUID", func(t *testing.T) {
		raw := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
		assert.Equal(t, raw, domain.NewRequestID(raw).String())
	})

	t.Run("replaces arbitrary text", func(t *testing.T) {
		id := domain.NewRequestID("<script>")
		assert.NotEqual(t, "<script>", id.String())
		_, err := uuid.Parse(id.String())
		assert.NoError(t, err)
	})

	t.Run("replaces empty", func(t *testing.T) {
		assert.NotEmpty(t, domain.NewRequestID("").String())
	})
}
