package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libmarket/phonecheck/internal/domain"
)

func TestPhoneErrorsWrapUmbrella(t *testing.T) {
	for _, err := range []error{domain.ErrEmptyInput, domain.ErrInvalidLength, domain.ErrUnknownPrefix} {
		t.Run(err.Error(), func(t *testing.T) {
			assert.ErrorIs(t, err, domain.ErrInvalidPhoneNumber)
			assert.ErrorIs(t, fmt.Errorf("validate: %w", err), domain.ErrInvalidPhoneNumber)
		})
	}

	assert.NotErrorIs(t, domain.ErrInvalidLength, domain.ErrUnknownPrefix)
	assert.NotErrorIs(t, domain.ErrEmptyInput, domain.ErrInvalidLength)
	assert.NotErrorIs(t, domain.ErrInvalidPhoneNumber, domain.ErrEmptyInput)

	assert.Equal(t, "phone number is required", domain.ErrEmptyInput.Error())
	assert.Equal(t, "invalid phone number length", domain.ErrInvalidLength.Error())
	assert.Equal(t, "invalid network operator prefix", domain.ErrUnknownPrefix.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrUnavailable", domain.ErrUnavailable, true},
		{"wrapped ErrUnavailable", fmt.Errorf("redis: %w", domain.ErrUnavailable), true},
		{"ErrRateLimited", domain.ErrRateLimited, true},
		{"ErrNotFound", domain.ErrNotFound, false},
		{"ErrInvalidLength", domain.ErrInvalidLength, false},
		{"random error", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsRetryable(tt.err))
		})
	}
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrInvalidInput", domain.ErrInvalidInput, true},
		{"ErrRequestTooLarge", domain.ErrRequestTooLarge, true},
		{"ErrNotFound", domain.ErrNotFound, true},
		{"ErrAlreadyExists", domain.ErrAlreadyExists, true},
		{"ErrForbidden", domain.ErrForbidden, true},
		{"ErrEmptyID", domain.ErrEmptyID, true},
		{"ErrUnknownPrefix", domain.ErrUnknownPrefix, true},
		{"wrapped ErrEmptyInput", fmt.Errorf("register: %w", domain.ErrEmptyInput), true},
		{"ErrUnavailable", domain.ErrUnavailable, false},
		{"ErrRateLimited", domain.ErrRateLimited, false},
		{"ErrConfigRequired", domain.ErrConfigRequired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsClientError(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, domain.IsNotFound(domain.ErrNotFound))
	assert.True(t, domain.IsNotFound(fmt.Errorf("phone %s: %w", "88****56", domain.ErrNotFound)))
	assert.False(t, domain.IsNotFound(domain.ErrAlreadyExists))
	assert.False(t, domain.IsNotFound(nil))
}
