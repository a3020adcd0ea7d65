// Package domain contains the marketplace's shared value types, limits and
// sentinel errors. Only google/uuid is imported here.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID is a value object representing a marketplace user identifier.
// Always valid in memory - use NewUserID to construct.
type UserID struct {
	value string
}

// NewUserID creates a UserID from a raw string, validating it is a valid UUID.
// The stored value is the canonical lowercase hyphenated form, so every
// spelling of the same UUID yields an equal UserID.
func NewUserID(raw string) (UserID, error) {
	if raw == "" {
		return UserID{}, ErrEmptyID
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user ID %q: %w", raw, ErrInvalidID)
	}
	return UserID{value: u.String()}, nil
}

// MustUserID creates a UserID, panicking on invalid input. Use only in tests.
func MustUserID(raw string) UserID {
	id, err := NewUserID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateUserID creates a new random UserID.
func GenerateUserID() UserID {
	return UserID{value: uuid.NewString()}
}

func (id UserID) String() string { return id.value }
func (id UserID) IsZero() bool   { return id.value == "" }

// RequestID identifies a single inbound request for log correlation.
type RequestID struct {
	value string
}

// NewRequestID accepts a caller-supplied request ID. Anything that is not a
// UUID is replaced with a fresh one so logs never carry arbitrary client text.
func NewRequestID(raw string) RequestID {
	if _, err := uuid.Parse(raw); err != nil {
		return GenerateRequestID()
	}
	return RequestID{value: raw}
}

// GenerateRequestID creates a new random RequestID.
func GenerateRequestID() RequestID {
	return RequestID{value: uuid.NewString()}
}

func (id RequestID) String() string { return id.value }
