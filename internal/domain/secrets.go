package domain

import "log/slog"

// SecretString wraps configuration values such as the Redis password.
// Both fmt and slog see a placeholder; only Expose returns the value.
type SecretString string

func (s SecretString) String() string { return "[REDACTED]" }

// LogValue implements slog.LogValuer.
func (s SecretString) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

// Expose returns the actual secret value.
func (s SecretString) Expose() string {
	return string(s)
}

func (s SecretString) IsEmpty() bool { return len(s) == 0 }

var _ slog.LogValuer = SecretString("")
