package domain

import "time"

// Liberian numbering plan.
const (
	CountryCallingCode   = "231" // ITU-T E.164 country code for Liberia
	TrunkPrefix          = "0"   // Local dialing trunk prefix
	CanonicalPhoneDigits = 8     // 2-digit operator prefix + 6-digit subscriber number
	LegacyPhoneDigits    = 9     // Accepted only while a second trunk zero survives normalization
)

// Operational limits. These are compiled defaults that can be overridden via configuration.
const (
	// Timeout contracts
	RedisTimeout = 2 * time.Second  // Max time for Redis operations
	RetryAfter   = 30 * time.Second // Advertised back-off for retryable HTTP errors

	// Request limits
	MaxRequestBodyBytes = 64 * 1024 // 64 KB max JSON request body
	MaxBatchSize        = 1000      // Max phone numbers in one dedupe request

	// Claim abuse limits, per canonical number
	ClaimRateLimit  = 10               // Max claim or owner lookups per window
	ClaimRateWindow = 10 * time.Minute // Fixed window length

	// Slug generation
	MaxSlugLength   = 60 // Slugs are truncated to this many bytes before suffixing
	MaxSlugAttempts = 50 // Max "-N" suffixes tried before giving up

	// Graceful shutdown
	GracefulShutdownTimeout = 30 * time.Second       // Max time to drain connections on shutdown
	ShutdownDrainDelay      = 500 * time.Millisecond // Time for load balancers to drop the endpoint
	ShutdownHTTPTimeout     = 10 * time.Second       // Max time for in-flight HTTP requests
	ShutdownOTELTimeout     = 5 * time.Second        // Max time to flush telemetry
)
