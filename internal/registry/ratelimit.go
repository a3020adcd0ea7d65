package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/phone"
	redisclient "github.com/libmarket/phonecheck/internal/redis"
)

// rateLimitScript atomically increments a counter and sets its TTL on the
// first write, so the window starts at the first attempt without relying on
// EXPIRE ... NX (Redis 7.0+).
const rateLimitScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// RateLimiter caps claim attempts and owner lookups per canonical number so
// the registry cannot be used to enumerate which numbers are registered.
// It fails closed: a Redis error denies the request.
type RateLimiter struct {
	cmd    redisclient.Cmdable
	prefix string
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit attempts per number in each fixed window.
func NewRateLimiter(cmd redisclient.Cmdable, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{cmd: cmd, prefix: prefix, limit: limit, window: window}
}

// AllowClaim records one attempt against n. It returns domain.ErrRateLimited
// once the window's budget is spent.
func (r *RateLimiter) AllowClaim(ctx context.Context, n phone.Number) error {
	ctx, span := startSpan(ctx, "registry.ratelimit.check", "EVAL")
	defer span.End()

	key := redisclient.Key(r.prefix, "ratelimit", "claim", n.String())
	count, err := r.cmd.Eval(ctx, rateLimitScript, []string{key}, int(r.window/time.Second)).Int64()
	if err != nil {
		return unavailable(span, fmt.Sprintf("rate limit phone %s", n.Masked()), err)
	}
	if count > int64(r.limit) {
		return fmt.Errorf("phone %s: %d attempts in %s: %w", n.Masked(), count, r.window, domain.ErrRateLimited)
	}
	return nil
}
