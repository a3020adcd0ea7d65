// Package registry enforces marketplace-wide uniqueness of canonical phone
// numbers and category slugs in Redis.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/phone"
	redisclient "github.com/libmarket/phonecheck/internal/redis"
	"github.com/libmarket/phonecheck/internal/slug"
)

var tracer = otel.Tracer("github.com/libmarket/phonecheck/internal/registry")

// releaseScript deletes a phone claim only when ARGV[1] owns it.
// Returns 1 when deleted, 0 when the key is absent, -1 when owned by someone else.
const releaseScript = `
local v = redis.call('GET', KEYS[1])
if not v then
  return 0
end
local owner = ARGV[1] .. '|'
if string.sub(v, 1, string.len(owner)) == owner then
  return redis.call('DEL', KEYS[1])
end
return -1
`

// maxSlugRaces bounds how often ClaimSlug restarts after losing a SETNX race.
const maxSlugRaces = 3

// Claim is the stored owner of a phone number.
type Claim struct {
	Owner     domain.UserID
	ClaimedAt time.Time
}

// Registry implements phone and slug claims backed by Redis.
// Redis failures are returned wrapped in domain.ErrUnavailable.
type Registry struct {
	cmd    redisclient.Cmdable
	prefix string
	clock  domain.Clock
}

// New creates a Registry. prefix namespaces every key.
func New(cmd redisclient.Cmdable, prefix string, clock domain.Clock) *Registry {
	return &Registry{cmd: cmd, prefix: prefix, clock: clock}
}

func (r *Registry) phoneKey(n phone.Number) string {
	return redisclient.Key(r.prefix, "phone", n.String())
}

func (r *Registry) slugKey(s string) string {
	return redisclient.Key(r.prefix, "slug", s)
}

// ClaimPhone records owner as the holder of n. Claiming a number the same
// owner already holds succeeds; any other holder yields domain.ErrAlreadyExists.
func (r *Registry) ClaimPhone(ctx context.Context, n phone.Number, owner domain.UserID) error {
	ctx, span := startSpan(ctx, "registry.claim_phone", "SETNX")
	defer span.End()
	span.SetAttributes(attribute.String("phone.carrier", n.Carrier().String()))

	value := encodeClaim(owner, domain.NowUTCMillis(r.clock))
	for attempt := 0; ; attempt++ {
		ok, err := r.cmd.SetNX(ctx, r.phoneKey(n), value, 0).Result()
		if err != nil {
			return unavailable(span, fmt.Sprintf("claim phone %s", n.Masked()), err)
		}
		if ok {
			return nil
		}

		existing, err := r.PhoneOwner(ctx, n)
		if domain.IsNotFound(err) && attempt == 0 {
			// Released between SETNX and GET.
			continue
		}
		if err != nil {
			return err
		}
		if existing.Owner == owner {
			return nil
		}
		return fmt.Errorf("phone %s already registered: %w", n.Masked(), domain.ErrAlreadyExists)
	}
}

// PhoneOwner returns the claim on n, or domain.ErrNotFound.
func (r *Registry) PhoneOwner(ctx context.Context, n phone.Number) (Claim, error) {
	ctx, span := startSpan(ctx, "registry.phone_owner", "GET")
	defer span.End()

	v, err := r.cmd.Get(ctx, r.phoneKey(n)).Result()
	if errors.Is(err, redisclient.Nil) {
		return Claim{}, fmt.Errorf("phone %s: %w", n.Masked(), domain.ErrNotFound)
	}
	if err != nil {
		return Claim{}, unavailable(span, fmt.Sprintf("get phone %s", n.Masked()), err)
	}

	c, err := decodeClaim(v)
	if err != nil {
		return Claim{}, fmt.Errorf("decode claim for phone %s: %w", n.Masked(), err)
	}
	return c, nil
}

// ReleasePhone removes owner's claim on n. Unclaimed numbers yield
// domain.ErrNotFound; numbers held by someone else yield domain.ErrForbidden.
func (r *Registry) ReleasePhone(ctx context.Context, n phone.Number, owner domain.UserID) error {
	ctx, span := startSpan(ctx, "registry.release_phone", "EVAL")
	defer span.End()

	res, err := r.cmd.Eval(ctx, releaseScript, []string{r.phoneKey(n)}, owner.String()).Int64()
	if err != nil {
		return unavailable(span, fmt.Sprintf("release phone %s", n.Masked()), err)
	}

	switch res {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("phone %s: %w", n.Masked(), domain.ErrNotFound)
	default:
		return fmt.Errorf("phone %s held by another user: %w", n.Masked(), domain.ErrForbidden)
	}
}

// ClaimSlug reserves the first free slug derived from name and returns it.
func (r *Registry) ClaimSlug(ctx context.Context, name string) (string, error) {
	ctx, span := startSpan(ctx, "registry.claim_slug", "SETNX")
	defer span.End()

	exists := func(ctx context.Context, s string) (bool, error) {
		n, err := r.cmd.Exists(ctx, r.slugKey(s)).Result()
		if err != nil {
			return false, unavailable(span, "slug exists", err)
		}
		return n > 0, nil
	}

	for range maxSlugRaces {
		candidate, err := slug.Unique(ctx, name, exists)
		if err != nil {
			return "", err
		}
		ok, err := r.cmd.SetNX(ctx, r.slugKey(candidate), name, 0).Result()
		if err != nil {
			return "", unavailable(span, fmt.Sprintf("claim slug %q", candidate), err)
		}
		if ok {
			span.SetAttributes(attribute.String("slug", candidate))
			return candidate, nil
		}
	}
	return "", fmt.Errorf("slug for %q: lost %d claim races: %w", name, maxSlugRaces, domain.ErrAlreadyExists)
}

// SlugTaken reports whether s is already reserved.
func (r *Registry) SlugTaken(ctx context.Context, s string) (bool, error) {
	ctx, span := startSpan(ctx, "registry.slug_taken", "EXISTS")
	defer span.End()

	n, err := r.cmd.Exists(ctx, r.slugKey(s)).Result()
	if err != nil {
		return false, unavailable(span, fmt.Sprintf("slug %q", s), err)
	}
	return n > 0, nil
}

func startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", op),
	)
	return ctx, span
}

func unavailable(span trace.Span, what string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("%s: %w: %w", what, domain.ErrUnavailable, err)
}

// encodeClaim stores "<owner>|<claimed_at_millis>".
func encodeClaim(owner domain.UserID, millis int64) string {
	return owner.String() + "|" + strconv.FormatInt(millis, 10)
}

func decodeClaim(v string) (Claim, error) {
	ownerRaw, millisRaw, ok := strings.Cut(v, "|")
	if !ok {
		return Claim{}, fmt.Errorf("malformed claim %q", v)
	}
	owner, err := domain.NewUserID(ownerRaw)
	if err != nil {
		return Claim{}, err
	}
	millis, err := strconv.ParseInt(millisRaw, 10, 64)
	if err != nil {
		return Claim{}, fmt.Errorf("malformed claim time %q: %w", millisRaw, err)
	}
	return Claim{Owner: owner, ClaimedAt: domain.FromMillis(millis)}, nil
}
