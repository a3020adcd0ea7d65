// Package slug derives URL slugs for marketplace categories and products.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/libmarket/phonecheck/internal/domain"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	dashes     = regexp.MustCompile(`-+`)
	validSlug  = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Make lowercases name, drops anything outside [a-z0-9], whitespace and '-',
// turns whitespace runs into '-', collapses '-' runs and trims edge dashes.
func Make(name string) (string, error) {
	s := strings.ToLower(name)
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	s = dashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > domain.MaxSlugLength {
		s = strings.TrimRight(s[:domain.MaxSlugLength], "-")
	}
	if s == "" {
		return "", fmt.Errorf("slug from %q is empty: %w", name, domain.ErrInvalidInput)
	}
	return s, nil
}

// Valid reports whether s only contains lowercase letters, digits and '-'.
func Valid(s string) bool {
	return validSlug.MatchString(s)
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns the first free candidate among base, base-2, base-3, ...
func Unique(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	base, err := Make(name)
	if err != nil {
		return "", err
	}
	for i := 1; i <= domain.MaxSlugAttempts; i++ {
		candidate := Candidate(base, i)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("slug %q: %d candidates taken: %w", base, domain.MaxSlugAttempts, domain.ErrAlreadyExists)
}

// Candidate returns the n-th candidate for base; n=1 is base itself.
func Candidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
