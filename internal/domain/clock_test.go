package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/domain/domaintest"
)

func TestRealClock(t *testing.T) {
	before := time.Now()
	got := domain.RealClock{}.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestFakeClock(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("returns fixed time", func(t *testing.T) {
		clock := domaintest.NewFakeClock(fixedTime)
		assert.True(t, clock.Now().Equal(fixedTime))
	})

	t.Run("advance moves time forward", func(t *testing.T) {
		clock := domaintest.NewFakeClock(fixedTime)
		clock.Advance(90 * time.Minute)
		assert.True(t, clock.Now().Equal(fixedTime.Add(90*time.Minute)))
	})

	t.Run("set changes time", func(t *testing.T) {
		clock := domaintest.NewFakeClock(fixedTime)
		later := time.Date(2026, 7, 26, 12, 0, 0, 0, time.UTC)
		clock.Set(later)
		assert.True(t, clock.Now().Equal(later))
	})
}

func TestMillisRoundTrip(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 9, 15, 30, 250_000_000, time.UTC)
	clock := domaintest.NewFakeClock(fixedTime)

	millis := domain.NowUTCMillis(clock)
	restored := domain.FromMillis(millis)

	assert.Equal(t, fixedTime.UnixMilli(), millis)
	assert.True(t, restored.Equal(fixedTime))
	assert.Equal(t, time.UTC, restored.Location())
}
