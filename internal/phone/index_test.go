package phone_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libmarket/phonecheck/internal/domain"
	"github.com/libmarket/phonecheck/internal/phone"
)

func TestIndex(t *testing.T) {
	t.Run("detects duplicate spellings", func(t *testing.T) {
		idx := phone.NewIndex()

		n, dup, err := idx.Add("+231 88 123 456")
		require.NoError(t, err)
		assert.False(t, dup)
		assert.Equal(t, "88123456", n.String())

		_, dup, err = idx.Add("088 123 456")
		require.NoError(t, err)
		assert.True(t, dup, "same canonical form must be a duplicate")

		_, dup, err = idx.Add("86123456")
		require.NoError(t, err)
		assert.False(t, dup)

		assert.Equal(t, 2, idx.Len())

		groups := idx.Groups()
		require.Len(t, groups, 2)
		assert.Equal(t, "88123456", groups[0].Number.String())
		assert.Equal(t, []string{"+231 88 123 456", "088 123 456"}, groups[0].Raw)

		dups := idx.Duplicates()
		require.Len(t, dups, 1)
		assert.Equal(t, "88123456", dups[0].Number.String())
	})

	t.Run("invalid input is rejected and not recorded", func(t *testing.T) {
		idx := phone.NewIndex()

		_, _, err := idx.Add("12345")
		assert.ErrorIs(t, err, domain.ErrInvalidLength)
		assert.Zero(t, idx.Len())
	})

	t.Run("groups are copies", func(t *testing.T) {
		idx := phone.NewIndex()
		_, _, err := idx.Add("22123456")
		require.NoError(t, err)

		groups := idx.Groups()
		groups[0].Raw[0] = "mutated"

		assert.Equal(t, "22123456", idx.Groups()[0].Raw[0])
	})

	t.Run("safe for concurrent adds", func(t *testing.T) {
		idx := phone.NewIndex()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, _ = idx.Add(fmt.Sprintf("+231 77 %06d", i%10))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, idx.Len())
		assert.Len(t, idx.Duplicates(), 10)
	})
}
