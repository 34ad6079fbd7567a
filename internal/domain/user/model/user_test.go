package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDSet(t *testing.T) {
	t.Run("Add is idempotent", func(t *testing.T) {
		s := IDSet{}
		s = s.Add("a")
		s = s.Add("a")
		assert.Len(t, s, 1)
		assert.True(t, s.Has("a"))
	})

	t.Run("Remove missing member is no-op", func(t *testing.T) {
		s := IDSet{"a", "b"}
		s = s.Remove("c")
		assert.Len(t, s, 2)
	})

	t.Run("Remove keeps other members", func(t *testing.T) {
		s := IDSet{"a", "b", "c"}
		s = s.Remove("b")
		assert.Equal(t, IDSet{"a", "c"}, s)
		assert.False(t, s.Has("b"))
	})

	t.Run("Nil set serializes as empty array", func(t *testing.T) {
		var s IDSet
		v, err := s.Value()
		assert.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("Scan restores members", func(t *testing.T) {
		var s IDSet
		err := s.Scan([]byte(`["a","b"]`))
		assert.NoError(t, err)
		assert.True(t, s.Has("a"))
		assert.True(t, s.Has("b"))
	})

	t.Run("Scan nil yields empty set", func(t *testing.T) {
		var s IDSet
		err := s.Scan(nil)
		assert.NoError(t, err)
		assert.Empty(t, s)
	})
}

func TestSubscriptionActive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("No subscription date", func(t *testing.T) {
		assert.False(t, SubscriptionActive(nil, now))
	})

	t.Run("Approved 29 days ago is active", func(t *testing.T) {
		d := now.Add(-29 * 24 * time.Hour)
		assert.True(t, SubscriptionActive(&d, now))
	})

	t.Run("Approved exactly 30 days ago is still active", func(t *testing.T) {
		d := now.Add(-SubscriptionWindow)
		assert.True(t, SubscriptionActive(&d, now))
	})

	t.Run("Approved 31 days ago has lapsed", func(t *testing.T) {
		d := now.Add(-31 * 24 * time.Hour)
		assert.False(t, SubscriptionActive(&d, now))
	})
}
