package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCursorCodec(t *testing.T) {
	t.Run("Round trip preserves sort key", func(t *testing.T) {
		createdAt := time.Date(2026, 1, 2, 3, 4, 5, 678900000, time.UTC)
		id := "3f1c9a0e-0000-4000-8000-000000000001"

		cursor := EncodeCursor(createdAt, id)
		gotTime, gotID, err := DecodeCursor(cursor)

		assert.NoError(t, err)
		assert.Equal(t, id, gotID)
		assert.Equal(t, createdAt.UnixNano(), gotTime.UnixNano())
	})

	t.Run("Garbage cursor rejected", func(t *testing.T) {
		_, _, err := DecodeCursor("not a cursor!!")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("Well-formed base64 without sort key rejected", func(t *testing.T) {
		_, _, err := DecodeCursor("aGVsbG8") // "hello"
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}

func TestPagination(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		p := Pagination{}
		offset, limit := p.GetPageOffset()
		assert.Equal(t, 0, offset)
		assert.Equal(t, 10, limit)
	})

	t.Run("Limit is clamped", func(t *testing.T) {
		p := Pagination{Page: 2, Limit: 1000}
		offset, limit := p.GetPageOffset()
		assert.Equal(t, 100, limit)
		assert.Equal(t, 100, offset)
	})

	t.Run("Cursor limit defaults", func(t *testing.T) {
		p := Pagination{Limit: -5}
		assert.Equal(t, 10, p.GetLimit())
	})
}
