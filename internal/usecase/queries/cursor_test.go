//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"storefront-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAfterCursor(t *testing.T) {
	placedAt := time.Date(2025, 3, 1, 9, 30, 15, 123456000, time.UTC)
	id := uuid.MustParse("0b7f2d4e-3a51-4c8e-9d5e-7f1a2b3c4d5e")

	t.Run("round trip keeps microseconds and id", func(t *testing.T) {
		gotTime, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(placedAt, id))
		require.NoError(t, err)
		assert.True(t, placedAt.Equal(gotTime))
		assert.Equal(t, id, gotID)
	})

	cases := []struct {
		name   string
		cursor string
	}{
		{"empty", ""},
		{"not base64", "%%%"},
		{"unknown version", base64.URLEncoding.EncodeToString([]byte("v2:1-" + id.String()))},
		{"missing id", base64.URLEncoding.EncodeToString([]byte("v1:1740821415123456"))},
		{"bad timestamp", base64.URLEncoding.EncodeToString([]byte("v1:soon-" + id.String()))},
		{"bad uuid", base64.URLEncoding.EncodeToString([]byte("v1:1740821415123456-nope"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(tc.cursor)
			assert.Error(t, err)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-5))
	assert.Equal(t, 10, queries.ValidateLimit(10))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(1000))
}
