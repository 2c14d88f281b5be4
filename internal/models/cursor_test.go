package models

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	token := EncodeCursor(CursorClaims{ID: 42, UserID: 7, CreatedAt: createdAt})
	require.NotEmpty(t, token)

	claims, ok := DecodeCursor(token)
	require.True(t, ok)
	assert.Equal(t, uint(42), claims.ID)
	assert.Equal(t, uint(7), claims.UserID)
	assert.True(t, claims.CreatedAt.Equal(createdAt))
}

func TestDecodeCursor_GarbageDegradesToStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not base64", token: "!!!not-base64!!!"},
		{name: "base64 but not json", token: base64.StdEncoding.EncodeToString([]byte("hello"))},
		{name: "bad timestamp", token: base64.StdEncoding.EncodeToString([]byte(`{"id":1,"created_at":"yesterday"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			before := time.Now().UTC()
			claims, ok := DecodeCursor(tt.token)
			after := time.Now().UTC()

			assert.False(t, ok)
			assert.Zero(t, claims.ID)
			assert.Zero(t, claims.UserID)
			// default claims point at "now" so listings start at the head
			assert.False(t, claims.CreatedAt.Before(before))
			assert.False(t, claims.CreatedAt.After(after))
		})
	}
}

func TestDecodeCursor_PartialClaims(t *testing.T) {
	t.Parallel()

	// a cursor may carry only some fields; the rest stay at their defaults
	token := base64.StdEncoding.EncodeToString([]byte(`{"id":9}`))
	claims, ok := DecodeCursor(token)
	require.True(t, ok)
	assert.Equal(t, uint(9), claims.ID)
	assert.Zero(t, claims.UserID)
	assert.False(t, claims.CreatedAt.IsZero())
}

func TestPreprocessCursor_LimitBounds(t *testing.T) {
	t.Parallel()

	_, limit := PreprocessCursor("", 0)
	assert.Equal(t, DefaultCursorLimit, limit)

	_, limit = PreprocessCursor("", -5)
	assert.Equal(t, DefaultCursorLimit, limit)

	_, limit = PreprocessCursor("", 25)
	assert.Equal(t, 25, limit)

	_, limit = PreprocessCursor("", 5000)
	assert.Equal(t, MaxCursorLimit, limit)
}

func TestNextCursor(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NextCursor(nil))

	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	threads := []*Thread{
		{ID: 3, CreatedAt: createdAt.Add(time.Hour)},
		{ID: 1, CreatedAt: createdAt},
	}

	claims, ok := DecodeCursor(NextCursor(threads))
	require.True(t, ok)
	assert.Equal(t, uint(1), claims.ID)
	assert.True(t, claims.CreatedAt.Equal(createdAt))
}
