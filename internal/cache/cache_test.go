package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "notices", []byte(`[]`), time.Minute))
	value, err := m.Get(ctx, "notices")
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), value)

	require.NoError(t, m.Delete(ctx, "notices"))
	_, err = m.Get(ctx, "notices")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "key", []byte("value"), 30*time.Second))

	now = now.Add(29 * time.Second)
	_, err := m.Get(ctx, "key")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = m.Get(ctx, "key")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "key", []byte("value"), 0))
	now = now.Add(240 * time.Hour)
	_, err := m.Get(ctx, "key")
	require.NoError(t, err)
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, m.Set(ctx, "key", original, 0))
	original[0] = 'z'

	value, err := m.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), value)

	value[0] = 'z'
	again, err := m.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}
