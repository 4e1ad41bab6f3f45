package cache

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, CatalogKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, CatalogKey, []byte(`[]`), time.Minute))
	value, ok, err := m.Get(ctx, CatalogKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), value)

	require.NoError(t, m.Delete(ctx, CatalogKey))
	_, ok, _ = m.Get(ctx, CatalogKey)
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Empty(t, m.entries)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Set(ctx, "k", []byte{byte(i)}, time.Minute)
			_, _, _ = m.Get(ctx, "k")
		}(i)
	}
	wg.Wait()

	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)
}

func TestGetOrLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte("snapshot"), nil
	}

	first, err := GetOrLoad(ctx, m, nil, CatalogKey, time.Minute, load)
	require.NoError(t, err)
	second, err := GetOrLoad(ctx, m, nil, CatalogKey, time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, []byte("snapshot"), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoad_LoadError(t *testing.T) {
	m := NewMemory()
	boom := errors.New("db down")

	_, err := GetOrLoad(context.Background(), m, nil, CatalogKey, time.Minute, func(context.Context) ([]byte, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	_, ok, _ := m.Get(context.Background(), CatalogKey)
	assert.False(t, ok)
}

type failingSetCache struct {
	*Memory
}

func (failingSetCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis: connection refused")
}

func TestGetOrLoad_SetFailureIsLoggedAndValueReturned(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	value, err := GetOrLoad(context.Background(), failingSetCache{NewMemory()}, nil, CatalogKey, time.Minute, func(context.Context) ([]byte, error) {
		return []byte("snapshot"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), value)
	assert.Contains(t, buf.String(), "Warning: could not cache "+CatalogKey)
}

func TestGetOrLoad_InvalidationDuringLoadSkipsWriteBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	var gen Generation

	value, err := GetOrLoad(ctx, m, &gen, CatalogKey, time.Minute, func(ctx context.Context) ([]byte, error) {
		// a refresh finishes while the stale snapshot is being read
		require.NoError(t, gen.Invalidate(ctx, m, CatalogKey))
		return []byte("stale"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("stale"), value)

	_, ok, _ := m.Get(ctx, CatalogKey)
	assert.False(t, ok)

	value, err = GetOrLoad(ctx, m, &gen, CatalogKey, time.Minute, func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), value)
	cached, ok, _ := m.Get(ctx, CatalogKey)
	assert.True(t, ok)
	assert.Equal(t, []byte("fresh"), cached)
}
