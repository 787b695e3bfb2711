package imagecache_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"story-relay/internal/cachekey"
	"story-relay/internal/imagecache"
	"story-relay/internal/storage"
)

// memoryStore - BlobStore в памяти для тестов.
type memoryStore struct {
	mu          sync.Mutex
	objects     map[string][]byte
	types       map[string]string
	existsErr   error
	writeErr    error
	existsCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memoryStore) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existsCalls++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.objects[path]
	return ok, nil
}

func (s *memoryStore) Write(_ context.Context, path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.objects[path] = bytes.Clone(data)
	s.types[path] = contentType
	return nil
}

func (s *memoryStore) PublicURL(path string) string {
	return storage.PublicURL("test-bucket", path)
}

func (s *memoryStore) Ping(context.Context) error { return nil }

// objectAt возвращает объект по публичному URL.
func (s *memoryStore) objectAt(url string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p, data := range s.objects {
		if storage.PublicURL("test-bucket", p) == url {
			return data, true
		}
	}
	return nil, false
}

// mapMemo - URLMemo в памяти.
type mapMemo struct {
	values map[cachekey.Key]string
	err    error
}

func (m *mapMemo) Get(_ context.Context, key cachekey.Key) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapMemo) Set(_ context.Context, key cachekey.Key, url string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = url
	return nil
}

const prompt = "a quiet harbor at dawn"

func TestCache_StoreThenLookupRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	cache := imagecache.New(store, "locations", zap.NewNop())
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}

	url, err := cache.Store(ctx, prompt, payload)
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	got, ok := cache.Lookup(ctx, prompt)
	require.True(t, ok)
	assert.Equal(t, url, got)

	data, found := store.objectAt(got)
	require.True(t, found)
	assert.Equal(t, payload, data)

	objectPath := cache.ObjectPath(prompt)
	assert.Equal(t, "locations/"+cachekey.Derive(prompt).String()+".jpg", objectPath)
	assert.Equal(t, imagecache.ContentType, store.types[objectPath])
}

func TestCache_LookupUnknownPromptMisses(t *testing.T) {
	cache := imagecache.New(newMemoryStore(), "locations", zap.NewNop())

	url, ok := cache.Lookup(context.Background(), "never stored")
	assert.False(t, ok)
	assert.Empty(t, url)
}

func TestCache_LookupBackendErrorIsMiss(t *testing.T) {
	store := newMemoryStore()
	store.existsErr = errors.New("503 backend unavailable")
	cache := imagecache.New(store, "locations", zap.NewNop())

	url, ok := cache.Lookup(context.Background(), prompt)
	assert.False(t, ok)
	assert.Empty(t, url)
}

func TestCache_StoreErrorPropagates(t *testing.T) {
	store := newMemoryStore()
	store.writeErr = errors.New("permission denied")
	cache := imagecache.New(store, "locations", zap.NewNop())

	url, err := cache.Store(context.Background(), prompt, []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, imagecache.ErrStoreFailed)
	assert.Empty(t, url)
}

func TestCache_StoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	cache := imagecache.New(store, "locations", zap.NewNop())

	first, err := cache.Store(ctx, prompt, []byte("same"))
	require.NoError(t, err)
	second, err := cache.Store(ctx, prompt, []byte("same"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.objects, 1)
}

func TestCache_MemoShortCircuitsStorage(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	memo := &mapMemo{values: map[cachekey.Key]string{}}
	cache := imagecache.New(store, "locations", zap.NewNop(), imagecache.WithMemo(memo))

	url, err := cache.Store(ctx, prompt, []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, url, memo.values[cachekey.Derive(prompt)])

	got, ok := cache.Lookup(ctx, prompt)
	require.True(t, ok)
	assert.Equal(t, url, got)
	assert.Zero(t, store.existsCalls)
}

func TestCache_MemoFailureFallsBackToStorage(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	memo := &mapMemo{values: map[cachekey.Key]string{}, err: errors.New("redis down")}
	cache := imagecache.New(store, "locations", zap.NewNop(), imagecache.WithMemo(memo))

	url, err := cache.Store(ctx, prompt, []byte("img"))
	require.NoError(t, err)

	got, ok := cache.Lookup(ctx, prompt)
	require.True(t, ok)
	assert.Equal(t, url, got)
	assert.Equal(t, 1, store.existsCalls)
}

func TestCache_WithDeriver(t *testing.T) {
	d, err := cachekey.NewDeriver(cachekey.BLAKE2b128)
	require.NoError(t, err)
	cache := imagecache.New(newMemoryStore(), "locations", zap.NewNop(), imagecache.WithDeriver(d))

	assert.Equal(t, "locations/"+d.Derive(prompt).String()+".jpg", cache.ObjectPath(prompt))
	assert.NotEqual(t, cachekey.Derive(prompt), d.Derive(prompt))
}
