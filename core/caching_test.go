package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// memStore is an in-memory CacheStore for tests.
type memStore struct {
	data map[string]memEntry
}

type memEntry struct {
	value   []byte
	version int
	ts      int64
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]memEntry)}
}

func (s *memStore) Get(key string) ([]byte, int, int64, error) {
	e, ok := s.data[key]
	if !ok {
		return nil, 0, 0, contract.ErrProcessFailure
	}
	return e.value, e.version, e.ts, nil
}

func (s *memStore) Set(key string, value []byte, version int, ts int64) error {
	s.data[key] = memEntry{value: value, version: version, ts: ts}
	return nil
}

func (s *memStore) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Entries: len(s.data)}, nil
}

func (s *memStore) Close() error { return nil }

// memManager wraps memStore as a CacheManager.
type memManager struct {
	store contract.CacheStore
}

func (m *memManager) GetResultStore() contract.CacheStore { return m.store }

func TestCachedCollectCommitsHitSkipsGit(t *testing.T) {
	ctx := context.Background()
	cfg := statsConfig()
	mgr := &memManager{store: newMemStore()}

	client := &contract.MockGitClient{}
	client.On("GetRepoHash", ctx, "/repo").Return("abc123", nil).Twice()
	// The log is only read once. The second run must hit the cache.
	client.On("GetNumstatLog", ctx, "/repo", contract.LogFilter{}).Return([]byte(sampleNumstatLog), nil).Once()

	first, _, err := cachedCollectCommits(ctx, cfg, client, mgr)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, _, err := cachedCollectCommits(ctx, cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	client.AssertExpectations(t)
}

func TestCachedCollectCommitsNilStoreFallsThrough(t *testing.T) {
	ctx := context.Background()
	mgr := &memManager{store: nil}

	client := &contract.MockGitClient{}
	client.On("GetNumstatLog", ctx, "/repo", contract.LogFilter{}).Return([]byte(sampleNumstatLog), nil)

	commits, _, err := cachedCollectCommits(ctx, statsConfig(), client, mgr)
	require.NoError(t, err)
	assert.Len(t, commits, 3)
}

func TestCheckCacheHitRejectsStaleAndVersioned(t *testing.T) {
	store := newMemStore()

	t.Run("version mismatch", func(t *testing.T) {
		require.NoError(t, store.Set("k1", []byte(`{}`), currentCacheVersion+1, time.Now().Unix()))
		var out schema.OwnershipResult
		assert.False(t, checkCacheHit(store, "k1", &out))
	})

	t.Run("stale entry", func(t *testing.T) {
		old := time.Now().Add(-8 * 24 * time.Hour).Unix()
		require.NoError(t, store.Set("k2", []byte(`{}`), currentCacheVersion, old))
		var out schema.OwnershipResult
		assert.False(t, checkCacheHit(store, "k2", &out))
	})

	t.Run("fresh entry", func(t *testing.T) {
		require.NoError(t, store.Set("k3", []byte(`{"totalLines":7}`), currentCacheVersion, time.Now().Unix()))
		var out schema.OwnershipResult
		assert.True(t, checkCacheHit(store, "k3", &out))
		assert.Equal(t, 7, out.TotalLines)
	})
}

func TestGenerateCacheKeyChangesWithHead(t *testing.T) {
	ctx := context.Background()
	cfg := statsConfig()

	clientA := &contract.MockGitClient{}
	clientA.On("GetRepoHash", ctx, "/repo").Return("aaa", nil)
	clientB := &contract.MockGitClient{}
	clientB.On("GetRepoHash", ctx, "/repo").Return("bbb", nil)

	keyA := generateCacheKey(ctx, cfg, clientA, "commits", "p")
	keyB := generateCacheKey(ctx, cfg, clientB, "commits", "p")
	assert.NotEqual(t, keyA, keyB)

	// Same inputs produce the same key.
	clientA2 := &contract.MockGitClient{}
	clientA2.On("GetRepoHash", ctx, "/repo").Return("aaa", nil)
	assert.Equal(t, keyA, generateCacheKey(ctx, cfg, clientA2, "commits", "p"))
}
