package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Put(ctx, "k", []byte("v"), 0))
	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), value)

	value[0] = 'x'
	again, _, _ := store.Get(ctx, "k")
	require.Equal(t, []byte("v"), again)

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 2, 13, 23, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "k", []byte("v"), time.Hour))
	_, ok, _ := store.Get(ctx, "k")
	require.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok, _ = store.Get(ctx, "k")
	require.False(t, ok)
}

func TestMemoryStore_BacksBudgetLedger(t *testing.T) {
	ctx := context.Background()
	ledger := insight.NewBudgetLedger(NewMemoryStore(), "v1", 48*time.Hour)
	for i := 0; i < 2; i++ {
		result, err := ledger.Consume(ctx, "2026-02-13", 2)
		require.NoError(t, err)
		require.True(t, result.OK)
	}
	result, err := ledger.Consume(ctx, "2026-02-13", 2)
	require.NoError(t, err)
	require.Equal(t, insight.BudgetResult{OK: false, Used: 2}, result)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint("https://acct.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestMemoryStore_ExpiredReadKeepsFreshPut(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 2, 13, 23, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	require.NoError(t, store.Put(ctx, "k", []byte("old"), time.Minute))

	// The first clock read inside Get happens after the read lock is released;
	// a writer slips in there with a fresh value.
	rewritten := false
	store.now = func() time.Time {
		later := base.Add(10 * time.Minute)
		if !rewritten {
			rewritten = true
			store.mu.Lock()
			store.entries["k"] = memoryEntry{value: []byte("new"), expiresAt: later.Add(time.Hour)}
			store.mu.Unlock()
		}
		return later
	}

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("new"), value)
}
