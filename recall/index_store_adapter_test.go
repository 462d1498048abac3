package recall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/store"
)

// plainStore 只暴露 core.Store，用来覆盖非 KeyValueStore 分支。
type plainStore struct {
	core.Store
}

func TestIndexStoreAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	idx := BuildIndex(baskets(
		[]string{"A", "B"},
		[]string{"A", "B", "C"},
		[]string{"D"},
	))

	backends := map[string]core.Store{
		"kv":    store.NewMemoryStore(),
		"plain": plainStore{store.NewMemoryStore()},
	}
	for name, s := range backends {
		t.Run(name, func(t *testing.T) {
			a := NewIndexStoreAdapter(s, "")
			assert.Equal(t, "cooc", a.KeyPrefix)

			_, err := a.Load(ctx)
			assert.True(t, core.IsStoreNotFound(err))

			require.NoError(t, a.Save(ctx, idx))
			loaded, err := a.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, idx.Snapshot(), loaded.Snapshot())
			assert.Equal(t, ScoreNext(idx, "A"), ScoreNext(loaded, "A"))
		})
	}
}

func TestIndexStoreAdapterOverwrite(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	a := NewIndexStoreAdapter(s, "test:cooc")

	require.NoError(t, a.Save(ctx, BuildIndex(baskets([]string{"OLD", "X"}))))
	require.NoError(t, a.Save(ctx, BuildIndex(baskets([]string{"A", "B"}))))

	loaded, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.ItemCount("OLD"))
	assert.Equal(t, 1, loaded.PairCount("A", "B"))
	assert.Equal(t, 2, loaded.Items())
}
