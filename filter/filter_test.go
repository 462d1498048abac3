package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/store"
)

func scored(pairs ...any) []*core.Item {
	out := make([]*core.Item, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		it := core.NewItem(pairs[i].(string))
		it.Score = pairs[i+1].(float64)
		out = append(out, it)
	}
	return out
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterNode(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{Cart: core.NewBasket("leite")}
	items := scored("LEITE", 0.9, "PÃO", 0.5, "FRETE", 0.4, "BALA", 0.01)

	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{"no filters", nil, []string{"LEITE", "PÃO", "FRETE", "BALA"}},
		{"in cart", []Filter{&InCartFilter{}}, []string{"PÃO", "FRETE", "BALA"}},
		{"blacklist", []Filter{NewBlacklistFilter([]string{" frete "}, nil, "")}, []string{"LEITE", "PÃO", "BALA"}},
		{"min score", []Filter{&MinScoreFilter{Min: 0.1}}, []string{"LEITE", "PÃO", "FRETE"}},
		{
			"combined",
			[]Filter{&InCartFilter{}, &MinScoreFilter{Min: 0.1}, NewBlacklistFilter([]string{"frete"}, nil, "")},
			[]string{"PÃO"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &FilterNode{Filters: tt.filters}
			out, err := n.Process(ctx, rctx, items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, itemIDs(out))
		})
	}
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`item.score < 0.1 || item.id.startsWith("FRETE")`)
	require.NoError(t, err)

	n := &FilterNode{Filters: []Filter{f}}
	out, err := n.Process(context.Background(), &core.RecommendContext{}, scored("PÃO", 0.5, "FRETE GRÁTIS", 0.4, "BALA", 0.01))
	require.NoError(t, err)
	assert.Equal(t, []string{"PÃO"}, itemIDs(out))

	_, err = NewExprFilter(`item.score <`)
	assert.Error(t, err)
}

func TestExprFilterErrorKeepsItem(t *testing.T) {
	f, err := NewExprFilter(`label.missing == "x"`)
	require.NoError(t, err)

	n := &FilterNode{Filters: []Filter{f}}
	out, err := n.Process(context.Background(), &core.RecommendContext{}, scored("PÃO", 0.5))
	require.NoError(t, err)
	assert.Equal(t, []string{"PÃO"}, itemIDs(out), "evaluation errors skip the filter")
}

func TestBlacklistFromStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	adapter := NewStoreAdapter(s)

	got, err := adapter.GetBlacklist(ctx, "nextbuy:blacklist")
	require.NoError(t, err)
	assert.Nil(t, got, "missing key is an empty blacklist")

	require.NoError(t, adapter.SetBlacklist(ctx, "nextbuy:blacklist", []string{"sacola"}))

	f := NewBlacklistFilter(nil, adapter, "nextbuy:blacklist")
	drop, err := f.ShouldFilter(ctx, nil, core.NewItem("SACOLA"))
	require.NoError(t, err)
	assert.True(t, drop)

	drop, err = f.ShouldFilter(ctx, nil, core.NewItem("PÃO"))
	require.NoError(t, err)
	assert.False(t, drop)

	require.NoError(t, s.Set(ctx, "broken", []byte("{")))
	_, err = adapter.GetBlacklist(ctx, "broken")
	assert.Error(t, err)
}
