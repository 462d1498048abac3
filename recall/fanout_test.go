package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/nextbuy/core"
)

type staticSource struct {
	name  string
	ids   []string
	delay time.Duration
	err   error
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFanoutMergeOrder(t *testing.T) {
	slow := &staticSource{name: "slow", ids: []string{"A", "B"}, delay: 20 * time.Millisecond}
	fast := &staticSource{name: "fast", ids: []string{"B", "C"}}

	n := &Fanout{Sources: []Source{slow, fast}}
	items, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ids(items), "merge follows source order, not completion order")
	assert.Equal(t, "0|1", items[1].Labels["recall_priority"].Value, "labels of duplicates are merged")

	n.MergeStrategy = MergeUnion
	items, err = n.Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "B", "C"}, ids(items))
}

func TestFanoutIgnoresFailingSource(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&staticSource{name: "broken", err: errors.New("down")},
			&staticSource{name: "timeout", ids: []string{"X"}, delay: time.Second},
			&staticSource{name: "ok", ids: []string{"Y"}},
		},
		Timeout:       10 * time.Millisecond,
		MaxConcurrent: 2,
	}
	items, err := n.Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Y"}, ids(items))
}

func TestFanoutCombinesCoPurchaseAndPopular(t *testing.T) {
	idx := BuildIndex(baskets(
		[]string{"A", "B"},
		[]string{"C", "D"},
		[]string{"C", "E"},
	))
	n := &Fanout{Sources: []Source{&CoPurchase{}, &Popular{}}}
	items, err := n.Process(context.Background(), &core.RecommendContext{Cart: core.NewBasket("A"), Index: idx}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D", "E"}, ids(items))
}
