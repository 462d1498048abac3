package filter

import (
	"context"

	"github.com/rushteam/nextbuy/core"
)

// MinScoreFilter 过滤分数低于 Min 的商品。
type MinScoreFilter struct {
	Min float64
}

func (f *MinScoreFilter) Name() string { return "filter.min_score" }

func (f *MinScoreFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	return item.Score < f.Min, nil
}
