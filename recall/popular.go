package recall

import (
	"context"
	"sort"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pipeline"
	"github.com/rushteam/nextbuy/pkg/utils"
)

// Popular 是热门召回源：按商品出现的篮子数排序，得分为 ItemCount / Baskets。
// 通常放在 Fanout 中 CoPurchase 之后，作为购物车没有共现信号时的兜底。
// 已在购物车中的商品会被剔除。
type Popular struct {
	// Index 可选；为空时使用 rctx.Index
	Index core.CooccurrenceIndex

	// TopK 返回前 K 个，<= 0 时默认 20
	TopK int

	// IDs 是 fallback 列表：索引为空时按顺序返回这些商品（得分为 0）
	IDs []string
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Popular) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	idx := r.Index
	if idx == nil && rctx != nil {
		idx = rctx.Index
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	var ranked []Scored
	if idx != nil && idx.Baskets() > 0 {
		total := float64(idx.Baskets())
		idx.RangeItems(func(item string, count int) bool {
			if !rctx.InCart(item) {
				ranked = append(ranked, Scored{Item: item, Score: float64(count) / total})
			}
			return true
		})
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Score != ranked[j].Score {
				return ranked[i].Score > ranked[j].Score
			}
			return ranked[i].Item < ranked[j].Item
		})
	}

	// Fallback：使用内存 IDs
	if len(ranked) == 0 {
		for _, id := range core.NewBasket(r.IDs...) {
			if !rctx.InCart(id) {
				ranked = append(ranked, Scored{Item: id})
			}
		}
	}

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	out := make([]*core.Item, 0, len(ranked))
	for _, s := range ranked {
		it := core.NewItem(s.Item)
		it.Score = s.Score
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
