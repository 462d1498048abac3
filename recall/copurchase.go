package recall

import (
	"context"
	"sort"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pipeline"
	"github.com/rushteam/nextbuy/pkg/utils"
)

// Scored 是一个候选商品及其得分。
type Scored struct {
	Item  string
	Score float64
}

// ScoreNext 基于共现索引，为参考篮子（购物车）计算“下一件最可能购买”的候选排序。
//
// 算法：
//  1. 重新归一化购物车（调用方可以直接传原始商品名）
//  2. 对购物车中每个 ItemCount(a) > 0 的商品 a，遍历以 a 为首的 pair (a, b)：
//     score[b] += PairCount(a, b) / ItemCount(a)
//     即 P(b | a) 的估计，在购物车内所有商品上求和（不取平均），
//     与多个购物车商品都有搭配的候选会得到更高的合计分
//  3. 剔除已在购物车中的商品
//  4. 按分数降序排序，同分按商品名升序，保证结果可复现
//
// 从未出现过的商品直接跳过（不会除零）。购物车为空或没有任何历史信号时返回空切片。
func ScoreNext(idx core.CooccurrenceIndex, cart ...string) []Scored {
	basket := core.NewBasket(cart...)
	if idx == nil || len(basket) == 0 {
		return []Scored{}
	}

	candidates := make(map[string]float64)
	for _, a := range basket {
		qtyA := idx.ItemCount(a)
		if qtyA == 0 {
			continue
		}
		idx.RangePartners(a, func(b string, count int) bool {
			candidates[b] += float64(count) / float64(qtyA)
			return true
		})
	}

	for _, a := range basket {
		delete(candidates, a)
	}

	out := make([]Scored, 0, len(candidates))
	for it, score := range candidates {
		out = append(out, Scored{Item: it, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Item < out[j].Item
	})
	return out
}

// CoPurchase 是基于共现条件概率的召回源（"买了这些的人，下一次还买了什么"）。
//
// 在工程上相当于面向购物车的 i2i 召回：
//   - 输入：rctx.Cart（参考篮子）+ rctx.Index（共现索引）
//   - 输出：按 ScoreNext 排好序的候选，已排除购物车内商品
//
// CoPurchase 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CoPurchase struct {
	// Index 可选；为空时使用 rctx.Index
	Index core.CooccurrenceIndex

	// TopK 返回前 K 个候选，<= 0 表示不截断
	TopK int
}

func (r *CoPurchase) Name() string        { return "recall.copurchase" }
func (r *CoPurchase) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *CoPurchase) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *CoPurchase) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	idx := r.Index
	if idx == nil {
		idx = rctx.Index
	}
	if idx == nil {
		return nil, nil
	}

	ranked := ScoreNext(idx, rctx.Cart...)
	if r.TopK > 0 && len(ranked) > r.TopK {
		ranked = ranked[:r.TopK]
	}

	out := make([]*core.Item, 0, len(ranked))
	for _, s := range ranked {
		it := core.NewItem(s.Item)
		it.Score = s.Score
		it.PutLabel("recall_source", utils.Label{Value: "copurchase", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
