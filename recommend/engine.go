package recommend

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pipeline"
	"github.com/rushteam/nextbuy/pkg/logging"
	"github.com/rushteam/nextbuy/recall"
	"github.com/rushteam/nextbuy/rerank"
)

// Engine 是客户推荐聚合器。
//
// 全局索引只读共享；每个客户是独立的工作单元，按 Workers 并发打分，
// 输出顺序与输入客户顺序一致。
type Engine struct {
	// Index 是全局共现索引（必填）
	Index core.CooccurrenceIndex

	// Pipeline 为空时使用 DefaultPipeline(Alternatives)
	Pipeline *pipeline.Pipeline

	// Workers 并发数，<= 0 时使用默认值
	Workers int

	// Alternatives 备选数上限，<= 0 或超过 core.MaxAlternatives 时取 core.MaxAlternatives
	Alternatives int

	// LeaveOneOut 为 true 时，打分使用排除客户参考篮子后的索引视图
	LeaveOneOut bool
}

// DefaultPipeline 返回默认 Pipeline：共现召回 → TopN 截断。
func DefaultPipeline(n int) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.CoPurchase{},
			&rerank.TopNNode{N: n},
		},
	}
}

func (e *Engine) alternatives() int {
	if e.Alternatives <= 0 || e.Alternatives > core.MaxAlternatives {
		return core.MaxAlternatives
	}
	return e.Alternatives
}

func (e *Engine) workers() int {
	if e.Workers <= 0 {
		return (&core.DefaultRecallConfig{}).DefaultWorkers()
	}
	return e.Workers
}

// Recommend 为每个客户生成一条推荐，结果与 histories 一一对应。
// 没有可用候选的客户得到空推荐（Top1 为空串、Score 为 0），不视为错误。
func (e *Engine) Recommend(ctx context.Context, histories []core.CustomerHistory) ([]core.Recommendation, error) {
	if e.Index == nil {
		return nil, fmt.Errorf("recommend: nil index")
	}
	p := e.Pipeline
	if p == nil {
		p = DefaultPipeline(e.alternatives())
	}

	out := make([]core.Recommendation, len(histories))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers())

	for i, h := range histories {
		i, h := i, h
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			rec, err := e.recommendOne(egCtx, p, h)
			if err != nil {
				return fmt.Errorf("customer %q: %w", h.Customer, err)
			}
			out[i] = rec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) recommendOne(ctx context.Context, p *pipeline.Pipeline, h core.CustomerHistory) (core.Recommendation, error) {
	rec := core.Recommendation{Customer: h.Customer, Alternatives: []string{}}
	last, ok := h.Last()
	if !ok {
		return rec, nil
	}
	rec.LastItems = RenderItems(last.Items)

	cart := last.Basket()
	idx := e.Index
	if e.LeaveOneOut {
		idx = recall.Excluding(idx, cart)
	}

	rctx := &core.RecommendContext{
		CustomerID: h.Customer,
		Cart:       cart,
		Index:      idx,
	}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return rec, err
	}

	Package(&rec, items, e.alternatives())
	logging.Ctx(ctx).Trace().
		Str("customer", h.Customer).
		Int("cart", len(cart)).
		Int("candidates", len(items)).
		Str("top1", rec.Top1).
		Msg("customer scored")
	return rec, nil
}

// Package 把排好序的候选写入推荐记录：top1、四舍五入到 4 位小数的分数、至多 n 个备选（含 top1）。
func Package(rec *core.Recommendation, ranked []*core.Item, n int) {
	rec.Top1 = ""
	rec.Score = 0
	rec.Alternatives = []string{}

	items := make([]*core.Item, 0, len(ranked))
	for _, it := range ranked {
		if it != nil {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return
	}
	rec.Top1 = items[0].ID
	rec.Score = RoundScore(items[0].Score)
	for i := 0; i < len(items) && i < n; i++ {
		rec.Alternatives = append(rec.Alternatives, items[i].ID)
	}
}

// RoundScore 保留 4 位小数，恰好处于中点时取偶数（0.03125 → 0.0312）。
func RoundScore(s float64) float64 {
	return math.RoundToEven(s*1e4) / 1e4
}

// RenderItems 以 "; " 连接订单中的商品名（去除首尾空白，跳过空项）。
func RenderItems(items []string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "; ")
}

// Build 从订单记录准备推荐所需的数据：丢弃没有商品的订单，
// 用全部篮子构建索引，并按客户分组。
func Build(records []core.OrderRecord, opts ...recall.BuildOption) (*recall.Index, []core.CustomerHistory) {
	records = core.NonEmpty(records)
	baskets := make([]core.Basket, 0, len(records))
	for _, r := range records {
		baskets = append(baskets, r.Basket())
	}
	return recall.BuildIndex(baskets, opts...), core.GroupByCustomer(records)
}
