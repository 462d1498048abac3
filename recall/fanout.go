package recall

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pipeline"
	"github.com/rushteam/nextbuy/pkg/logging"
	"github.com/rushteam/nextbuy/pkg/utils"
)

// 合并策略
const (
	MergeFirst = "first" // 按 ID 去重，保留优先级最高（Sources 中靠前）的那个
	MergeUnion = "union" // 不去重，按 Sources 顺序拼接
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并按 Sources 顺序合并结果。
// 合并顺序只取决于 Sources 的顺序，与各召回源的完成先后无关。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string        // first（默认）/ union
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Item, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		i, src := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				// 单个召回源失败不影响其他召回源
				logging.Ctx(ctx).Warn().Err(err).Str("source", src.Name()).Msg("recall source failed")
				return nil
			}

			for _, it := range items {
				it.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(i), Source: "recall"})
			}
			results[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if n.MergeStrategy == MergeUnion {
		return mergeUnion(results), nil
	}
	return mergeFirst(results), nil
}

// mergeFirst 按 ID 去重，保留第一个出现的，后出现者的 labels 合并进来。
func mergeFirst(results [][]*core.Item) []*core.Item {
	seen := make(map[string]*core.Item)
	out := make([]*core.Item, 0)
	for _, items := range results {
		for _, it := range items {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			out = append(out, it)
		}
	}
	return out
}

// mergeUnion 合并所有结果，不去重。
func mergeUnion(results [][]*core.Item) []*core.Item {
	out := make([]*core.Item, 0)
	for _, items := range results {
		for _, it := range items {
			if it != nil {
				out = append(out, it)
			}
		}
	}
	return out
}
