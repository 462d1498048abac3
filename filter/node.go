package filter

import (
	"context"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pipeline"
	"github.com/rushteam/nextbuy/pkg/logging"
)

// FilterNode 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器返回 true，该商品就会被过滤掉；保留商品的相对顺序不变。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		drop := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				logging.Ctx(ctx).Debug().Err(err).Str("filter", f.Name()).Str("item", item.ID).Msg("filter error")
				continue
			}
			if ok {
				drop = true
				break
			}
		}

		if !drop {
			out = append(out, item)
		}
	}

	return out, nil
}
