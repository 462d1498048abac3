package filter

import (
	"context"

	"github.com/rushteam/nextbuy/core"
)

// InCartFilter 过滤已在购物车（参考篮子）中的商品。
// 共现召回本身已排除购物车商品，这里用于兜底召回源或自定义召回源之后。
type InCartFilter struct{}

func (f *InCartFilter) Name() string { return "filter.in_cart" }

func (f *InCartFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	return rctx.InCart(item.ID), nil
}
