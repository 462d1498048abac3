package core

import "github.com/rushteam/nextbuy/pkg/utils"

// RecommendContext 承载客户/购物车/索引信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// CustomerID 是归一化后的客户标识
	CustomerID string

	// Cart 是参考篮子（通常为客户最近一笔订单）
	Cart Basket

	// Index 是本次请求使用的共现索引。
	// 同一批次内通常为同一个全局索引；开启 leave-one-out 时为排除当前篮子的视图。
	Index CooccurrenceIndex

	// Labels 是客户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label
}

// PutLabel 写入客户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取客户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// InCart 判断 item 是否已在购物车中。
func (rctx *RecommendContext) InCart(item string) bool {
	if rctx == nil {
		return false
	}
	return rctx.Cart.Contains(item)
}
