package rerank

import (
	"context"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pipeline"
)

// TopNNode 是 Top-N 截断节点，在召回/过滤之后截取前 N 个商品。
// 推荐输出只需要 top1 + 最多 5 个备选，截断可以减少后续处理量。
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.CoPurchase{},
//	        &rerank.TopNNode{N: 5},
//	    },
//	}
type TopNNode struct {
	// N 要保留的商品数量；N <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
