// Package nextbuy 根据历史订单中的共购关系，为每个客户预测下一次最可能购买的商品。
//
// 数据流：
//   - ingest: 读取订单（CSV 或 SQLite），从自由文本中抽取商品名
//   - recall: 构建共现索引（ItemCount / PairCount），按条件概率之和打分
//   - filter / rerank: Pipeline 中的过滤与截断
//   - recommend: 以客户最后一单为购物车，并发生成推荐
//   - export: 写出 CSV / XLSX，或发布到 Redis
package nextbuy

import "github.com/rushteam/nextbuy/pipeline"

// 轻量 facade：便于直接 import "nextbuy" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
