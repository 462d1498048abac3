// Package recommend 为每个客户生成“下一件最可能购买”的商品。
//
// 流程：
//
//	订单记录 → core.NewBasket（归一化）
//	         → recall.BuildIndex（全部历史篮子，进程内只构建一次）
//	         → core.GroupByCustomer（按首次出现顺序分组）
//	         → Engine.Recommend（每个客户取最近一笔订单作为购物车，运行 Pipeline）
//
// 注意：默认情况下，被查询的篮子本身也参与了索引构建（客户自己的最近订单
// 会为自己的推荐贡献共现计数）。Engine.LeaveOneOut 可以切换为排除该篮子。
package recommend
