package core

// CooccurrenceIndex 是共现索引的只读领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由 recall 包实现（recall.Index / recall.Excluding）
//   - 构建后不可变，可被多个 goroutine 并发读取
//   - 测试中可直接实现此接口构造合成索引
//
// 计数语义：
//   - ItemCount(a)：包含 a 的篮子数（按篮子计，不按出现次数）
//   - PairCount(a, b)：同时包含 a、b 的篮子数，a != b；按有向 pair 存储，值对称
type CooccurrenceIndex interface {
	// Baskets 返回参与构建的非空篮子数
	Baskets() int

	// ItemCount 返回包含 item 的篮子数；未出现过返回 0
	ItemCount(item string) int

	// PairCount 返回有向 pair (a, b) 的共现次数
	PairCount(a, b string) int

	// RangePartners 遍历以 a 为首的所有有向 pair，fn 返回 false 时停止
	RangePartners(a string, fn func(b string, count int) bool)

	// RangeItems 遍历全部商品及其计数，fn 返回 false 时停止
	RangeItems(fn func(item string, count int) bool)
}
