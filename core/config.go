package core

// RecallConfig 是召回相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultTopKItems 返回默认的 TopK 物品数（0 表示不截断）
	DefaultTopKItems() int

	// DefaultAlternatives 返回每个客户默认输出的备选数
	DefaultAlternatives() int

	// DefaultWorkers 返回默认的并发打分 worker 数
	DefaultWorkers() int
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultTopKItems() int {
	return 0
}

func (c *DefaultRecallConfig) DefaultAlternatives() int {
	return MaxAlternatives
}

func (c *DefaultRecallConfig) DefaultWorkers() int {
	return 4
}
