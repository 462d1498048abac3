package core

// MaxAlternatives 是每个客户输出的备选商品上限。
const MaxAlternatives = 5

// Recommendation 是每个客户一条的输出记录。
// 无候选时 Top1 为空串、Score 为 0、Alternatives 为空。
type Recommendation struct {
	Customer     string   `json:"customer"`
	LastItems    string   `json:"last_items"`
	Top1         string   `json:"top1"`
	Score        float64  `json:"score"`
	Alternatives []string `json:"alternatives"`
}

// Empty 表示没有可用的推荐。
func (r Recommendation) Empty() bool {
	return r.Top1 == ""
}
