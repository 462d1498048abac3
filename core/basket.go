package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeItem 把原始商品名转换为规范形式：去除首尾空白后转大写。
// 大写使用 Unicode 完整映射（例如 ß → SS），与源数据中的自由文本保持一致。
func NormalizeItem(s string) string {
	return upper(s)
}

func upper(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// cases.Caser 有状态，不能跨 goroutine 共享，这里每次新建
	return strings.TrimSpace(cases.Upper(language.Und).String(s))
}

// Basket 是一次订单中购买的去重商品集合。
//
// 不变量：
//   - 不含重复商品
//   - 不含空字符串
//   - 保留首次出现的顺序（渲染 "最近购买" 等位置相关输出时使用）
type Basket []string

// NewBasket 归一化并去重原始商品名列表。空白或空字符串被忽略，不会报错。
func NewBasket(raw ...string) Basket {
	if len(raw) == 0 {
		return Basket{}
	}
	seen := make(map[string]struct{}, len(raw))
	out := make(Basket, 0, len(raw))
	for _, r := range raw {
		it := NormalizeItem(r)
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

func (b Basket) Len() int { return len(b) }

// Contains 判断 item 是否在篮子中。item 需为归一化形式。
func (b Basket) Contains(item string) bool {
	for _, it := range b {
		if it == item {
			return true
		}
	}
	return false
}

// Set 返回篮子的集合形式，便于批量成员判断。
func (b Basket) Set() map[string]struct{} {
	set := make(map[string]struct{}, len(b))
	for _, it := range b {
		set[it] = struct{}{}
	}
	return set
}

// String 以 "; " 连接商品，用于展示。
func (b Basket) String() string {
	return strings.Join(b, "; ")
}
