// Package export 把推荐结果写到 CSV、XLSX 或 core.Store。
package export

import (
	"strconv"
	"strings"

	"github.com/rushteam/nextbuy/core"
)

// Header 是表格输出的列名。
var Header = []string{"customer", "last_items", "top1", "score", "alternatives"}

// ListSeparator 连接多值字段（备选商品）。
const ListSeparator = "; "

// Row 把一条推荐渲染为表格行。
func Row(r core.Recommendation) []string {
	return []string{
		r.Customer,
		r.LastItems,
		r.Top1,
		FormatScore(r.Score),
		strings.Join(r.Alternatives, ListSeparator),
	}
}

// FormatScore 以最短形式输出分数（0.6667、0.5、0）。
func FormatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
