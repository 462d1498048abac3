package ingest

import (
	"regexp"
	"strings"
)

var (
	// descricao: "X" / descrição='X' / "descricao": "X" ...
	descricaoPattern = regexp.MustCompile(`(?i)descric[aã]o["']?\s*[:=]\s*["']([^"']+)["']`)
	// 兜底：只认双引号
	descricaoFallback = regexp.MustCompile(`(?i)descricao"?\s*[:=]\s*"([^"]+)"`)
)

// ExtractProducts 从订单的 itens 自由文本字段中提取商品描述。
// 结果去除首尾空白、跳过空值，保留原始顺序与重复项（去重由 core.NewBasket 负责）。
func ExtractProducts(text string) []string {
	if text == "" {
		return nil
	}
	matches := descricaoPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		matches = descricaoFallback.FindAllStringSubmatch(text, -1)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if name := strings.TrimSpace(m[1]); name != "" {
			out = append(out, name)
		}
	}
	return out
}
