package core

// OrderRecord 是一条已清洗的历史订单：客户标识 + 原始商品名列表。
// Seq 为记录在源数据中的顺序号，按时间先后递增。
type OrderRecord struct {
	Seq      int
	Customer string
	Items    []string
}

// Basket 返回订单对应的归一化篮子。
func (o OrderRecord) Basket() Basket {
	return NewBasket(o.Items...)
}

// NormalizeCustomer 归一化客户标识（收件人字段）：去空白并转大写，
// 与 NormalizeItem 一样使用 Unicode 完整映射（WEIß 与 WEISS 视为同一客户）。
func NormalizeCustomer(s string) string {
	return upper(s)
}

// CustomerHistory 是同一客户的全部历史订单，按源数据中的时间顺序排列。
type CustomerHistory struct {
	Customer string
	Orders   []OrderRecord
}

// Last 返回客户最近一笔订单；无订单时 ok 为 false。
func (h CustomerHistory) Last() (OrderRecord, bool) {
	if len(h.Orders) == 0 {
		return OrderRecord{}, false
	}
	return h.Orders[len(h.Orders)-1], true
}

// GroupByCustomer 按归一化客户标识分组。
// 客户的顺序为首次出现的顺序（不排序），组内订单保持原始顺序。
func GroupByCustomer(records []OrderRecord) []CustomerHistory {
	pos := make(map[string]int)
	out := make([]CustomerHistory, 0)
	for _, r := range records {
		c := NormalizeCustomer(r.Customer)
		idx, ok := pos[c]
		if !ok {
			idx = len(out)
			pos[c] = idx
			out = append(out, CustomerHistory{Customer: c})
		}
		out[idx].Orders = append(out[idx].Orders, r)
	}
	return out
}

// NonEmpty 过滤掉没有任何可用商品的订单。
func NonEmpty(records []OrderRecord) []OrderRecord {
	out := make([]OrderRecord, 0, len(records))
	for _, r := range records {
		if r.Basket().Len() == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}
