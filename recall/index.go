package recall

import (
	"sort"

	"github.com/rushteam/nextbuy/core"
)

// Index 是商品共现索引（co-occurrence index）。
//
// 两类聚合：
//   - items[a]：包含 a 的篮子数
//   - pairs[a][b]：同时包含 a、b 的篮子数（a != b）
//
// pair 按有向方式存储：a、b 共现时 (a,b) 与 (b,a) 各记一次，
// 打分时以购物车中的商品为首 key 直接取出其全部搭配。
//
// Index 由 BuildIndex 一次性构建，之后只读，可被多个 goroutine 并发访问。
type Index struct {
	baskets int
	items   map[string]int
	pairs   map[string]map[string]int
}

var _ core.CooccurrenceIndex = (*Index)(nil)

// BuildOption 定制索引构建。
type BuildOption func(*buildOptions)

type buildOptions struct {
	skip func(i int, b core.Basket) bool
}

// WithSkip 在构建时跳过 skip 返回 true 的篮子，i 为篮子在输入中的下标。
// 可用于 leave-one-out（排除某个客户的参考篮子）或按条件裁剪历史。
func WithSkip(skip func(i int, b core.Basket) bool) BuildOption {
	return func(o *buildOptions) {
		o.skip = skip
	}
}

// BuildIndex 扫描全部历史篮子，构建共现索引。
//
// 每个篮子先重新归一化去重，然后：
//  1. 篮子中每个商品的计数 +1（同一篮子内重复出现只计一次）
//  2. 篮子中每个有序 pair (a, b)，a != b，计数 +1
//
// 空篮子不贡献任何计数。复杂度为每个篮子 O(k²)，k 为篮子内商品数。
func BuildIndex(baskets []core.Basket, opts ...BuildOption) *Index {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	idx := &Index{
		items: make(map[string]int),
		pairs: make(map[string]map[string]int),
	}
	for i, raw := range baskets {
		b := core.NewBasket(raw...)
		if len(b) == 0 {
			continue
		}
		if o.skip != nil && o.skip(i, b) {
			continue
		}
		idx.add(b)
	}
	return idx
}

func (x *Index) add(b core.Basket) {
	x.baskets++
	for _, a := range b {
		x.items[a]++
	}
	if len(b) < 2 {
		return
	}
	for i, a := range b {
		partners := x.pairs[a]
		if partners == nil {
			partners = make(map[string]int, len(b)-1)
			x.pairs[a] = partners
		}
		for j, c := range b {
			if i == j {
				continue
			}
			partners[c]++
		}
	}
}

func (x *Index) Baskets() int { return x.baskets }

func (x *Index) ItemCount(item string) int { return x.items[item] }

func (x *Index) PairCount(a, b string) int { return x.pairs[a][b] }

// Items 返回不同商品数。
func (x *Index) Items() int { return len(x.items) }

// Pairs 返回有向 pair 数。
func (x *Index) Pairs() int {
	n := 0
	for _, partners := range x.pairs {
		n += len(partners)
	}
	return n
}

func (x *Index) RangePartners(a string, fn func(b string, count int) bool) {
	for b, n := range x.pairs[a] {
		if !fn(b, n) {
			return
		}
	}
}

func (x *Index) RangeItems(fn func(item string, count int) bool) {
	for it, n := range x.items {
		if !fn(it, n) {
			return
		}
	}
}

// PairEntry 是有向 pair 及其计数。
type PairEntry struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// Snapshot 是索引的可序列化、确定性表示。
type Snapshot struct {
	Baskets int            `json:"baskets"`
	Items   map[string]int `json:"items"`
	Pairs   []PairEntry    `json:"pairs"`
}

// Snapshot 导出索引内容，Pairs 按 (A, B) 字典序排列。
func (x *Index) Snapshot() Snapshot {
	items := make(map[string]int, len(x.items))
	for k, v := range x.items {
		items[k] = v
	}
	pairs := make([]PairEntry, 0, x.Pairs())
	for a, partners := range x.pairs {
		for b, n := range partners {
			pairs = append(pairs, PairEntry{A: a, B: b, Count: n})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return Snapshot{Baskets: x.baskets, Items: items, Pairs: pairs}
}

// FromSnapshot 从快照恢复索引。
func FromSnapshot(s Snapshot) *Index {
	idx := &Index{
		baskets: s.Baskets,
		items:   make(map[string]int, len(s.Items)),
		pairs:   make(map[string]map[string]int),
	}
	for k, v := range s.Items {
		idx.items[k] = v
	}
	for _, p := range s.Pairs {
		partners := idx.pairs[p.A]
		if partners == nil {
			partners = make(map[string]int)
			idx.pairs[p.A] = partners
		}
		partners[p.B] = p.Count
	}
	return idx
}

// excluding 是排除单个篮子贡献后的只读视图，不复制底层索引。
type excluding struct {
	base   core.CooccurrenceIndex
	basket map[string]struct{}
}

// Excluding 返回从 base 中扣除 basket 一次贡献的索引视图（leave-one-out）。
// basket 必须确实参与过 base 的构建，否则计数会被少算。空篮子直接返回 base。
func Excluding(base core.CooccurrenceIndex, basket core.Basket) core.CooccurrenceIndex {
	b := core.NewBasket(basket...)
	if len(b) == 0 {
		return base
	}
	return &excluding{base: base, basket: b.Set()}
}

func (e *excluding) in(item string) bool {
	_, ok := e.basket[item]
	return ok
}

func (e *excluding) Baskets() int {
	n := e.base.Baskets() - 1
	if n < 0 {
		return 0
	}
	return n
}

func (e *excluding) ItemCount(item string) int {
	n := e.base.ItemCount(item)
	if n > 0 && e.in(item) {
		n--
	}
	return n
}

func (e *excluding) PairCount(a, b string) int {
	n := e.base.PairCount(a, b)
	if n > 0 && a != b && e.in(a) && e.in(b) {
		n--
	}
	return n
}

func (e *excluding) RangePartners(a string, fn func(b string, count int) bool) {
	inA := e.in(a)
	e.base.RangePartners(a, func(b string, n int) bool {
		if inA && e.in(b) {
			n--
		}
		if n <= 0 {
			return true
		}
		return fn(b, n)
	})
}

func (e *excluding) RangeItems(fn func(item string, count int) bool) {
	e.base.RangeItems(func(item string, n int) bool {
		if e.in(item) {
			n--
		}
		if n <= 0 {
			return true
		}
		return fn(item, n)
	})
}
