package filter

import (
	"context"

	"github.com/rushteam/nextbuy/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉永不推荐的商品（如运费、赠品）。
// 名单中的商品名会按 core.NormalizeItem 归一化后比较。
type BlacklistFilter struct {
	items map[string]struct{}

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单商品列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器，store 可以为 nil。
func NewBlacklistFilter(items []string, store BlacklistStore, key string) *BlacklistFilter {
	return &BlacklistFilter{
		items: core.NewBasket(items...).Set(),
		Store: store,
		Key:   key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	if _, ok := f.items[item.ID]; ok {
		return true, nil
	}

	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err != nil {
			return false, err
		}
		for _, id := range blacklist {
			if core.NormalizeItem(id) == item.ID {
				return true, nil
			}
		}
	}

	return false, nil
}
