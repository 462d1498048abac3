package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/nextbuy/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 黑名单以 JSON 字符串数组保存在单个 key 下；key 不存在视为空名单。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

var _ BlacklistStore = (*StoreAdapter)(nil)

// GetBlacklist 从 Store 读取黑名单。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetBlacklist 写入黑名单。
func (a *StoreAdapter) SetBlacklist(ctx context.Context, key string, items []string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}
