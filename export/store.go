package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/nextbuy/core"
)

// StoreWriter 把推荐结果发布到 core.Store：
//   - {Prefix}:rec:{customer}  JSON 格式的 core.Recommendation
//   - {Prefix}:score           有序集合 customer -> top1 分数（仅 KeyValueStore）
type StoreWriter struct {
	Store  core.Store
	Prefix string

	// TTL 过期时间（秒），0 表示不过期
	TTL int
}

// RecKey 返回某客户推荐结果的 key。
func (w *StoreWriter) RecKey(customer string) string {
	return w.prefix() + ":rec:" + customer
}

// ScoreKey 返回分数有序集合的 key。
func (w *StoreWriter) ScoreKey() string {
	return w.prefix() + ":score"
}

func (w *StoreWriter) prefix() string {
	if w.Prefix == "" {
		return "nextbuy"
	}
	return w.Prefix
}

// Write 批量写入推荐结果。空推荐也会写入，便于下游区分“无推荐”与“未计算”。
func (w *StoreWriter) Write(ctx context.Context, recs []core.Recommendation) error {
	kvs := make(map[string][]byte, len(recs))
	for _, r := range recs {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode recommendation %q: %w", r.Customer, err)
		}
		kvs[w.RecKey(r.Customer)] = data
	}
	if err := w.Store.BatchSet(ctx, kvs, w.TTL); err != nil {
		return core.WrapDomainError(core.ModuleExport, core.ErrorCodeUnavailable, "publish recommendations", err)
	}

	kv, ok := w.Store.(core.KeyValueStore)
	if !ok {
		return nil
	}
	for _, r := range recs {
		if r.Empty() {
			continue
		}
		if err := kv.ZAdd(ctx, w.ScoreKey(), r.Score, r.Customer); err != nil {
			return core.WrapDomainError(core.ModuleExport, core.ErrorCodeUnavailable, "publish scores", err)
		}
	}
	return nil
}

// Read 读取某客户的推荐结果。
func (w *StoreWriter) Read(ctx context.Context, customer string) (core.Recommendation, error) {
	data, err := w.Store.Get(ctx, w.RecKey(customer))
	if err != nil {
		return core.Recommendation{}, err
	}
	var rec core.Recommendation
	if err := json.Unmarshal(data, &rec); err != nil {
		return core.Recommendation{}, fmt.Errorf("decode recommendation %q: %w", customer, err)
	}
	return rec, nil
}
