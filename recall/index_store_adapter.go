package recall

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/rushteam/nextbuy/core"
)

// IndexStoreAdapter 把共现索引快照读写到 core.Store（Redis/内存）。
//
// Key 布局：
//   - {KeyPrefix}:meta            JSON {"baskets": n, "items": [...]}
//   - {KeyPrefix}:items           Hash item -> count（KeyValueStore）或 JSON map（普通 Store）
//   - {KeyPrefix}:pairs:{item}    JSON map partner -> count
type IndexStoreAdapter struct {
	store core.Store

	KeyPrefix string

	// TTL 过期时间（秒），0 表示不过期
	TTL int
}

// NewIndexStoreAdapter 创建索引存储适配器，keyPrefix 为空时默认 "cooc"。
func NewIndexStoreAdapter(s core.Store, keyPrefix string) *IndexStoreAdapter {
	if keyPrefix == "" {
		keyPrefix = "cooc"
	}
	return &IndexStoreAdapter{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

type indexMeta struct {
	Baskets int      `json:"baskets"`
	Items   []string `json:"items"`
}

func (a *IndexStoreAdapter) metaKey() string  { return a.KeyPrefix + ":meta" }
func (a *IndexStoreAdapter) itemsKey() string { return a.KeyPrefix + ":items" }
func (a *IndexStoreAdapter) pairsKey(item string) string {
	return a.KeyPrefix + ":pairs:" + item
}

// Save 写入索引快照。
func (a *IndexStoreAdapter) Save(ctx context.Context, idx *Index) error {
	snap := idx.Snapshot()

	itemList := make([]string, 0, len(snap.Items))
	for it := range snap.Items {
		itemList = append(itemList, it)
	}
	sort.Strings(itemList)

	partners := make(map[string]map[string]int)
	for _, p := range snap.Pairs {
		if partners[p.A] == nil {
			partners[p.A] = make(map[string]int)
		}
		partners[p.A][p.B] = p.Count
	}

	kvs := make(map[string][]byte, len(partners)+2)
	for item, m := range partners {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		kvs[a.pairsKey(item)] = data
	}

	metaData, err := json.Marshal(indexMeta{Baskets: snap.Baskets, Items: itemList})
	if err != nil {
		return err
	}
	kvs[a.metaKey()] = metaData

	if kv, ok := a.store.(core.KeyValueStore); ok {
		// 先清理旧快照，避免残留已下架商品
		if err := kv.Delete(ctx, a.itemsKey()); err != nil {
			return err
		}
		for it, n := range snap.Items {
			if err := kv.HSet(ctx, a.itemsKey(), it, []byte(strconv.Itoa(n))); err != nil {
				return fmt.Errorf("save item count %s: %w", it, err)
			}
		}
	} else {
		itemsData, err := json.Marshal(snap.Items)
		if err != nil {
			return err
		}
		kvs[a.itemsKey()] = itemsData
	}

	return a.store.BatchSet(ctx, kvs, a.TTL)
}

// Load 读取索引快照。快照不存在时返回 core.ErrStoreNotFound。
func (a *IndexStoreAdapter) Load(ctx context.Context) (*Index, error) {
	metaData, err := a.store.Get(ctx, a.metaKey())
	if err != nil {
		return nil, err
	}
	var meta indexMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("decode index meta: %w", err)
	}

	snap := Snapshot{Baskets: meta.Baskets, Items: make(map[string]int, len(meta.Items))}

	if kv, ok := a.store.(core.KeyValueStore); ok {
		fields, err := kv.HGetAll(ctx, a.itemsKey())
		if err != nil {
			return nil, err
		}
		for it, raw := range fields {
			n, err := strconv.Atoi(string(raw))
			if err != nil {
				return nil, fmt.Errorf("decode item count %s: %w", it, err)
			}
			snap.Items[it] = n
		}
	} else {
		data, err := a.store.Get(ctx, a.itemsKey())
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &snap.Items); err != nil {
			return nil, fmt.Errorf("decode item counts: %w", err)
		}
	}

	keys := make([]string, 0, len(meta.Items))
	for _, it := range meta.Items {
		keys = append(keys, a.pairsKey(it))
	}
	blobs, err := a.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	for _, it := range meta.Items {
		data, ok := blobs[a.pairsKey(it)]
		if !ok {
			continue
		}
		var m map[string]int
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode pairs %s: %w", it, err)
		}
		for b, n := range m {
			snap.Pairs = append(snap.Pairs, PairEntry{A: it, B: b, Count: n})
		}
	}

	return FromSnapshot(snap), nil
}
