// Package store 提供 core.Store / core.KeyValueStore 的实现。
//
//	var s core.Store = store.NewMemoryStore()
//	rs, err := store.NewRedisStore(ctx, store.RedisOptions{Addr: "127.0.0.1:6379"})
package store
