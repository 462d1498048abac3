package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/nextbuy/config"
	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/export"
	"github.com/rushteam/nextbuy/filter"
	"github.com/rushteam/nextbuy/ingest"
	"github.com/rushteam/nextbuy/pipeline"
	"github.com/rushteam/nextbuy/pkg/logging"
	"github.com/rushteam/nextbuy/recall"
	"github.com/rushteam/nextbuy/recommend"
	"github.com/rushteam/nextbuy/store"
)

var recommendFlags = map[string]string{
	"orders":              "orders",
	"sqlite_query":        "sqlite-query",
	"output":              "output",
	"format":              "format",
	"pipeline":            "pipeline",
	"workers":             "workers",
	"alternatives":        "alternatives",
	"leave_one_out":       "leave-one-out",
	"redis.addr":          "redis-addr",
	"redis.password":      "redis-password",
	"redis.db":            "redis-db",
	"redis.prefix":        "redis-prefix",
	"redis.ttl":           "redis-ttl",
	"redis.publish_index": "publish-index",
	"redis.blacklist_key": "blacklist-key",
}

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend the next product for every customer",
		Long: `Build the co-purchase index from all orders, take each customer's last
order as the cart and write one recommendation per customer.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, recommendFlags)
		},
		RunE: runRecommend,
	}

	f := cmd.Flags()
	f.StringP("orders", "i", "pedidos.csv", "orders file (.csv, or .db/.sqlite for SQLite)")
	f.String("sqlite-query", "", "query returning (customer, items_text) rows")
	f.StringP("output", "o", "recomendacoes.csv", "output path, - for stdout")
	f.StringP("format", "f", "csv", "output format (csv, xlsx, none)")
	f.String("pipeline", "", "pipeline definition (yaml or json)")
	f.Int("workers", 4, "concurrent customer workers")
	f.Int("alternatives", core.MaxAlternatives, "alternatives per customer (1-5)")
	f.Bool("leave-one-out", false, "score each customer without their own last basket")
	f.String("redis-addr", "", "redis address; enables publishing")
	f.String("redis-password", "", "redis password")
	f.Int("redis-db", 0, "redis database")
	f.String("redis-prefix", "nextbuy", "key prefix for published data")
	f.Int("redis-ttl", 0, "ttl in seconds for published keys, 0 keeps them")
	f.Bool("publish-index", false, "also publish the co-occurrence index snapshot")
	f.String("blacklist-key", "", "redis key holding a JSON list of products never to recommend")

	return cmd
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	start := time.Now()

	app, err := config.LoadApp(v, "")
	if err != nil {
		return err
	}

	records, err := ingest.LoadOrders(ctx, app.Orders, app.SQLiteQuery)
	if err != nil {
		return err
	}
	idx, histories := recommend.Build(records)
	logging.Info().
		Str("orders_file", app.Orders).
		Int("orders", len(records)).
		Int("baskets", idx.Baskets()).
		Int("customers", len(histories)).
		Msg("index built")

	var kv core.Store
	if app.Redis.Addr != "" {
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     app.Redis.Addr,
			Password: app.Redis.Password,
			DB:       app.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rs.Close()
		kv = rs
	}

	p, err := buildPipeline(ctx, app, kv)
	if err != nil {
		return err
	}
	logging.Debug().Strs("nodes", p.Names()).Msg("pipeline ready")

	engine := &recommend.Engine{
		Index:        idx,
		Pipeline:     p,
		Workers:      app.Workers,
		Alternatives: app.Alternatives,
		LeaveOneOut:  app.LeaveOneOut,
	}
	recs, err := engine.Recommend(ctx, histories)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.OutOrStdout(), app, recs); err != nil {
		return err
	}
	if kv != nil {
		if err := publish(ctx, kv, app, idx, recs); err != nil {
			return err
		}
	}

	empty := 0
	for _, r := range recs {
		if r.Empty() {
			empty++
		}
	}
	logging.Info().
		Int("customers", len(recs)).
		Int("without_recommendation", empty).
		Str("output", app.Output).
		Str("format", app.Format).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations written")
	return nil
}

// buildPipeline 加载配置的 Pipeline（或默认 Pipeline），并在配置了黑名单 key 时
// 于第一个重排节点之前插入黑名单过滤。
func buildPipeline(ctx context.Context, app config.App, kv core.Store) (*pipeline.Pipeline, error) {
	var p *pipeline.Pipeline
	if app.Pipeline != "" {
		loaded, err := config.LoadPipeline(app.Pipeline)
		if err != nil {
			return nil, fmt.Errorf("load pipeline %s: %w", app.Pipeline, err)
		}
		p = loaded
	} else {
		p = recommend.DefaultPipeline(app.Alternatives)
	}

	if kv != nil && app.Redis.BlacklistKey != "" {
		items, err := filter.NewStoreAdapter(kv).GetBlacklist(ctx, app.Redis.BlacklistKey)
		if err != nil {
			return nil, fmt.Errorf("read blacklist %s: %w", app.Redis.BlacklistKey, err)
		}
		logging.Info().Int("items", len(items)).Str("key", app.Redis.BlacklistKey).Msg("blacklist loaded")
		p.InsertBefore(pipeline.KindReRank, &filter.FilterNode{
			Filters: []filter.Filter{filter.NewBlacklistFilter(items, nil, "")},
		})
	}
	return p, nil
}

func writeOutput(stdout io.Writer, app config.App, recs []core.Recommendation) error {
	switch app.Format {
	case "none":
		return nil
	case "xlsx":
		return export.WriteXLSX(app.Output, recs)
	}

	if app.Output == "-" {
		return export.WriteCSV(stdout, recs)
	}
	if err := os.MkdirAll(filepath.Dir(app.Output), 0o755); err != nil {
		return err
	}
	f, err := os.Create(app.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.WriteCSV(f, recs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func publish(ctx context.Context, kv core.Store, app config.App, idx *recall.Index, recs []core.Recommendation) error {
	w := &export.StoreWriter{Store: kv, Prefix: app.Redis.Prefix, TTL: app.Redis.TTL}
	if err := w.Write(ctx, recs); err != nil {
		return err
	}
	logging.Info().Int("customers", len(recs)).Str("prefix", app.Redis.Prefix).Msg("recommendations published")

	if !app.Redis.PublishIndex {
		return nil
	}
	a := recall.NewIndexStoreAdapter(kv, indexPrefix(app.Redis.Prefix))
	a.TTL = app.Redis.TTL
	if err := a.Save(ctx, idx); err != nil {
		return fmt.Errorf("publish index: %w", err)
	}
	logging.Info().Int("items", idx.Items()).Str("prefix", a.KeyPrefix).Msg("index published")
	return nil
}

func indexPrefix(prefix string) string {
	return prefix + ":cooc"
}
