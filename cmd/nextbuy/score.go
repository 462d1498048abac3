package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/nextbuy/config"
	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/ingest"
	"github.com/rushteam/nextbuy/recall"
	"github.com/rushteam/nextbuy/recommend"
	"github.com/rushteam/nextbuy/store"
)

var scoreFlags = map[string]string{
	"orders":         "orders",
	"sqlite_query":   "sqlite-query",
	"redis.addr":     "redis-addr",
	"redis.password": "redis-password",
	"redis.db":       "redis-db",
	"redis.prefix":   "redis-prefix",
}

func scoreCmd() *cobra.Command {
	var (
		top       int
		fromStore bool
	)
	cmd := &cobra.Command{
		Use:   "score ITEM...",
		Short: "Rank next-item candidates for an ad-hoc cart",
		Example: `  nextbuy score --orders pedidos.csv "cafe" "acucar"
  nextbuy score --from-store --redis-addr localhost:6379 cafe`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, scoreFlags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := config.LoadApp(v, "")
			if err != nil {
				return err
			}

			var idx core.CooccurrenceIndex
			if fromStore {
				if app.Redis.Addr == "" {
					return fmt.Errorf("--from-store requires --redis-addr")
				}
				rs, err := store.NewRedisStore(ctx, store.RedisOptions{
					Addr:     app.Redis.Addr,
					Password: app.Redis.Password,
					DB:       app.Redis.DB,
				})
				if err != nil {
					return err
				}
				defer rs.Close()
				loaded, err := recall.NewIndexStoreAdapter(rs, indexPrefix(app.Redis.Prefix)).Load(ctx)
				if err != nil {
					return fmt.Errorf("load index: %w", err)
				}
				idx = loaded
			} else {
				records, err := ingest.LoadOrders(ctx, app.Orders, app.SQLiteQuery)
				if err != nil {
					return err
				}
				idx, _ = recommend.Build(records)
			}

			scored := recall.ScoreNext(idx, args...)
			if top > 0 && len(scored) > top {
				scored = scored[:top]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ITEM\tSCORE")
			for _, s := range scored {
				fmt.Fprintf(tw, "%s\t%v\n", s.Item, recommend.RoundScore(s.Score))
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringP("orders", "i", "pedidos.csv", "orders file (.csv, or .db/.sqlite for SQLite)")
	f.String("sqlite-query", "", "query returning (customer, items_text) rows")
	f.String("redis-addr", "", "redis address")
	f.String("redis-password", "", "redis password")
	f.Int("redis-db", 0, "redis database")
	f.String("redis-prefix", "nextbuy", "key prefix used when the index was published")
	f.IntVarP(&top, "top", "n", 10, "number of candidates to print, 0 for all")
	f.BoolVar(&fromStore, "from-store", false, "read the published index from redis instead of the orders file")
	return cmd
}
