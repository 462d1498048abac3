package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/nextbuy/config"
	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/filter"
	"github.com/rushteam/nextbuy/pipeline"
	"github.com/rushteam/nextbuy/pkg/conv"
	"github.com/rushteam/nextbuy/recall"
	"github.com/rushteam/nextbuy/rerank"
)

func init() {
	config.Register("recall.copurchase", BuildCoPurchaseNode)
	config.Register("recall.popular", BuildPopularNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildCoPurchaseNode(cfg map[string]any) (pipeline.Node, error) {
	rc := &core.DefaultRecallConfig{}
	return &recall.CoPurchase{TopK: int(conv.ConfigGetInt64(cfg, "top_k", int64(rc.DefaultTopKItems())))}, nil
}

func BuildPopularNode(cfg map[string]any) (pipeline.Node, error) {
	return &recall.Popular{
		TopK: int(conv.ConfigGetInt64(cfg, "top_k", 0)),
		IDs:  conv.SliceAnyToString(cfg["ids"]),
	}, nil
}

func BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok || len(sourcesConfig) == 0 {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid source config: %v", sc)
		}
		switch sourceType := conv.ConfigGet(sourceMap, "type", ""); sourceType {
		case "copurchase":
			sources = append(sources, &recall.CoPurchase{TopK: int(conv.ConfigGetInt64(sourceMap, "top_k", 0))})
		case "popular":
			sources = append(sources, &recall.Popular{
				TopK: int(conv.ConfigGetInt64(sourceMap, "top_k", 0)),
				IDs:  conv.SliceAnyToString(sourceMap["ids"]),
			})
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
	}
	if ms := conv.ConfigGetInt64(cfg, "timeout_ms", 0); ms > 0 {
		fanout.Timeout = time.Duration(ms) * time.Millisecond
	}
	switch strategy := conv.ConfigGet(cfg, "merge_strategy", recall.MergeFirst); strategy {
	case recall.MergeFirst, recall.MergeUnion:
		fanout.MergeStrategy = strategy
	default:
		return nil, fmt.Errorf("unknown merge strategy: %s", strategy)
	}
	return fanout, nil
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid filter config: %v", fc)
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "in_cart":
			filters = append(filters, &filter.InCartFilter{})

		case "blacklist":
			// Store 版黑名单需要运行时依赖，由调用方以代码方式追加
			items := conv.SliceAnyToString(filterMap["items"])
			filters = append(filters, filter.NewBlacklistFilter(items, nil, ""))

		case "min_score":
			filters = append(filters, &filter.MinScoreFilter{Min: conv.ConfigGetFloat64(filterMap, "min", 0)})

		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("expr filter: missing expr")
			}
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("expr filter: %w", err)
			}
			filters = append(filters, f)

		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: int(n)}, nil
}
