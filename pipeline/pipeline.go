package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pkg/logging"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：召回 → 过滤 → 重排。
// Pipeline 本身无状态，可被多个 goroutine 并发 Run。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	log := logging.Ctx(ctx)
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		log.Trace().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", len(cur)).
			Int("out", len(next)).
			Msg("node processed")
		cur = next
	}
	return cur, nil
}

// Names 返回各 Node 名称，用于启动日志。
func (p *Pipeline) Names() []string {
	out := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		out = append(out, n.Name())
	}
	return out
}

// InsertBefore 把 n 插到第一个 kind 类型的 Node 之前；没有该类型时追加到末尾。
func (p *Pipeline) InsertBefore(kind Kind, n Node) {
	for i, node := range p.Nodes {
		if node.Kind() == kind {
			p.Nodes = append(p.Nodes[:i], append([]Node{n}, p.Nodes[i:]...)...)
			return
		}
	}
	p.Nodes = append(p.Nodes, n)
}
