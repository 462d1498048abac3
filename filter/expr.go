package filter

import (
	"context"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤：表达式为 true 的商品被过滤掉。
//
//	filter.NewExprFilter(`item.score < 0.05 || item.id.startsWith("FRETE")`)
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式，语法错误时返回 error。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	return f.prg.Eval(item, rctx)
}
