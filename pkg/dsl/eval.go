package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pkg/utils"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的候选商品表达式，使用 CEL (Common Expression Language)。
// 编译一次，可被多个 goroutine 并发求值。
//
// 可用变量：
//   - item.id / item.score / item.meta
//   - label.<key>：候选商品的 Label 值（字符串），例如 label.recall_source
//   - rctx.customer / rctx.cart（参考篮子，字符串列表）/ rctx.cart_size
//
// 示例：
//   - `item.score < 0.1`
//   - `label.recall_source == "popular" && rctx.cart_size > 3`
//   - `item.id.startsWith("FRETE")`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 解析并编译表达式。表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

func (p *Program) String() string { return p.expr }

// Eval 对单个候选商品求值。
// 访问不存在的 label key 会返回错误，可用 `has(label.key)` 先做判断。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: expression must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := utils.LabelValues(item.Labels)
	meta := item.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	cart := []string{}
	customer := ""
	if rctx != nil {
		customer = rctx.CustomerID
		if rctx.Cart != nil {
			cart = []string(rctx.Cart)
		}
	}

	return map[string]any{
		"item": map[string]any{
			"id":    item.ID,
			"score": item.Score,
			"meta":  meta,
		},
		"label": labels,
		"rctx": map[string]any{
			"customer":  customer,
			"cart":      cart,
			"cart_size": len(cart),
		},
	}
}
