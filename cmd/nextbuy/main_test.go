package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/nextbuy/config"
	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pipeline"
	"github.com/rushteam/nextbuy/recall"
	"github.com/rushteam/nextbuy/store"
)

const ordersCSV = `id,data,status,destinatario,itens
1,2024-01-01,ok,Ana,[{"descricao": "Arroz"}, {"descricao": "Feijão"}]
2,2024-01-02,ok,Bruno,[{"descricao": "Arroz"}, {"descricao": "Feijão"}]
3,2024-01-03,ok,ana,[{"descricao": "Arroz"}, {"descricao": "Óleo"}]
4,2024-01-04,ok,Carla,[{"descricao": "Sal"}]
`

func writeOrders(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pedidos.csv")
	require.NoError(t, os.WriteFile(path, []byte(ordersCSV), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	out, err := execute(t, "recommend", "--orders", writeOrders(t), "--output", "-", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "customer,last_items,top1,score,alternatives", lines[0])
	assert.Equal(t, "ANA,Arroz; Óleo,FEIJÃO,0.6667,FEIJÃO", lines[1])
	assert.Equal(t, "BRUNO,Arroz; Feijão,ÓLEO,0.3333,ÓLEO", lines[2])
	assert.Equal(t, "CARLA,Sal,,0,", lines[3])
}

func TestRecommendCommandXLSX(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "rec.xlsx")
	_, err := execute(t, "recommend", "--orders", writeOrders(t), "--output", target, "--format", "xlsx")
	require.NoError(t, err)
	assert.FileExists(t, target)
}

func TestRecommendCommandInvalidConfig(t *testing.T) {
	t.Cleanup(func() {
		cmd, _, err := rootCmd.Find([]string{"recommend"})
		require.NoError(t, err)
		require.NoError(t, cmd.Flags().Set("format", "csv"))
	})
	_, err := execute(t, "recommend", "--orders", writeOrders(t), "--output", "-", "--format", "parquet")
	assert.True(t, core.IsInvalidInput(err))
}

func TestScoreCommand(t *testing.T) {
	out, err := execute(t, "score", "--orders", writeOrders(t), "arroz")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ITEM", "SCORE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"FEIJÃO", "0.6667"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"ÓLEO", "0.3333"}, strings.Fields(lines[2]))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "nextbuy dev\n", out)
}

func TestBuildPipelineWithStoreBlacklist(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(ctx, "nextbuy:blacklist", []byte(`["feijão"]`)))

	app := config.App{Alternatives: 5}
	app.Redis.BlacklistKey = "nextbuy:blacklist"

	p, err := buildPipeline(ctx, app, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"recall.copurchase", "filter.node", "rerank.topn"}, p.Names())

	p, err = buildPipeline(ctx, config.App{Alternatives: 5}, s)
	require.NoError(t, err)
	assert.Len(t, p.Nodes, 2)
	assert.Equal(t, pipeline.KindReRank, p.Nodes[1].Kind())
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	app := config.App{}
	app.Redis.Prefix = "shop"
	app.Redis.PublishIndex = true

	recs := []core.Recommendation{{Customer: "ANA", Top1: "FEIJÃO", Score: 0.5, Alternatives: []string{"FEIJÃO"}}}
	idx := buildTestIndex()
	require.NoError(t, publish(ctx, s, app, idx, recs))

	_, err := s.Get(ctx, "shop:rec:ANA")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "shop:cooc:meta")
	assert.NoError(t, err)
}

func buildTestIndex() *recall.Index {
	return recall.BuildIndex([]core.Basket{core.NewBasket("arroz", "feijão")})
}
