package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/nextbuy/core"
)

func TestLoadAppDefaults(t *testing.T) {
	app, err := LoadApp(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "pedidos.csv", app.Orders)
	assert.Equal(t, "recomendacoes.csv", app.Output)
	assert.Equal(t, "csv", app.Format)
	assert.Equal(t, 4, app.Workers)
	assert.Equal(t, core.MaxAlternatives, app.Alternatives)
	assert.False(t, app.LeaveOneOut)
	assert.Equal(t, "nextbuy", app.Redis.Prefix)
	assert.Equal(t, "info", app.Log.Level)
}

func TestLoadAppFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextbuy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
orders: data/orders.db
format: xlsx
output: out/rec.xlsx
workers: 8
redis:
  addr: localhost:6379
  ttl: 3600
`), 0o644))
	t.Setenv("NEXTBUY_WORKERS", "2")
	t.Setenv("NEXTBUY_REDIS_PREFIX", "shop")

	app, err := LoadApp(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "data/orders.db", app.Orders)
	assert.Equal(t, "xlsx", app.Format)
	assert.Equal(t, 2, app.Workers, "env overrides file")
	assert.Equal(t, "localhost:6379", app.Redis.Addr)
	assert.Equal(t, 3600, app.Redis.TTL)
	assert.Equal(t, "shop", app.Redis.Prefix)
}

func TestLoadAppMissingFile(t *testing.T) {
	_, err := LoadApp(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAppValidate(t *testing.T) {
	valid := App{Orders: "o.csv", Output: "r.csv", Format: "csv", Workers: 1, Alternatives: 5}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*App)
	}{
		{"no orders", func(a *App) { a.Orders = " " }},
		{"bad format", func(a *App) { a.Format = "parquet" }},
		{"xlsx to stdout", func(a *App) { a.Format, a.Output = "xlsx", "-" }},
		{"zero workers", func(a *App) { a.Workers = 0 }},
		{"too many alternatives", func(a *App) { a.Alternatives = 6 }},
		{"zero alternatives", func(a *App) { a.Alternatives = 0 }},
		{"negative ttl", func(a *App) { a.Redis.TTL = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			err := a.Validate()
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}
