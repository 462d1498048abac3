package ingest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/nextbuy/core"
)

func createOrdersDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pedidos.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE pedidos (destinatario TEXT, itens TEXT)`)
	require.NoError(t, err)
	rows := []struct {
		customer any
		items    any
	}{
		{"Ana", `[{"descricao": "Pão"}, {"descricao": "Leite"}]`},
		{"Rui", nil},
		{"ana", `{"descricao": "Café"}`},
	}
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO pedidos (destinatario, itens) VALUES (?, ?)`, r.customer, r.items)
		require.NoError(t, err)
	}
	return path
}

func TestLoadOrdersSQLite(t *testing.T) {
	ctx := context.Background()
	path := createOrdersDB(t)

	got, err := LoadOrdersSQLite(ctx, path, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, core.OrderRecord{Seq: 1, Customer: "Ana", Items: []string{"Pão", "Leite"}}, got[0])
	assert.Equal(t, 3, got[1].Seq)

	got, err = LoadOrdersSQLite(ctx, path, `SELECT destinatario, itens FROM pedidos WHERE destinatario = 'ana'`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Café"}, got[0].Items)

	_, err = LoadOrdersSQLite(ctx, path, `SELECT nope FROM pedidos`)
	assert.True(t, core.IsInvalidInput(err))

	_, err = LoadOrdersSQLite(ctx, filepath.Join(t.TempDir(), "missing.db"), "")
	assert.True(t, core.IsInvalidInput(err))
}

func TestLoadOrdersDispatch(t *testing.T) {
	assert.True(t, IsSQLitePath("x/pedidos.DB"))
	assert.True(t, IsSQLitePath("a.sqlite3"))
	assert.False(t, IsSQLitePath("pedidos.csv"))

	got, err := LoadOrders(context.Background(), createOrdersDB(t), "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
