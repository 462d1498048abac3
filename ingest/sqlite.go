package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/rushteam/nextbuy/core"
)

// DefaultSQLiteQuery 按插入顺序读取订单。
const DefaultSQLiteQuery = `SELECT destinatario, itens FROM pedidos ORDER BY rowid`

// LoadOrdersSQLite 从 SQLite 数据库读取订单。query 需返回两列：客户、商品自由文本；
// 为空时使用 DefaultSQLiteQuery。商品文本同样经过 ExtractProducts 提取。
func LoadOrdersSQLite(ctx context.Context, path, query string) ([]core.OrderRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, invalidInput("orders: open "+path, err)
	}
	if strings.TrimSpace(query) == "" {
		query = DefaultSQLiteQuery
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, invalidInput("orders: open "+path, err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, invalidInput("orders: query", err)
	}
	defer rows.Close()

	var (
		out []core.OrderRecord
		seq int
	)
	for rows.Next() {
		var customer, text sql.NullString
		if err := rows.Scan(&customer, &text); err != nil {
			return nil, invalidInput("orders: scan", err)
		}
		seq++
		items := ExtractProducts(text.String)
		if len(items) == 0 {
			continue
		}
		out = append(out, core.OrderRecord{Seq: seq, Customer: customer.String, Items: items})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: iterate: %w", err)
	}
	return out, nil
}

// IsSQLitePath 根据扩展名判断是否为 SQLite 数据库。
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// LoadOrders 根据路径选择 CSV 或 SQLite 读取。
func LoadOrders(ctx context.Context, path, sqliteQuery string) ([]core.OrderRecord, error) {
	if IsSQLitePath(path) {
		return LoadOrdersSQLite(ctx, path, sqliteQuery)
	}
	return LoadOrdersFile(path, Options{})
}
