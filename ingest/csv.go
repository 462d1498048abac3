package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/pkg/logging"
)

// Delimiters 是自动识别时依次尝试的分隔符。
var Delimiters = []rune{',', ';', '|', '\t'}

// Options 控制订单 CSV 的解析。
type Options struct {
	// Delimiter 为 0 时根据表头自动识别
	Delimiter rune

	// ItemsColumn 商品自由文本列名，默认 "itens"；不存在时使用最后一列
	ItemsColumn string

	// CustomerColumn 客户（收件人）列名，默认 "destinatario"
	CustomerColumn string

	// CustomerFallbackIndex 客户列不存在时使用的列下标，默认 3
	CustomerFallbackIndex int
}

func (o Options) withDefaults() Options {
	if o.ItemsColumn == "" {
		o.ItemsColumn = "itens"
	}
	if o.CustomerColumn == "" {
		o.CustomerColumn = "destinatario"
	}
	if o.CustomerFallbackIndex <= 0 {
		o.CustomerFallbackIndex = 3
	}
	return o
}

func invalidInput(msg string, err error) error {
	return core.WrapDomainError(core.ModuleIngest, core.ErrorCodeInvalidInput, msg, err)
}

// SniffDelimiter 根据一行文本选择字段数最多的分隔符；并列时按 Delimiters 顺序，
// 都只有一个字段时返回 ','。
func SniffDelimiter(line string) rune {
	best, bestFields := ',', 1
	for _, d := range Delimiters {
		r := csv.NewReader(strings.NewReader(line))
		r.Comma = d
		r.LazyQuotes = true
		r.FieldsPerRecord = -1
		rec, err := r.Read()
		if err != nil {
			continue
		}
		if len(rec) > bestFields {
			best, bestFields = d, len(rec)
		}
	}
	return best
}

func firstLine(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	return strings.TrimRight(string(data), "\r")
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// ReadOrders 解析订单 CSV。
//
// itens 列中常含未转义的分隔符（例如内嵌 JSON），因此 itens 列及其后的所有字段
// 会用分隔符重新拼接为一个文本，再从中提取商品描述。没有提取到商品的行会被丢弃。
// 非法 UTF-8 字节被忽略。
func ReadOrders(r io.Reader, opts Options) ([]core.OrderRecord, error) {
	opts = opts.withDefaults()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	data = bytes.ToValidUTF8(data, nil)
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	delim := opts.Delimiter
	if delim == 0 {
		delim = SniffDelimiter(firstLine(data))
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalidInput("orders: missing header", nil)
	}
	if err != nil {
		return nil, invalidInput("orders: read header", err)
	}

	itemsIdx := findColumn(header, opts.ItemsColumn)
	if itemsIdx < 0 {
		itemsIdx = len(header) - 1
	}
	customerIdx := findColumn(header, opts.CustomerColumn)
	if customerIdx < 0 {
		customerIdx = opts.CustomerFallbackIndex
	}
	if customerIdx >= itemsIdx {
		return nil, invalidInput(fmt.Sprintf("orders: no customer column %q before items column (header %v)", opts.CustomerColumn, header), nil)
	}

	var (
		out     []core.OrderRecord
		rows    int
		dropped int
		sep     = string(delim)
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalidInput(fmt.Sprintf("orders: row %d", rows+1), err)
		}
		rows++

		if len(row) <= itemsIdx {
			padded := make([]string, itemsIdx+1)
			copy(padded, row)
			row = padded
		}

		items := ExtractProducts(strings.Join(row[itemsIdx:], sep))
		if len(items) == 0 {
			dropped++
			continue
		}
		out = append(out, core.OrderRecord{
			Seq:      rows,
			Customer: row[customerIdx],
			Items:    items,
		})
	}

	logging.Debug().
		Str("delimiter", sep).
		Int("rows", rows).
		Int("orders", len(out)).
		Int("dropped", dropped).
		Msg("orders parsed")
	return out, nil
}

// LoadOrdersFile 打开并解析订单 CSV 文件。
func LoadOrdersFile(path string, opts Options) ([]core.OrderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, invalidInput("orders: open "+path, err)
	}
	defer f.Close()
	return ReadOrders(f, opts)
}
