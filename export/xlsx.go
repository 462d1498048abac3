package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/rushteam/nextbuy/core"
)

// SheetName 是 XLSX 输出的工作表名。
const SheetName = "recommendations"

// WriteXLSX 把推荐结果写为 XLSX 文件，score 列保存为数值。
func WriteXLSX(path string, recs []core.Recommendation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}

	for i, r := range recs {
		row := i + 2
		values := []any{r.Customer, r.LastItems, r.Top1, r.Score, Row(r)[4]}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("write xlsx row %q: %w", r.Customer, err)
			}
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
