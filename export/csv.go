package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rushteam/nextbuy/core"
)

// WriteCSV 以 CSV 写出推荐结果（含表头）。
func WriteCSV(w io.Writer, recs []core.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Customer, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
