package format

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cratedb/crate-go/core"
)

var _ Formatter = (*CSV)(nil)

type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (cf *CSV) Name() string {
	return "csv"
}

func (cf *CSV) Format(result *core.RowSet, writer io.Writer) error {
	data := [][]string{
		result.Header(),
	}

	for i := 0; i < result.Len(); i++ {
		row := result.Row(i)

		csvRow := make([]string, 0, row.Width())
		for j := 0; j < row.Width(); j++ {
			csvRow = append(csvRow, fmt.Sprint(row.Value(j)))
		}
		data = append(data, csvRow)
	}

	w := csv.NewWriter(writer)
	if err := w.WriteAll(data); err != nil {
		return fmt.Errorf("w.WriteAll: %w", err)
	}

	return nil
}
