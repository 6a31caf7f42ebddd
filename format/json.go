package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cratedb/crate-go/core"
)

var _ Formatter = (*JSON)(nil)

type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (jf *JSON) Name() string {
	return "json"
}

func (jf *JSON) Format(result *core.RowSet, writer io.Writer) error {
	header := result.Header()

	data := make([]map[string]any, 0, result.Len())
	for i := 0; i < result.Len(); i++ {
		row := result.Row(i)

		record := make(map[string]any, row.Width())
		for j := 0; j < row.Width(); j++ {
			var h string
			if j < len(header) {
				h = header[j]
			} else {
				h = fmt.Sprintf("<unknown-field-%d>", j)
			}
			record[h] = row.Value(j)
		}
		data = append(data, record)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	if _, err := writer.Write(out); err != nil {
		return err
	}
	return nil
}
