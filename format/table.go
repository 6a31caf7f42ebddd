package format

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cratedb/crate-go/core"
)

var _ Formatter = (*Table)(nil)

type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Name() string {
	return "table"
}

func (tf *Table) Format(result *core.RowSet, writer io.Writer) error {
	var tableHeaders []any
	for _, k := range result.Header() {
		tableHeaders = append(tableHeaders, k)
	}

	var tableRows []table.Row
	for i := 0; i < result.Len(); i++ {
		row := result.Row(i)

		cells := make(table.Row, 0, row.Width())
		for j := 0; j < row.Width(); j++ {
			cells = append(cells, row.Value(j))
		}
		tableRows = append(tableRows, cells)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row(tableHeaders))
	t.AppendRows(tableRows)
	t.AppendSeparator()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false

	if _, err := writer.Write([]byte(t.Render() + "\n")); err != nil {
		return err
	}
	return nil
}
