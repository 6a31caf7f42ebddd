// Package format renders result sets for display or export.
package format

import (
	"fmt"
	"io"

	"github.com/cratedb/crate-go/core"
)

// Formatter writes a result set to the writer in a specific output
// format.
type Formatter interface {
	Name() string
	Format(result *core.RowSet, writer io.Writer) error
}

// Get returns the formatter registered under the given name.
func Get(name string) (Formatter, error) {
	switch name {
	case "json":
		return NewJSON(), nil
	case "csv":
		return NewCSV(), nil
	case "table":
		return NewTable(), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", name)
	}
}
