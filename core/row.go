package core

import "encoding/json"

// Header holds the column names of a result set in declaration order.
type Header []string

// RowSet is the result of a single query: the server-reported duration,
// the header and a lazily decoded sequence of rows. The column name to
// position index is built once and shared by reference with every Row the
// set produces - it is never copied per row and never mutated after
// construction.
type RowSet struct {
	// Duration is the query duration reported by the server.
	Duration float64

	header  Header
	columns map[string]int
	rows    [][]json.RawMessage

	cursor int
}

func newRowSet(duration float64, header Header, rows [][]json.RawMessage) *RowSet {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	return &RowSet{
		Duration: duration,
		header:   header,
		columns:  columns,
		rows:     rows,
	}
}

func (rs *RowSet) Header() Header {
	return rs.header
}

func (rs *RowSet) Len() int {
	return len(rs.rows)
}

// Row returns the row at the given position. The position must be within
// [0, Len()).
func (rs *RowSet) Row(idx int) *Row {
	return &Row{
		values:  rs.rows[idx],
		columns: rs.columns,
	}
}

// HasNext reports whether Next will produce another row.
func (rs *RowSet) HasNext() bool {
	return rs.cursor < len(rs.rows)
}

// Next produces the next row of the set or nil once exhausted.
func (rs *RowSet) Next() *Row {
	if !rs.HasNext() {
		return nil
	}

	row := rs.Row(rs.cursor)
	rs.cursor++
	return row
}

// Row is a single result row. Typed accessors return the zero value and
// false when the underlying JSON value does not have the requested type.
// Indexing past the declared row width is a caller bug and panics.
type Row struct {
	values  []json.RawMessage
	columns map[string]int
}

func (r *Row) Width() int {
	return len(r.values)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func decode[T any](raw json.RawMessage) (T, bool) {
	var value T
	if isNull(raw) {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false
	}
	return value, true
}

func (r *Row) String(idx int) (string, bool) {
	return decode[string](r.values[idx])
}

func (r *Row) Int(idx int) (int64, bool) {
	return decode[int64](r.values[idx])
}

func (r *Row) Uint(idx int) (uint64, bool) {
	return decode[uint64](r.values[idx])
}

func (r *Row) Float(idx int) (float64, bool) {
	return decode[float64](r.values[idx])
}

func (r *Row) Bool(idx int) (bool, bool) {
	return decode[bool](r.values[idx])
}

// Value returns the value at the given position decoded into its natural
// Go type (string, float64, bool, []any, map[string]any or nil).
func (r *Row) Value(idx int) any {
	value, ok := decode[any](r.values[idx])
	if !ok {
		return nil
	}
	return value
}

// Index resolves a column name through the shared column index.
func (r *Row) Index(col string) (int, bool) {
	idx, ok := r.columns[col]
	return idx, ok
}

func (r *Row) StringByName(col string) (string, bool) {
	idx, ok := r.columns[col]
	if !ok {
		return "", false
	}
	return r.String(idx)
}

func (r *Row) IntByName(col string) (int64, bool) {
	idx, ok := r.columns[col]
	if !ok {
		return 0, false
	}
	return r.Int(idx)
}

func (r *Row) UintByName(col string) (uint64, bool) {
	idx, ok := r.columns[col]
	if !ok {
		return 0, false
	}
	return r.Uint(idx)
}

func (r *Row) FloatByName(col string) (float64, bool) {
	idx, ok := r.columns[col]
	if !ok {
		return 0, false
	}
	return r.Float(idx)
}

func (r *Row) BoolByName(col string) (bool, bool) {
	idx, ok := r.columns[col]
	if !ok {
		return false, false
	}
	return r.Bool(idx)
}

// Array decodes the value at the given position into a slice of T.
// It reports false when the value is not an array or an element does not
// decode into T.
func Array[T any](r *Row, idx int) ([]T, bool) {
	return decode[[]T](r.values[idx])
}

// ArrayByName is the by-column-name counterpart of Array.
func ArrayByName[T any](r *Row, col string) ([]T, bool) {
	idx, ok := r.columns[col]
	if !ok {
		return nil, false
	}
	return Array[T](r, idx)
}
