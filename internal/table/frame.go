// Package table provides a small row-indexed frame type for handing
// inventory data to statistical tooling: ordered columns, string row
// indices, untyped cells, and CSV export.
package table

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
)

// Cell pairs a column name with a value. Rows are appended as ordered cell
// lists so column order stays deterministic.
type Cell struct {
	Column string
	Value  any
}

// Frame is a table of rows keyed by a string index. Columns appear in
// first-seen order; cells a row does not carry render as empty.
type Frame struct {
	indexName string
	index     []string
	byIndex   map[string]int
	columns   []string
	colSeen   map[string]bool
	rows      []map[string]any
}

// New returns an empty Frame whose index column carries the given name.
func New(indexName string) *Frame {
	return &Frame{
		indexName: indexName,
		byIndex:   map[string]int{},
		colSeen:   map[string]bool{},
	}
}

// Append adds one row under the given index. Duplicate indices are
// rejected.
func (f *Frame) Append(index string, cells []Cell) error {
	if _, ok := f.byIndex[index]; ok {
		return eris.Errorf("table: duplicate index %q", index)
	}

	row := make(map[string]any, len(cells))
	for _, c := range cells {
		if !f.colSeen[c.Column] {
			f.colSeen[c.Column] = true
			f.columns = append(f.columns, c.Column)
		}
		row[c.Column] = c.Value
	}

	f.byIndex[index] = len(f.index)
	f.index = append(f.index, index)
	f.rows = append(f.rows, row)
	return nil
}

// Len reports the number of rows.
func (f *Frame) Len() int {
	return len(f.index)
}

// IndexName returns the name of the index column.
func (f *Frame) IndexName() string {
	return f.indexName
}

// Index returns the row indices in append order.
func (f *Frame) Index() []string {
	return append([]string(nil), f.index...)
}

// Columns returns the column names in first-seen order, excluding the
// index.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Value looks up one cell by row index and column. The second return is
// false when the row is absent or the row does not carry the column.
func (f *Frame) Value(index, column string) (any, bool) {
	i, ok := f.byIndex[index]
	if !ok {
		return nil, false
	}
	v, ok := f.rows[i][column]
	return v, ok
}

// Row returns a copy of the cells for one index.
func (f *Frame) Row(index string) (map[string]any, bool) {
	i, ok := f.byIndex[index]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(f.rows[i]))
	for k, v := range f.rows[i] {
		out[k] = v
	}
	return out, true
}

// WriteCSV serializes the frame with the index as the first column.
func (f *Frame) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "table: create %s", path)
	}
	defer file.Close() //nolint:errcheck

	w := csv.NewWriter(file)
	defer w.Flush()

	header := append([]string{f.indexName}, f.columns...)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "table: write header")
	}

	for i, idx := range f.index {
		record := make([]string, 0, len(header))
		record = append(record, idx)
		for _, col := range f.columns {
			record = append(record, formatCell(f.rows[i][col]))
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "table: write row %q", idx)
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "table: flush csv")
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
