// Package sheet reads and writes the tabular files exchanged with survey
// tooling: semicolon CSV exports and single-sheet xlsx workbooks.
package sheet

import (
	"fmt"
	"strings"
)

// Table is an in-memory sheet: one header row followed by data rows. Every
// row is padded to the header width when loaded.
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of the named column, or -1. Names are matched
// exactly first and then case-insensitively.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found (available: %s)", name, strings.Join(t.Header, ", "))
	}
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = cell(row, idx)
	}
	return col, nil
}

// AppendColumn adds a column at the right edge. values must have one entry
// per row.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("append column %q: got %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(pad(t.Rows[i], len(t.Header)-1), values[i])
	}
	return nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// pad extends row with empty cells up to width. Longer rows are kept as-is.
func pad(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func newTable(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	rows := make([][]string, 0, len(records)-1)
	for _, r := range records[1:] {
		rows = append(rows, pad(r, len(header)))
	}
	return &Table{Header: header, Rows: rows}
}
