package tableread

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/gyeh/casereport/internal/normalize"
)

var (
	// ErrMissingColumn is returned when a referenced column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidValue is returned when a summed cell is not numeric.
	ErrInvalidValue = errors.New("invalid value")
)

// Table is a parsed source file: normalized column names and raw string
// cells. Rows shorter than the header are padded with blanks.
type Table struct {
	Name    string
	Path    string // as given to Open; empty for tables decoded by Read
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewTable builds a Table from a raw header row and data rows.
func NewTable(name string, header []string, rows [][]string) *Table {
	cols := normalize.Headers(header)
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c] = i
	}
	for i, row := range rows {
		if len(row) < len(cols) {
			padded := make([]string, len(cols))
			copy(padded, row)
			rows[i] = padded
		}
	}
	return &Table{Name: name, Columns: cols, Rows: rows, index: idx}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Has reports whether the table carries column col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Sum adds up every numeric cell of col. Blank and NaN cells are skipped.
func (t *Table) Sum(col string) (float64, error) {
	i, ok := t.index[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s in %s", ErrMissingColumn, col, t.Name)
	}
	vals := make([]float64, 0, len(t.Rows))
	for r, row := range t.Rows {
		v, ok, err := normalize.Count(row[i])
		if err != nil {
			// +2: 1-based, plus the header line.
			return 0, fmt.Errorf("%w: %s row %d column %s: %q: %v", ErrInvalidValue, t.Name, r+2, col, row[i], err)
		}
		if ok {
			vals = append(vals, v)
		}
	}
	return floats.Sum(vals), nil
}
