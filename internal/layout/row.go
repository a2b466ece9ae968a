package layout

import (
	"fmt"
	"strconv"

	"github.com/gyeh/casereport/internal/model"
)

// Row is one category's summary flattened into report column order.
// Values[0] belongs to the second column; the first holds Label.
type Row struct {
	Category model.Category
	Label    string
	Values   []float64
}

// Flatten converts s into a Row following the header's leaf order. It fails
// if s does not have the exact schema shape.
func Flatten(s model.Summary) (Row, error) {
	if err := model.CheckShape(s.Stats); err != nil {
		return Row{}, fmt.Errorf("flatten %s: %w", s.Category, err)
	}
	row := Row{Category: s.Category, Label: s.Category.Label()}
	for _, l := range Leaves() {
		if l.Stat.IsZero() {
			continue
		}
		v, _ := s.Stats.Get(l.Stat)
		row.Values = append(row.Values, v)
	}
	if got := len(row.Values) + 1; got != NumColumns {
		return Row{}, fmt.Errorf("flatten %s: %w: %d cells, want %d", s.Category, model.ErrMalformedSummary, got, NumColumns)
	}
	return row, nil
}

// FlattenAll flattens every summary, failing on the first malformed one.
func FlattenAll(summaries []model.Summary) ([]Row, error) {
	rows := make([]Row, 0, len(summaries))
	for _, s := range summaries {
		r, err := Flatten(s)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// Cells returns the label followed by the values.
func (r Row) Cells() []any {
	out := make([]any, 0, len(r.Values)+1)
	out = append(out, r.Label)
	for _, v := range r.Values {
		out = append(out, v)
	}
	return out
}

// Strings returns Cells formatted as text.
func (r Row) Strings() []string {
	out := make([]string, 0, len(r.Values)+1)
	out = append(out, r.Label)
	for _, v := range r.Values {
		out = append(out, FormatValue(v))
	}
	return out
}

// FormatValue renders a count the way every text-based target prints it.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
