package render

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gyeh/casereport/internal/layout"
	"github.com/gyeh/casereport/internal/model"
)

// Text renders the summaries as a terminal table. Header labels repeated by
// a merge are collapsed by go-pretty's auto-merge.
func Text(summaries []model.Summary) (string, error) {
	rows, err := layout.FlattenAll(summaries)
	if err != nil {
		return "", err
	}

	t := table.NewWriter()
	for _, labels := range layout.Grid() {
		hr := make(table.Row, len(labels))
		for i, l := range labels {
			hr[i] = l
		}
		t.AppendHeader(hr, table.RowConfig{AutoMerge: true})
	}
	for _, r := range rows {
		t.AppendRow(table.Row(r.Cells()))
	}
	t.SetStyle(table.StyleLight)
	return t.Render(), nil
}
