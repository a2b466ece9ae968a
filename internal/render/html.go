package render

import (
	"html/template"
	"strings"

	"github.com/gyeh/casereport/internal/layout"
	"github.com/gyeh/casereport/internal/model"
)

var tableTmpl = template.Must(template.New("table").Parse(`<table border="1">
{{- range .Header}}
<tr>{{range .}}<th{{if gt .ColSpan 1}} colspan="{{.ColSpan}}"{{end}}{{if gt .RowSpan 1}} rowspan="{{.RowSpan}}"{{end}}>{{.Label}}</th>{{end}}</tr>
{{- end}}
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
`))

type tableData struct {
	Header [][]layout.Cell
	Rows   [][]string
}

// HTML renders the summaries as a bordered HTML table whose header merges
// match the spreadsheet's, expressed as colspan/rowspan.
func HTML(summaries []model.Summary) (string, error) {
	rows, err := layout.FlattenAll(summaries)
	if err != nil {
		return "", err
	}
	return HTMLTable(rows)
}

// HTMLTable renders already flattened rows.
func HTMLTable(rows []layout.Row) (string, error) {
	data := tableData{Header: make([][]layout.Cell, layout.HeaderRows)}
	for _, c := range layout.Cells() {
		data.Header[c.Row-1] = append(data.Header[c.Row-1], c)
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, r.Strings())
	}

	var sb strings.Builder
	if err := tableTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
