package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gyeh/casereport/internal/layout"
	"github.com/gyeh/casereport/internal/model"
)

// Format is an output encoding of the report.
type Format string

const (
	FormatXLSX    Format = "xlsx"
	FormatHTML    Format = "html"
	FormatText    Format = "text"
	FormatParquet Format = "parquet"
	FormatJSON    Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatXLSX, FormatHTML, FormatText, FormatParquet, FormatJSON}

// BaseFilename is the stem of downloaded report files.
const BaseFilename = "processed_file"

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Filename returns the default file name for the format, e.g. processed_file.xlsx.
func (f Format) Filename() string {
	ext := string(f)
	if f == FormatText {
		ext = "txt"
	}
	return BaseFilename + "." + ext
}

// JSONReport is the JSON encoding of a report.
type JSONReport struct {
	Columns   []string        `json:"columns"`
	Summaries []model.Summary `json:"summaries"`
	Rows      [][]any         `json:"rows"`
}

// NewJSONReport pairs the summaries with their flattened rows.
func NewJSONReport(summaries []model.Summary) (*JSONReport, error) {
	rows, err := layout.FlattenAll(summaries)
	if err != nil {
		return nil, err
	}
	rep := &JSONReport{Summaries: summaries}
	grid := layout.Grid()
	for col := 0; col < layout.NumColumns; col++ {
		var parts []string
		for r := 0; r < layout.HeaderRows; r++ {
			label := grid[r][col]
			if r == 0 || label != grid[r-1][col] {
				parts = append(parts, label)
			}
		}
		rep.Columns = append(rep.Columns, strings.Join(parts, " / "))
	}
	for _, r := range rows {
		rep.Rows = append(rep.Rows, r.Cells())
	}
	return rep, nil
}

// Write renders the summaries in format f to w.
func Write(w io.Writer, f Format, summaries []model.Summary) error {
	switch f {
	case FormatXLSX:
		b, err := Spreadsheet(summaries)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatHTML:
		s, err := HTML(summaries)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	case FormatText:
		s, err := Text(summaries)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s+"\n")
		return err
	case FormatParquet:
		return Parquet(w, summaries)
	case FormatJSON:
		rep, err := NewJSONReport(summaries)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return fmt.Errorf("unknown format %q", f)
}
