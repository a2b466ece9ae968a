package render

import (
	"bytes"
	"errors"
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"github.com/gyeh/casereport/internal/aggregate"
	"github.com/gyeh/casereport/internal/classify"
	"github.com/gyeh/casereport/internal/fixture"
	"github.com/gyeh/casereport/internal/layout"
	"github.com/gyeh/casereport/internal/model"
)

func sampleSummaries(t *testing.T) []model.Summary {
	t.Helper()
	set, err := classify.Assign(fixture.New(3).Fill(11).Tables()...)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	summaries, err := aggregate.Summarize(set)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	return summaries
}

func openWorkbook(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSpreadsheet_Layout(t *testing.T) {
	b, err := Spreadsheet(sampleSummaries(t))
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}
	f := openWorkbook(t, b)

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("expected single sheet %q, got %v", SheetName, sheets)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != layout.HeaderRows+3 {
		t.Fatalf("expected %d rows, got %d", layout.HeaderRows+3, len(rows))
	}
	for i, r := range rows[layout.HeaderRows:] {
		if len(r) != layout.NumColumns {
			t.Errorf("data row %d has %d cells, want %d", i, len(r), layout.NumColumns)
		}
	}

	merges, err := f.GetMergeCells(SheetName)
	if err != nil {
		t.Fatalf("GetMergeCells: %v", err)
	}
	got := make(map[string]bool)
	for _, m := range merges {
		got[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}
	for _, want := range []string{"A1:A3", "B1:B3", "C1:D2", "E1:P1", "E2:F2", "O2:P2", "Q1:R2", "AK1:AM2"} {
		if !got[want] {
			t.Errorf("missing merge %s", want)
		}
	}

	for _, tc := range []struct {
		cell, want string
	}{
		{"A1", "CATEGORY"}, {"C1", "GENDER"}, {"E1", "AGE"}, {"E2", "0-1"}, {"E3", "M"}, {"F3", "F"},
		{"A4", "CONFIRMED"}, {"A5", "SUSPECTED"}, {"A6", "POSSIBLE"},
	} {
		v, err := f.GetCellValue(SheetName, tc.cell)
		if err != nil {
			t.Fatalf("GetCellValue %s: %v", tc.cell, err)
		}
		if v != tc.want {
			t.Errorf("%s = %q, want %q", tc.cell, v, tc.want)
		}
	}

	for i, l := range layout.Leaves() {
		col, _ := excelize.ColumnNumberToName(i + 1)
		w, err := f.GetColWidth(SheetName, col)
		if err != nil {
			t.Fatalf("GetColWidth %s: %v", col, err)
		}
		if w != l.Width {
			t.Errorf("column %s width %v, want %v", col, w, l.Width)
		}
	}
}

func TestSpreadsheet_Styles(t *testing.T) {
	b, err := Spreadsheet(sampleSummaries(t))
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}
	f := openWorkbook(t, b)

	for _, cell := range []string{"A1", "AM3", "A4", "AM6"} {
		id, err := f.GetCellStyle(SheetName, cell)
		if err != nil {
			t.Fatalf("GetCellStyle %s: %v", cell, err)
		}
		style, err := f.GetStyle(id)
		if err != nil {
			t.Fatalf("GetStyle %s: %v", cell, err)
		}
		if len(style.Border) == 0 {
			t.Errorf("%s: expected a border", cell)
		}
		if style.Alignment == nil || style.Alignment.Horizontal != "center" {
			t.Errorf("%s: expected centered alignment", cell)
		}
		header := strings.HasSuffix(cell, "1") || strings.HasSuffix(cell, "3")
		bold := style.Font != nil && style.Font.Bold
		if header != bold {
			t.Errorf("%s: bold=%v, want %v", cell, bold, header)
		}
	}
}

var (
	trRe = regexp.MustCompile(`(?s)<tr>(.*?)</tr>`)
	tdRe = regexp.MustCompile(`<td>(.*?)</td>`)
)

func htmlDataRows(s string) [][]string {
	var out [][]string
	for _, tr := range trRe.FindAllStringSubmatch(s, -1) {
		tds := tdRe.FindAllStringSubmatch(tr[1], -1)
		if len(tds) == 0 {
			continue
		}
		row := make([]string, len(tds))
		for i, td := range tds {
			row[i] = html.UnescapeString(td[1])
		}
		out = append(out, row)
	}
	return out
}

func TestHTML_MatchesSpreadsheet(t *testing.T) {
	summaries := sampleSummaries(t)

	b, err := Spreadsheet(summaries)
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}
	xrows, err := openWorkbook(t, b).GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}

	out, err := HTML(summaries)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	hrows := htmlDataRows(out)
	if len(hrows) != 3 {
		t.Fatalf("expected 3 html data rows, got %d", len(hrows))
	}
	for i, hr := range hrows {
		xr := xrows[layout.HeaderRows+i]
		if strings.Join(hr, "|") != strings.Join(xr, "|") {
			t.Errorf("row %d differs:\nhtml: %v\nxlsx: %v", i, hr, xr)
		}
	}
}

func TestHTML_Header(t *testing.T) {
	out, err := HTML(sampleSummaries(t))
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.HasPrefix(out, `<table border="1">`) {
		t.Errorf("missing bordered table: %.40s", out)
	}
	for _, want := range []string{
		`<th rowspan="3">CATEGORY</th>`,
		`<th colspan="2" rowspan="2">GENDER</th>`,
		`<th colspan="12">AGE</th>`,
		`<th colspan="2">&gt;70</th>`,
		`<th colspan="3" rowspan="2">PNEUMOCOCCAL VACCINE</th>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s", want)
		}
	}
	if n := strings.Count(out, "<tr>"); n != layout.HeaderRows+3 {
		t.Errorf("expected %d rows, got %d", layout.HeaderRows+3, n)
	}
}

func TestSpreadsheet_Deterministic(t *testing.T) {
	summaries := sampleSummaries(t)
	first, err := Spreadsheet(summaries)
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}
	second, err := Spreadsheet(summaries)
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}
	a, b := openWorkbook(t, first), openWorkbook(t, second)
	ra, _ := a.GetRows(SheetName)
	rb, _ := b.GetRows(SheetName)
	if len(ra) != len(rb) {
		t.Fatalf("row count differs: %d vs %d", len(ra), len(rb))
	}
	for i := range ra {
		if strings.Join(ra[i], "|") != strings.Join(rb[i], "|") {
			t.Errorf("row %d differs", i)
		}
	}
	ma, _ := a.GetMergeCells(SheetName)
	mb, _ := b.GetMergeCells(SheetName)
	if len(ma) != len(mb) {
		t.Errorf("merge count differs: %d vs %d", len(ma), len(mb))
	}
}

func TestRender_Malformed(t *testing.T) {
	stats := model.NewStats()
	delete(stats[model.GroupFluVaccine], model.KeyNo)
	bad := []model.Summary{{Category: model.Confirmed, Stats: stats}}

	if _, err := Spreadsheet(bad); !errors.Is(err, model.ErrMalformedSummary) {
		t.Errorf("Spreadsheet: expected ErrMalformedSummary, got %v", err)
	}
	if _, err := HTML(bad); !errors.Is(err, model.ErrMalformedSummary) {
		t.Errorf("HTML: expected ErrMalformedSummary, got %v", err)
	}
	if _, err := Text(bad); !errors.Is(err, model.ErrMalformedSummary) {
		t.Errorf("Text: expected ErrMalformedSummary, got %v", err)
	}
	var buf bytes.Buffer
	if err := Parquet(&buf, bad); !errors.Is(err, model.ErrMalformedSummary) {
		t.Errorf("Parquet: expected ErrMalformedSummary, got %v", err)
	}
}

func TestText(t *testing.T) {
	out, err := Text(sampleSummaries(t))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	for _, want := range []string{"CATEGORY", "PNEUMOCOCCAL VACCINE", "CONFIRMED", "SUSPECTED", "POSSIBLE"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

func TestParquet(t *testing.T) {
	summaries := sampleSummaries(t)
	var buf bytes.Buffer
	if err := Parquet(&buf, summaries); err != nil {
		t.Fatalf("Parquet: %v", err)
	}

	r := parquet.NewGenericReader[model.StatRecord](bytes.NewReader(buf.Bytes()))
	defer r.Close()
	want := len(summaries) * len(model.Statistics)
	if int(r.NumRows()) != want {
		t.Fatalf("expected %d records, got %d", want, r.NumRows())
	}
	recs := make([]model.StatRecord, want)
	n, _ := r.Read(recs)
	if n != want {
		t.Fatalf("read %d records, want %d", n, want)
	}
	total, _ := summaries[0].Value(model.GroupTotal, model.KeyAll)
	if recs[0].Category != "confirmed" || recs[0].Group != model.GroupTotal || recs[0].Value != total {
		t.Errorf("unexpected first record %+v", recs[0])
	}
}

func TestWrite_Formats(t *testing.T) {
	summaries := sampleSummaries(t)
	for _, f := range Formats {
		var buf bytes.Buffer
		if err := Write(&buf, f, summaries); err != nil {
			t.Errorf("%s: %v", f, err)
			continue
		}
		if buf.Len() == 0 {
			t.Errorf("%s: empty output", f)
		}
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	if err != nil || f != FormatXLSX {
		t.Fatalf("ParseFormat(XLSX) = %q, %v", f, err)
	}
	if f.Filename() != "processed_file.xlsx" {
		t.Errorf("unexpected filename %q", f.Filename())
	}
	if FormatText.Filename() != "processed_file.txt" {
		t.Errorf("unexpected text filename %q", FormatText.Filename())
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNewJSONReport_Columns(t *testing.T) {
	rep, err := NewJSONReport(sampleSummaries(t))
	if err != nil {
		t.Fatalf("NewJSONReport: %v", err)
	}
	if len(rep.Columns) != layout.NumColumns {
		t.Fatalf("expected %d columns, got %d", layout.NumColumns, len(rep.Columns))
	}
	if rep.Columns[0] != "CATEGORY" || rep.Columns[2] != "GENDER / M" || rep.Columns[4] != "AGE / 0-1 / M" {
		t.Errorf("unexpected column names %v", rep.Columns[:5])
	}
}
