package tableread

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4"
	"github.com/xuri/excelize/v2"
)

const sample = "Konfirmuar_Sheruar,dyshuar_sheruar\n3,1\n4,\n,NaN\n"

func TestRead_CSV(t *testing.T) {
	tbl, err := Read("outcome.csv", strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.NumRows())
	}
	if !tbl.Has("konfirmuar_sheruar") {
		t.Fatalf("header not normalized: %v", tbl.Columns)
	}
	sum, err := tbl.Sum("konfirmuar_sheruar")
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if sum != 7 {
		t.Errorf("expected 7, got %v", sum)
	}
	sum, err = tbl.Sum("dyshuar_sheruar")
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if sum != 1 {
		t.Errorf("expected 1, got %v", sum)
	}
}

func TestRead_SemicolonDelimited(t *testing.T) {
	in := strings.ReplaceAll(sample, ",", ";")
	tbl, err := Read("outcome.csv", strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(tbl.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %v", tbl.Columns)
	}
}

func TestRead_ShortRowsPadded(t *testing.T) {
	tbl, err := Read("t.csv", strings.NewReader("a,b,c\n1\n2,3\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	sum, err := tbl.Sum("c")
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if sum != 0 {
		t.Errorf("expected 0, got %v", sum)
	}
}

func TestRead_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte(sample))
	gw.Close()

	tbl, err := Read("outcome.csv.gz", &buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.NumRows() != 3 {
		t.Errorf("expected 3 rows, got %d", tbl.NumRows())
	}
}

func TestRead_LZ4(t *testing.T) {
	var buf bytes.Buffer
	lw := lz4.NewWriter(&buf)
	if _, err := lw.Write([]byte(sample)); err != nil {
		t.Fatal(err)
	}
	if err := lw.Close(); err != nil {
		t.Fatal(err)
	}

	tbl, err := Read("outcome.csv.lz4", &buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !tbl.Has("dyshuar_sheruar") {
		t.Errorf("unexpected columns %v", tbl.Columns)
	}
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"totalkonfirmuar_pacient", "konfirmuarpacientm"})
	f.SetSheetRow(sheet, "A2", &[]any{100, 60})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	tbl, err := Read("demographic.xlsx", buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	sum, err := tbl.Sum("totalkonfirmuar_pacient")
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if sum != 100 {
		t.Errorf("expected 100, got %v", sum)
	}
}

func TestRead_XLSXFormattedNumbers(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"totalkonfirmuar_pacient"})
	f.SetCellValue(sheet, "A2", 1234)
	f.SetCellValue(sheet, "A3", 1000000)
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(sheet, "A2", "A3", thousands); err != nil {
		t.Fatal(err)
	}
	if shown, _ := f.GetCellValue(sheet, "A2"); shown != "1,234" {
		t.Fatalf("expected formatted display 1,234, got %q", shown)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	tbl, err := Read("demographic.xlsx", buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	sum, err := tbl.Sum("totalkonfirmuar_pacient")
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if sum != 1001234 {
		t.Errorf("expected 1001234, got %v", sum)
	}
}

func TestRead_Unsupported(t *testing.T) {
	_, err := Read("report.pdf", strings.NewReader(""))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRead_Empty(t *testing.T) {
	if _, err := Read("empty.csv", strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outcome.csv")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tbl.Name != "outcome.csv" {
		t.Errorf("expected base name, got %q", tbl.Name)
	}
}

func TestSum_Errors(t *testing.T) {
	tbl := NewTable("t.csv", []string{"a"}, [][]string{{"1"}, {"x"}})
	if _, err := tbl.Sum("a"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := tbl.Sum("b"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestSum_RejectsNonCounts(t *testing.T) {
	for _, bad := range []string{"Inf", "+Infinity", "-3"} {
		tbl := NewTable("t.csv", []string{"a"}, [][]string{{"1"}, {bad}})
		sum, err := tbl.Sum("a")
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("%q: expected ErrInvalidValue, got sum=%v err=%v", bad, sum, err)
		}
	}
}

func TestRequireColumns(t *testing.T) {
	tbl := NewTable("t.csv", []string{"a", "b"}, nil)
	if err := RequireColumns(tbl, []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := RequireColumns(tbl, []string{"a", "c", "d"})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "c, d") {
		t.Errorf("error should list every missing column: %v", err)
	}
}
