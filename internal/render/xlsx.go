package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/casereport/internal/layout"
	"github.com/gyeh/casereport/internal/model"
)

// SheetName is the name of the single worksheet in the report workbook.
const SheetName = "Report"

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// Spreadsheet renders the summaries as an .xlsx workbook.
func Spreadsheet(summaries []model.Summary) ([]byte, error) {
	rows, err := layout.FlattenAll(summaries)
	if err != nil {
		return nil, err
	}
	f, err := Workbook(rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Workbook builds the report workbook: column widths, the merged and styled
// header, then one bordered row per flattened summary.
func Workbook(rows []layout.Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := writeWorkbook(f, rows); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeWorkbook(f *excelize.File, rows []layout.Row) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder,
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return fmt.Errorf("data style: %w", err)
	}

	for i, l := range layout.Leaves() {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, l.Width); err != nil {
			return fmt.Errorf("column %s width: %w", col, err)
		}
	}

	for _, c := range layout.Cells() {
		topLeft, _ := excelize.CoordinatesToCellName(c.Col, c.Row)
		if err := f.SetCellValue(SheetName, topLeft, c.Label); err != nil {
			return fmt.Errorf("header %s: %w", topLeft, err)
		}
		if c.RowSpan > 1 || c.ColSpan > 1 {
			bottomRight, _ := excelize.CoordinatesToCellName(c.Col+c.ColSpan-1, c.Row+c.RowSpan-1)
			if err := f.MergeCell(SheetName, topLeft, bottomRight); err != nil {
				return fmt.Errorf("merge %s:%s: %w", topLeft, bottomRight, err)
			}
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(layout.NumColumns)
	if err := f.SetCellStyle(SheetName, "A1", fmt.Sprintf("%s%d", lastCol, layout.HeaderRows), headerStyle); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, r := range rows {
		rowNum := layout.HeaderRows + 1 + i
		cells := r.Cells()
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", rowNum), &cells); err != nil {
			return fmt.Errorf("data row %d: %w", rowNum, err)
		}
	}
	if len(rows) > 0 {
		first := layout.HeaderRows + 1
		last := layout.HeaderRows + len(rows)
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", first), fmt.Sprintf("%s%d", lastCol, last), dataStyle); err != nil {
			return fmt.Errorf("data style: %w", err)
		}
	}
	return nil
}
