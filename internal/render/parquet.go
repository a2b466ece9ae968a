package render

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/casereport/internal/layout"
	"github.com/gyeh/casereport/internal/model"
)

// Parquet writes the summaries to w in long format, one model.StatRecord
// per category and statistic.
func Parquet(w io.Writer, summaries []model.Summary) error {
	if _, err := layout.FlattenAll(summaries); err != nil {
		return err
	}
	pw := parquet.NewGenericWriter[model.StatRecord](w)
	if _, err := pw.Write(model.StatRecords(summaries)); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
