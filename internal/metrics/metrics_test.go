package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/gyeh/casereport/internal/fixture"
	"github.com/gyeh/casereport/internal/report"
)

func TestObserveRun(t *testing.T) {
	m := New()
	res, err := report.Run(zerolog.Nop(), fixture.New(4).Fill(1).Tables())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	m.ObserveRun(res)
	m.ObserveReport("xlsx")

	if got := testutil.ToFloat64(m.Tables.WithLabelValues("outcome")); got != 1 {
		t.Errorf("outcome tables = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Rows.WithLabelValues("demographic")); got != 4 {
		t.Errorf("demographic rows = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.Reports.WithLabelValues("xlsx")); got != 1 {
		t.Errorf("xlsx reports = %v, want 1", got)
	}
}

func TestObserveError(t *testing.T) {
	m := New()
	m.ObserveError(&report.PipelineError{Phase: report.PhaseClassify, Err: errors.New("boom")})
	m.ObserveError(errors.New("plain"))

	if got := testutil.ToFloat64(m.Failures.WithLabelValues("classify")); got != 1 {
		t.Errorf("classify failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Failures.WithLabelValues("other")); got != 1 {
		t.Errorf("other failures = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveReport("html")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `casereport_reports_total{format="html"} 1`) {
		t.Errorf("metric missing from exposition:\n%s", body)
	}
}
