// Package report wires the core stages together: read, classify,
// aggregate, flatten and render.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/casereport/internal/aggregate"
	"github.com/gyeh/casereport/internal/classify"
	"github.com/gyeh/casereport/internal/layout"
	"github.com/gyeh/casereport/internal/model"
	"github.com/gyeh/casereport/internal/render"
	"github.com/gyeh/casereport/internal/tableread"
)

// Pipeline phases, as reported in PipelineError.Phase.
const (
	PhaseRead      = "read"
	PhaseClassify  = "classify"
	PhaseAggregate = "aggregate"
	PhaseFlatten   = "flatten"
	PhaseRender    = "render"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Aggregate classifies the tables and sums them into one summary per case
// category, in model.AllCategories order.
func Aggregate(tables ...*tableread.Table) ([]model.Summary, error) {
	set, err := classify.Assign(tables...)
	if err != nil {
		return nil, err
	}
	return aggregate.Summarize(set)
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID     uuid.UUID
	Roles     *classify.RoleSet
	Summaries []model.Summary
	Rows      []layout.Row
	Duration  time.Duration
}

// OpenFiles reads every path into a Table.
func OpenFiles(paths []string) ([]*tableread.Table, error) {
	tables := make([]*tableread.Table, 0, len(paths))
	for _, p := range paths {
		t, err := tableread.Open(p)
		if err != nil {
			return nil, &PipelineError{Phase: PhaseRead, Err: err}
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Run executes classify → aggregate → flatten over the tables. Nothing is
// rendered; callers pass the Result to Render or to an archive.
func Run(log zerolog.Logger, tables []*tableread.Table) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.New()}
	log = log.With().Str("run_id", res.RunID.String()).Logger()

	log.Info().Int("tables", len(tables)).Msg("classifying tables")
	set, err := classify.Assign(tables...)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseClassify, Err: err}
	}
	res.Roles = set
	for _, role := range model.RolePriority {
		t := set.Table(role)
		log.Debug().
			Str("role", role.String()).
			Str("table", t.Name).
			Int("rows", t.NumRows()).
			Msg("assigned table")
	}

	log.Info().Msg("aggregating")
	res.Summaries, err = aggregate.Summarize(set)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseAggregate, Err: err}
	}

	res.Rows, err = layout.FlattenAll(res.Summaries)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseFlatten, Err: err}
	}

	res.Duration = time.Since(start)
	log.Info().
		Int("summaries", len(res.Summaries)).
		Str("duration", res.Duration.String()).
		Msg("report pipeline complete")
	return res, nil
}

// Render writes the result's summaries to w in format f.
func Render(w io.Writer, f render.Format, res *Result) error {
	if err := render.Write(w, f, res.Summaries); err != nil {
		return &PipelineError{Phase: PhaseRender, Err: err}
	}
	return nil
}
