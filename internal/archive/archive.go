// Package archive stores report runs in Postgres: one row per run, its
// source tables, and every summary value in long format.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/casereport/internal/model"
	"github.com/gyeh/casereport/internal/normalize"
	"github.com/gyeh/casereport/internal/report"
	embedsql "github.com/gyeh/casereport/internal/sql"
)

// ErrRunNotFound is returned when a run id has no archived statistics.
var ErrRunNotFound = errors.New("run not found")

// Source describes one input table of a run.
type Source struct {
	Role   model.Role
	Name   string
	Rows   int
	SHA256 string
}

// Sources lists the run's role tables. hashes maps the path each table was
// opened from to its file digest; tables without a path or digest get an
// empty digest.
func Sources(res *report.Result, hashes map[string]string) []Source {
	out := make([]Source, 0, len(model.RolePriority))
	for _, role := range model.RolePriority {
		t := res.Roles.Table(role)
		out = append(out, Source{Role: role, Name: t.Name, Rows: t.NumRows(), SHA256: hashes[t.Path]})
	}
	return out
}

// HashFiles returns the SHA-256 digest of every path, keyed by the path as
// given, matching tableread.Table.Path.
func HashFiles(paths []string) (map[string]string, error) {
	hashes := make(map[string]string, len(paths))
	for _, p := range paths {
		sha, err := normalize.FileHash(p)
		if err != nil {
			return nil, err
		}
		hashes[p] = sha
	}
	return hashes, nil
}

// Run is an archived report run.
type Run struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Duration  time.Duration
	Sources   string
}

// Save writes the run, its sources and its statistics in one transaction.
func Save(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, res *report.Result, sources []Source) error {
	start := time.Now()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var createdAt time.Time
	if err := tx.QueryRow(ctx, embedsql.InsertRun, res.RunID, res.Duration.Milliseconds()).Scan(&createdAt); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	srcRows := make([][]any, len(sources))
	for i, s := range sources {
		srcRows[i] = []any{res.RunID, s.Role.String(), s.Name, s.Rows, s.SHA256}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"surv", "report_sources"},
		[]string{"run_id", "role", "name", "row_count", "sha256"},
		pgx.CopyFromRows(srcRows),
	); err != nil {
		return fmt.Errorf("copy sources: %w", err)
	}

	records := model.StatRecords(res.Summaries)
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"surv", "case_stats"},
		model.StatColumns(),
		newStatSource(res.RunID, records),
	)
	if err != nil {
		return fmt.Errorf("copy stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Info().
		Str("run_id", res.RunID.String()).
		Int64("stats", n).
		Str("duration", time.Since(start).String()).
		Msg("run archived")
	return nil
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(ctx context.Context, pool *pgxpool.Pool, limit int) ([]Run, error) {
	rows, err := pool.Query(ctx, embedsql.ListRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ms int64
		if err := rows.Scan(&r.ID, &r.CreatedAt, &ms, &r.Sources); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadSummaries rebuilds the summaries of an archived run, in
// model.AllCategories order.
func LoadSummaries(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) ([]model.Summary, error) {
	rows, err := pool.Query(ctx, embedsql.SelectStats, runID)
	if err != nil {
		return nil, fmt.Errorf("select stats: %w", err)
	}
	defer rows.Close()

	byCat := make(map[model.Category]model.Stats)
	for rows.Next() {
		var name, group, key string
		var v float64
		if err := rows.Scan(&name, &group, &key, &v); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		c, ok := model.CategoryByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", model.ErrMalformedSummary, name)
		}
		if byCat[c] == nil {
			byCat[c] = make(model.Stats)
		}
		byCat[c].Set(model.StatID{Group: group, Key: key}, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(byCat) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	out := make([]model.Summary, 0, len(model.AllCategories))
	for _, c := range model.AllCategories {
		stats, ok := byCat[c]
		if !ok {
			return nil, fmt.Errorf("%w: run %s has no %s statistics", model.ErrMalformedSummary, runID, c)
		}
		out = append(out, model.Summary{Category: c, Stats: stats})
	}
	return out, nil
}

// DeleteRun removes a run and, by cascade, its sources and statistics.
func DeleteRun(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) error {
	tag, err := pool.Exec(ctx, embedsql.DeleteRun, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
