package archive

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/casereport/internal/model"
)

// statSource implements pgx.CopyFromSource over the long-format records of
// one run, prefixing each row with the run id.
type statSource struct {
	runID   uuid.UUID
	records []model.StatRecord
	pos     int
}

func newStatSource(runID uuid.UUID, records []model.StatRecord) *statSource {
	return &statSource{runID: runID, records: records, pos: -1}
}

// Next advances to the next record.
func (s *statSource) Next() bool {
	s.pos++
	return s.pos < len(s.records)
}

// Values returns the current record in model.StatColumns order.
func (s *statSource) Values() ([]any, error) {
	r := s.records[s.pos]
	return []any{s.runID, r.Category, r.Group, r.Statistic, r.Value}, nil
}

func (s *statSource) Err() error {
	return nil
}

var _ pgx.CopyFromSource = (*statSource)(nil)
