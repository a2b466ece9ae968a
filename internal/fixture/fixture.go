// Package fixture builds schema-complete source tables for tests and demos.
package fixture

import (
	"bytes"
	"encoding/csv"
	"math/rand/v2"
	"strconv"

	"github.com/gyeh/casereport/internal/model"
	"github.com/gyeh/casereport/internal/tableread"
)

// Builder holds one value per required column per row, for all three roles.
// Every cell starts at zero.
type Builder struct {
	rows   int
	values map[string][]float64
}

// New returns a Builder with the given number of data rows.
func New(rows int) *Builder {
	b := &Builder{rows: rows, values: make(map[string][]float64)}
	for _, role := range model.RolePriority {
		for _, col := range model.RequiredColumns(role) {
			b.values[col] = make([]float64, rows)
		}
	}
	return b
}

// Set stores v in column col of the given 0-based row.
func (b *Builder) Set(col string, row int, v float64) *Builder {
	if _, ok := b.values[col]; !ok {
		b.values[col] = make([]float64, b.rows)
	}
	b.values[col][row] = v
	return b
}

// Stat stores v in the source column of statistic id for category c.
// Statistics without a column for c are ignored.
func (b *Builder) Stat(c model.Category, id model.StatID, row int, v float64) *Builder {
	st, ok := model.StatisticByID(id)
	if !ok {
		return b
	}
	if col, ok := st.Column(c); ok {
		b.Set(col, row, v)
	}
	return b
}

// Fill populates every row with random but internally consistent counts:
// gender, age, marital and each outcome breakdown all add up to the total.
func (b *Builder) Fill(seed uint64) *Builder {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for row := 0; row < b.rows; row++ {
		for _, c := range model.AllCategories {
			male := float64(rng.IntN(60))
			female := float64(rng.IntN(60))
			total := male + female
			b.Stat(c, model.StatID{Group: model.GroupTotal, Key: model.KeyAll}, row, total)
			b.Stat(c, model.StatID{Group: model.GroupGender, Key: model.KeyMale}, row, male)
			b.Stat(c, model.StatID{Group: model.GroupGender, Key: model.KeyFemale}, row, female)

			maleSplit := split(rng, male, len(model.AgeBrackets))
			femaleSplit := split(rng, female, len(model.AgeBrackets))
			for i, ab := range model.AgeBrackets {
				b.Stat(c, model.StatID{Group: ab.Group, Key: model.KeyMale}, row, maleSplit[i])
				b.Stat(c, model.StatID{Group: ab.Group, Key: model.KeyFemale}, row, femaleSplit[i])
			}

			for _, group := range []string{
				model.GroupMarital, model.GroupMedicalState, model.GroupHospitalized,
				model.GroupSymptoms, model.GroupSigns, model.GroupICD9,
				model.GroupFluVaccine, model.GroupPneumoVaccine,
			} {
				ids := groupIDs(c, group)
				parts := split(rng, total, len(ids))
				for i, id := range ids {
					b.Stat(c, id, row, parts[i])
				}
			}
		}
	}
	return b
}

// groupIDs returns the statistics of group that have a column for c.
func groupIDs(c model.Category, group string) []model.StatID {
	var ids []model.StatID
	for _, st := range model.Statistics {
		if st.Group != group {
			continue
		}
		if _, ok := st.Column(c); ok {
			ids = append(ids, st.StatID)
		}
	}
	return ids
}

// split divides total into n non-negative integer parts.
func split(rng *rand.Rand, total float64, n int) []float64 {
	parts := make([]float64, n)
	left := int(total)
	for i := 0; i < n-1; i++ {
		if left == 0 {
			break
		}
		v := rng.IntN(left + 1)
		parts[i] = float64(v)
		left -= v
	}
	parts[n-1] += float64(left)
	return parts
}

// Columns returns the header written for role, signature first.
func Columns(role model.Role) []string {
	return model.RequiredColumns(role)
}

// CSV renders the role's table as comma-separated text.
func (b *Builder) CSV(role model.Role) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := Columns(role)
	w.Write(header)
	for row := 0; row < b.rows; row++ {
		rec := make([]string, len(header))
		for i, col := range header {
			rec[i] = strconv.FormatFloat(b.values[col][row], 'f', -1, 64)
		}
		w.Write(rec)
	}
	w.Flush()
	return buf.Bytes()
}

// Table parses the role's CSV into a Table named "<role>.csv".
func (b *Builder) Table(role model.Role) *tableread.Table {
	t, err := tableread.Read(role.String()+".csv", bytes.NewReader(b.CSV(role)))
	if err != nil {
		panic(err)
	}
	return t
}

// Tables returns one table per role in model.RolePriority order.
func (b *Builder) Tables() []*tableread.Table {
	out := make([]*tableread.Table, 0, len(model.RolePriority))
	for _, role := range model.RolePriority {
		out = append(out, b.Table(role))
	}
	return out
}
