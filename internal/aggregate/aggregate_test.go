package aggregate

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/gyeh/casereport/internal/classify"
	"github.com/gyeh/casereport/internal/fixture"
	"github.com/gyeh/casereport/internal/model"
	"github.com/gyeh/casereport/internal/tableread"
)

func assign(t *testing.T, tables ...*tableread.Table) *classify.RoleSet {
	t.Helper()
	set, err := classify.Assign(tables...)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	return set
}

func keySet(s model.Stats) string {
	var keys []string
	for g, ks := range s {
		for k := range ks {
			keys = append(keys, g+"."+k)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func TestSummarize_ShapeIdentical(t *testing.T) {
	set := assign(t, fixture.New(4).Fill(7).Tables()...)
	summaries, err := Summarize(set)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	first := keySet(summaries[0].Stats)
	for i, s := range summaries {
		if s.Category != model.AllCategories[i] {
			t.Errorf("summary %d: category %s, want %s", i, s.Category, model.AllCategories[i])
		}
		if got := keySet(s.Stats); got != first {
			t.Errorf("%s key set differs from %s", s.Category, summaries[0].Category)
		}
		if err := model.CheckShape(s.Stats); err != nil {
			t.Errorf("%s: %v", s.Category, err)
		}
	}
}

func TestSummarize_DemographicTotals(t *testing.T) {
	b := fixture.New(1).
		Set("totalkonfirmuar_pacient", 0, 100).
		Set("konfirmuarpacientm", 0, 60).
		Set("konfirmuarpacientf", 0, 40)
	summaries, err := Summarize(assign(t, b.Tables()...))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	confirmed := summaries[0]
	for _, tc := range []struct {
		group, key string
		want       float64
	}{
		{model.GroupTotal, model.KeyAll, 100},
		{model.GroupGender, model.KeyMale, 60},
		{model.GroupGender, model.KeyFemale, 40},
	} {
		got, ok := confirmed.Value(tc.group, tc.key)
		if !ok || got != tc.want {
			t.Errorf("%s.%s = %v (ok=%v), want %v", tc.group, tc.key, got, ok, tc.want)
		}
	}
	if got, _ := summaries[1].Value(model.GroupTotal, model.KeyAll); got != 0 {
		t.Errorf("suspected total should be 0, got %v", got)
	}
}

func TestSummarize_SumsAcrossRows(t *testing.T) {
	b := fixture.New(3).
		Set("dyshuar_shtrim_po", 0, 2).
		Set("dyshuar_shtrim_po", 1, 3).
		Set("dyshuar_shtrim_po", 2, 5)
	summaries, err := Summarize(assign(t, b.Tables()...))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got, _ := summaries[1].Value(model.GroupHospitalized, model.KeyYes); got != 10 {
		t.Errorf("expected 10, got %v", got)
	}
}

func TestSummarize_ICD9UnknownDefaultsToZero(t *testing.T) {
	b := fixture.New(1).Set("konfirmuar_icd9_panjohur", 0, 9)
	summaries, err := Summarize(assign(t, b.Tables()...))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got, _ := summaries[0].Value(model.GroupICD9, model.KeyUnknown); got != 9 {
		t.Errorf("confirmed icd9 unknown = %v, want 9", got)
	}
	for _, s := range summaries[1:] {
		got, ok := s.Value(model.GroupICD9, model.KeyUnknown)
		if !ok {
			t.Errorf("%s: icd9 unknown slot missing", s.Category)
		}
		if got != 0 {
			t.Errorf("%s: icd9 unknown = %v, want 0", s.Category, got)
		}
	}
}

func TestSummarize_FillIsConsistent(t *testing.T) {
	summaries, err := Summarize(assign(t, fixture.New(5).Fill(42).Tables()...))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	for _, s := range summaries {
		total, _ := s.Value(model.GroupTotal, model.KeyAll)
		var ages float64
		for _, ab := range model.AgeBrackets {
			m, _ := s.Value(ab.Group, model.KeyMale)
			f, _ := s.Value(ab.Group, model.KeyFemale)
			ages += m + f
		}
		if ages != total {
			t.Errorf("%s: age brackets sum to %v, total is %v", s.Category, ages, total)
		}
	}
}

func TestSummarize_InvalidCell(t *testing.T) {
	b := fixture.New(1)
	tables := b.Tables()
	outcome := tables[0]
	for i, col := range outcome.Columns {
		if col == "mundshem_vdekur" {
			outcome.Rows[0][i] = "n/a"
		}
	}
	_, err := Summarize(assign(t, tables...))
	if !errors.Is(err, tableread.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}
