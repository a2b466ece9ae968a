package aggregate

import (
	"fmt"

	"github.com/gyeh/casereport/internal/classify"
	"github.com/gyeh/casereport/internal/model"
)

// Summarize computes one Summary per case category, in model.AllCategories
// order. Every summary has the full schema shape; a statistic with no
// source column for a category is stored as 0. Any error aborts the whole
// computation.
func Summarize(set *classify.RoleSet) ([]model.Summary, error) {
	out := make([]model.Summary, 0, len(model.AllCategories))
	for _, c := range model.AllCategories {
		s, err := summarizeCategory(set, c)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", c, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func summarizeCategory(set *classify.RoleSet, c model.Category) (model.Summary, error) {
	stats := make(model.Stats)
	for _, st := range model.Statistics {
		col, ok := st.Column(c)
		if !ok {
			stats.Set(st.StatID, 0)
			continue
		}
		v, err := set.Table(st.Role).Sum(col)
		if err != nil {
			return model.Summary{}, err
		}
		stats.Set(st.StatID, v)
	}
	return model.Summary{Category: c, Stats: stats}, nil
}
