package model

// StatRecord is the long-format representation of one summary value, used
// for Parquet export and the report archive.
type StatRecord struct {
	Category  string  `parquet:"category" json:"category"`
	Group     string  `parquet:"stat_group" json:"group"`
	Statistic string  `parquet:"statistic" json:"statistic"`
	Value     float64 `parquet:"value" json:"value"`
}

// StatRecords flattens summaries into long format in canonical schema order.
func StatRecords(summaries []Summary) []StatRecord {
	out := make([]StatRecord, 0, len(summaries)*len(Statistics))
	for _, s := range summaries {
		for _, st := range Statistics {
			v, _ := s.Stats.Get(st.StatID)
			out = append(out, StatRecord{
				Category:  s.Category.String(),
				Group:     st.Group,
				Statistic: st.Key,
				Value:     v,
			})
		}
	}
	return out
}

// StatColumns returns the ordered column names for COPY into surv.case_stats.
func StatColumns() []string {
	return []string{"run_id", "category", "stat_group", "statistic", "value"}
}
