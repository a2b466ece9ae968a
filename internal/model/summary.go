package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformedSummary is returned when a Stats value does not carry exactly
// the groups and keys of the canonical schema.
var ErrMalformedSummary = errors.New("malformed summary")

// Stats is the nested aggregate for one category: group -> key -> value.
type Stats map[string]map[string]float64

// NewStats returns Stats with every schema slot present and zero.
func NewStats() Stats {
	s := make(Stats)
	for _, st := range Statistics {
		s.Set(st.StatID, 0)
	}
	return s
}

// Set stores v at id, creating the group if needed.
func (s Stats) Set(id StatID, v float64) {
	g, ok := s[id.Group]
	if !ok {
		g = make(map[string]float64)
		s[id.Group] = g
	}
	g[id.Key] = v
}

// Get returns the value at id.
func (s Stats) Get(id StatID) (float64, bool) {
	g, ok := s[id.Group]
	if !ok {
		return 0, false
	}
	v, ok := g[id.Key]
	return v, ok
}

// Summary is the aggregate for one case category.
type Summary struct {
	Category Category `json:"category"`
	Stats    Stats    `json:"stats"`
}

// Value returns the statistic at group/key.
func (s Summary) Value(group, key string) (float64, bool) {
	return s.Stats.Get(StatID{Group: group, Key: key})
}

// CheckShape verifies that stats carries exactly the schema's groups and
// keys. Column position in rendered output is load-bearing, so any missing
// or extra slot is an error rather than something to skip.
func CheckShape(stats Stats) error {
	want := make(map[StatID]bool, len(Statistics))
	for _, st := range Statistics {
		want[st.StatID] = true
	}

	var missing, extra []string
	for id := range want {
		if _, ok := stats.Get(id); !ok {
			missing = append(missing, id.String())
		}
	}
	for group, keys := range stats {
		for key := range keys {
			id := StatID{Group: group, Key: key}
			if !want[id] {
				extra = append(extra, id.String())
			}
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	sort.Strings(missing)
	sort.Strings(extra)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(extra, ", "))
	}
	return fmt.Errorf("%w: %s", ErrMalformedSummary, strings.Join(parts, "; "))
}
