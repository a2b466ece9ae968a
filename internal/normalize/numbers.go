package normalize

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotFinite is returned for Inf and NaN spelled other than the
	// blank markers.
	ErrNotFinite = errors.New("count is not finite")
	// ErrNegative is returned for counts below zero.
	ErrNegative = errors.New("count is negative")
)

// Count parses a numeric cell. Blank and NaN cells are absent values and
// report ok=false with a nil error. Counts must be finite and non-negative.
func Count(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "na") {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	switch {
	case math.IsInf(v, 0) || math.IsNaN(v):
		return 0, false, ErrNotFinite
	case v < 0:
		return 0, false, ErrNegative
	}
	return v, true, nil
}
