package tableread

import (
	"fmt"
	"strings"
)

// RequireColumns checks that t carries every column in cols and reports all
// missing ones in a single error.
func RequireColumns(t *Table, cols []string) error {
	var missing []string
	for _, col := range cols {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s lacks %s", ErrMissingColumn, t.Name, strings.Join(missing, ", "))
	}
	return nil
}
