package model

import "fmt"

// Category is a surveillance case classification.
type Category int

const (
	Confirmed Category = iota
	Suspected
	Possible
)

// AllCategories lists the case categories in report row order.
var AllCategories = []Category{Confirmed, Suspected, Possible}

var categoryInfo = []struct {
	name  string // machine name, e.g. "confirmed"
	stem  string // column stem in the source tables, e.g. "konfirmuar"
	label string // report row label
}{
	Confirmed: {name: "confirmed", stem: "konfirmuar", label: "CONFIRMED"},
	Suspected: {name: "suspected", stem: "dyshuar", label: "SUSPECTED"},
	Possible:  {name: "possible", stem: "mundshem", label: "POSSIBLE"},
}

func (c Category) valid() bool {
	return c >= Confirmed && int(c) < len(categoryInfo)
}

func (c Category) String() string {
	if !c.valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryInfo[c].name
}

// Stem returns the column-name stem used for this category in source tables.
func (c Category) Stem() string {
	if !c.valid() {
		return ""
	}
	return categoryInfo[c].stem
}

// Label returns the text written in the first cell of the category's report row.
func (c Category) Label() string {
	if !c.valid() {
		return ""
	}
	return categoryInfo[c].label
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name produced by MarshalText.
func (c *Category) UnmarshalText(b []byte) error {
	v, ok := CategoryByName(string(b))
	if !ok {
		return fmt.Errorf("unknown category %q", b)
	}
	*c = v
	return nil
}

// CategoryByName returns the Category for the given machine name, or ok=false.
func CategoryByName(name string) (Category, bool) {
	for _, c := range AllCategories {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}
