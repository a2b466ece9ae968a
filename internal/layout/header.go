// Package layout defines the report's column layout once: a header tree of
// nested groups and the routine that flattens a summary into a row in the
// tree's leaf order. Every renderer consumes both, so header and data can
// only ever align by position.
package layout

import "github.com/gyeh/casereport/internal/model"

// HeaderRows is the height of the rendered header.
const HeaderRows = 3

// Node is one header label. Leaves are report columns; inner nodes group
// their children under a merged label.
type Node struct {
	Label    string
	Children []Node

	// Leaf-only fields.
	Width float64      // spreadsheet column width
	Stat  model.StatID // zero for the category label column
}

// IsLeaf reports whether n is a report column.
func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func leaf(label string, width float64, group, key string) Node {
	return Node{Label: label, Width: width, Stat: model.StatID{Group: group, Key: key}}
}

func yesNoUnknown(label, group string) Node {
	return Node{Label: label, Children: []Node{
		leaf("YES", 8, group, model.KeyYes),
		leaf("NO", 8, group, model.KeyNo),
		leaf("UNKNOWN", 11, group, model.KeyUnknown),
	}}
}

// Header returns the report header tree. The ICD-9 "unknown" statistic is
// aggregated but has no report column.
func Header() []Node {
	age := Node{Label: "AGE"}
	for _, b := range model.AgeBrackets {
		age.Children = append(age.Children, Node{Label: b.Label, Children: []Node{
			leaf("M", 6, b.Group, model.KeyMale),
			leaf("F", 6, b.Group, model.KeyFemale),
		}})
	}

	return []Node{
		{Label: "CATEGORY", Width: 14},
		leaf("TOTAL", 10, model.GroupTotal, model.KeyAll),
		{Label: "GENDER", Children: []Node{
			leaf("M", 8, model.GroupGender, model.KeyMale),
			leaf("F", 8, model.GroupGender, model.KeyFemale),
		}},
		age,
		{Label: "MARITAL STATUS", Children: []Node{
			leaf("MARRIED", 10, model.GroupMarital, model.KeyMarried),
			leaf("UNMARRIED", 12, model.GroupMarital, model.KeyUnmarried),
		}},
		{Label: "MEDICAL STATE", Children: []Node{
			leaf("RECOVERED", 12, model.GroupMedicalState, model.KeyRecovered),
			leaf("SICK", 8, model.GroupMedicalState, model.KeySick),
			leaf("DECEASED", 11, model.GroupMedicalState, model.KeyDeceased),
			leaf("UNKNOWN", 11, model.GroupMedicalState, model.KeyUnknown),
		}},
		yesNoUnknown("HOSPITALIZATION", model.GroupHospitalized),
		yesNoUnknown("SYMPTOMS", model.GroupSymptoms),
		yesNoUnknown("OBSERVED SIGNS", model.GroupSigns),
		{Label: "ICD-9 COMORBIDITY", Children: []Node{
			leaf("YES", 9, model.GroupICD9, model.KeyYes),
			leaf("NO", 9, model.GroupICD9, model.KeyNo),
		}},
		yesNoUnknown("FLU VACCINE", model.GroupFluVaccine),
		yesNoUnknown("PNEUMOCOCCAL VACCINE", model.GroupPneumoVaccine),
	}
}

// Leaves returns the report columns in order.
func Leaves() []Node {
	var out []Node
	var walk func([]Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.IsLeaf() {
				out = append(out, n)
				continue
			}
			walk(n.Children)
		}
	}
	walk(Header())
	return out
}

// NumColumns is the number of report columns.
var NumColumns = len(Leaves())

// Cell is a header label placed on the grid. Row and Col are 1-based.
type Cell struct {
	Label   string
	Row     int
	Col     int
	RowSpan int
	ColSpan int
}

// Cells places the header tree on a HeaderRows-high grid, ordered by row
// then column. A node starts on the row below its parent and ends high
// enough to leave one row per level beneath it, so leaves always sit on the
// bottom row and top-level leaves span the full height.
func Cells() []Cell {
	var cells []Cell
	var place func(nodes []Node, row, col int) int
	place = func(nodes []Node, row, col int) int {
		for _, n := range nodes {
			width := countLeaves(n)
			end := HeaderRows - (height(n) - 1)
			cells = append(cells, Cell{
				Label:   n.Label,
				Row:     row,
				Col:     col,
				RowSpan: end - row + 1,
				ColSpan: width,
			})
			if !n.IsLeaf() {
				place(n.Children, end+1, col)
			}
			col += width
		}
		return col
	}
	place(Header(), 1, 1)

	// Stable order: by row, then column.
	ordered := make([]Cell, 0, len(cells))
	for r := 1; r <= HeaderRows; r++ {
		for _, c := range cells {
			if c.Row == r {
				ordered = append(ordered, c)
			}
		}
	}
	return ordered
}

func countLeaves(n Node) int {
	if n.IsLeaf() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += countLeaves(c)
	}
	return total
}

func height(n Node) int {
	if n.IsLeaf() {
		return 1
	}
	h := 0
	for _, c := range n.Children {
		if ch := height(c); ch > h {
			h = ch
		}
	}
	return h + 1
}

// Grid expands Cells into a HeaderRows x NumColumns matrix where every
// position covered by a merged cell repeats its label.
func Grid() [][]string {
	grid := make([][]string, HeaderRows)
	for i := range grid {
		grid[i] = make([]string, NumColumns)
	}
	for _, c := range Cells() {
		for r := c.Row; r < c.Row+c.RowSpan; r++ {
			for col := c.Col; col < c.Col+c.ColSpan; col++ {
				grid[r-1][col-1] = c.Label
			}
		}
	}
	return grid
}
