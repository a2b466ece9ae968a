package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gyeh/casereport/internal/model"
	"github.com/gyeh/casereport/internal/tableread"
)

var (
	// ErrUnrecognizedStructure is returned when a table carries no known
	// signature column.
	ErrUnrecognizedStructure = errors.New("unrecognized table structure")
	// ErrMissingRole is returned when the uploaded tables do not map
	// one-to-one onto the three roles.
	ErrMissingRole = errors.New("missing table role")
)

// Classify returns the role of t, testing signatures in model.RolePriority
// order so a table with several signature columns takes the first match.
func Classify(t *tableread.Table) (model.Role, error) {
	for _, role := range model.RolePriority {
		if t.Has(role.Signature()) {
			return role, nil
		}
	}
	return model.RoleUnknown, fmt.Errorf("%w: %s has none of the columns %s",
		ErrUnrecognizedStructure, t.Name, model.ColumnList(signatures()))
}

func signatures() []string {
	out := make([]string, len(model.RolePriority))
	for i, r := range model.RolePriority {
		out[i] = r.Signature()
	}
	return out
}

// RoleSet holds exactly one validated table per role.
type RoleSet struct {
	Outcome     *tableread.Table
	Comorbidity *tableread.Table
	Demographic *tableread.Table
}

// Table returns the table assigned to role.
func (s *RoleSet) Table(role model.Role) *tableread.Table {
	switch role {
	case model.RoleOutcome:
		return s.Outcome
	case model.RoleComorbidity:
		return s.Comorbidity
	case model.RoleDemographic:
		return s.Demographic
	}
	return nil
}

// Assign classifies every table, requires exactly one table per role and
// then checks each table against its role's full column list, so a missing
// column fails here rather than halfway through summation.
func Assign(tables ...*tableread.Table) (*RoleSet, error) {
	byRole := make(map[model.Role][]*tableread.Table)
	for _, t := range tables {
		role, err := Classify(t)
		if err != nil {
			return nil, err
		}
		byRole[role] = append(byRole[role], t)
	}

	var problems []string
	for _, role := range model.RolePriority {
		switch got := byRole[role]; len(got) {
		case 1:
		case 0:
			problems = append(problems, fmt.Sprintf("no %s table", role))
		default:
			names := make([]string, len(got))
			for i, t := range got {
				names[i] = t.Name
			}
			problems = append(problems, fmt.Sprintf("%d %s tables (%s)", len(got), role, strings.Join(names, ", ")))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRole, strings.Join(problems, "; "))
	}

	set := &RoleSet{
		Outcome:     byRole[model.RoleOutcome][0],
		Comorbidity: byRole[model.RoleComorbidity][0],
		Demographic: byRole[model.RoleDemographic][0],
	}
	for _, role := range model.RolePriority {
		if err := tableread.RequireColumns(set.Table(role), model.RequiredColumns(role)); err != nil {
			return nil, fmt.Errorf("%s table: %w", role, err)
		}
	}
	return set, nil
}
