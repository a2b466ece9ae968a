package model

import "fmt"

// Role is the semantic role of one uploaded source table. Roles are
// inferred from a signature column, never declared by the uploader.
type Role int

const (
	RoleUnknown Role = iota
	RoleOutcome
	RoleComorbidity
	RoleDemographic
)

// RolePriority is the order in which signatures are tested. A table that
// carries more than one signature column takes the first role listed here.
var RolePriority = []Role{RoleOutcome, RoleComorbidity, RoleDemographic}

var roleInfo = map[Role]struct {
	name      string
	signature string
}{
	RoleOutcome:     {name: "outcome", signature: "konfirmuar_sheruar"},
	RoleComorbidity: {name: "comorbidity", signature: "konfirmuar_icd9_po"},
	RoleDemographic: {name: "demographic", signature: "totalkonfirmuar_pacient"},
}

func (r Role) String() string {
	if info, ok := roleInfo[r]; ok {
		return info.name
	}
	if r == RoleUnknown {
		return "unknown"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Signature returns the column whose presence identifies a table of this role.
func (r Role) Signature() string {
	return roleInfo[r].signature
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
