package model

import (
	"fmt"
	"strings"
)

// Statistic groups, the top-level keys of Stats.
const (
	GroupTotal         = "total"
	GroupGender        = "gender"
	GroupAge0to1       = "age_0_1"
	GroupAge1to18      = "age_1_18"
	GroupAge19to25     = "age_19_25"
	GroupAge26to34     = "age_26_34"
	GroupAge35to70     = "age_35_70"
	GroupAgeOver70     = "age_over_70"
	GroupMarital       = "marital"
	GroupMedicalState  = "medical_state"
	GroupHospitalized  = "hospitalization"
	GroupSymptoms      = "symptoms"
	GroupSigns         = "signs"
	GroupICD9          = "icd9"
	GroupFluVaccine    = "flu_vaccine"
	GroupPneumoVaccine = "pneumococcal_vaccine"
)

// Statistic keys, the second-level keys of Stats.
const (
	KeyAll       = "all"
	KeyMale      = "male"
	KeyFemale    = "female"
	KeyMarried   = "married"
	KeyUnmarried = "unmarried"
	KeyRecovered = "recovered"
	KeySick      = "sick"
	KeyDeceased  = "deceased"
	KeyYes       = "yes"
	KeyNo        = "no"
	KeyUnknown   = "unknown"
)

// StatID addresses one value inside Stats.
type StatID struct {
	Group string
	Key   string
}

func (id StatID) String() string {
	return id.Group + "." + id.Key
}

// IsZero reports whether id addresses nothing.
func (id StatID) IsZero() bool {
	return id.Group == "" && id.Key == ""
}

// Statistic binds a StatID to the source column that feeds it.
type Statistic struct {
	StatID
	Role Role
	// Pattern is the column name with "%s" standing for the category stem.
	Pattern string
	// Only restricts the column to these categories. Other categories have
	// no such column and the statistic is a literal 0 for them.
	Only []Category
}

// Column returns the source column name for category c, or ok=false when
// the source schema has no column for c.
func (s Statistic) Column(c Category) (string, bool) {
	if len(s.Only) > 0 {
		found := false
		for _, o := range s.Only {
			if o == c {
				found = true
				break
			}
		}
		if !found {
			return "", false
		}
	}
	return fmt.Sprintf(s.Pattern, c.Stem()), true
}

func stat(role Role, group, key, pattern string, only ...Category) Statistic {
	return Statistic{StatID: StatID{Group: group, Key: key}, Role: role, Pattern: pattern, Only: only}
}

// yesNoUnknown expands a "<stem>_<name>_po|jo|panjohur" triple.
func yesNoUnknown(role Role, group, name string) []Statistic {
	return []Statistic{
		stat(role, group, KeyYes, "%s_"+name+"_po"),
		stat(role, group, KeyNo, "%s_"+name+"_jo"),
		stat(role, group, KeyUnknown, "%s_"+name+"_panjohur"),
	}
}

// AgeBracket is one of the fixed age ranges of the surveillance form.
type AgeBracket struct {
	Group  string
	Label  string
	Suffix string // column fragment, e.g. "0_1"
}

// AgeBrackets lists the age ranges in report column order.
var AgeBrackets = []AgeBracket{
	{Group: GroupAge0to1, Label: "0-1", Suffix: "0_1"},
	{Group: GroupAge1to18, Label: "1-18", Suffix: "1_18"},
	{Group: GroupAge19to25, Label: "19-25", Suffix: "19_25"},
	{Group: GroupAge26to34, Label: "26-34", Suffix: "26_34"},
	{Group: GroupAge35to70, Label: "35-70", Suffix: "35_70"},
	{Group: GroupAgeOver70, Label: ">70", Suffix: "mbi70"},
}

// Statistics is the canonical schema: every value of a Summary and the
// column it is summed from, in canonical order.
var Statistics = buildStatistics()

func buildStatistics() []Statistic {
	out := []Statistic{
		stat(RoleDemographic, GroupTotal, KeyAll, "total%s_pacient"),
		stat(RoleDemographic, GroupGender, KeyMale, "%spacientm"),
		stat(RoleDemographic, GroupGender, KeyFemale, "%spacientf"),
	}
	for _, b := range AgeBrackets {
		out = append(out,
			stat(RoleDemographic, b.Group, KeyMale, "%s_mosha_"+b.Suffix+"_m"),
			stat(RoleDemographic, b.Group, KeyFemale, "%s_mosha_"+b.Suffix+"_f"),
		)
	}
	out = append(out,
		stat(RoleDemographic, GroupMarital, KeyMarried, "%s_martuar"),
		stat(RoleDemographic, GroupMarital, KeyUnmarried, "%s_pamartuar"),

		stat(RoleOutcome, GroupMedicalState, KeyRecovered, "%s_sheruar"),
		stat(RoleOutcome, GroupMedicalState, KeySick, "%s_semure"),
		stat(RoleOutcome, GroupMedicalState, KeyDeceased, "%s_vdekur"),
		stat(RoleOutcome, GroupMedicalState, KeyUnknown, "%s_gjendja_panjohur"),
	)
	out = append(out, yesNoUnknown(RoleOutcome, GroupHospitalized, "shtrim")...)
	out = append(out, yesNoUnknown(RoleOutcome, GroupSymptoms, "simptoma")...)
	out = append(out, yesNoUnknown(RoleOutcome, GroupSigns, "shenja")...)
	out = append(out,
		stat(RoleComorbidity, GroupICD9, KeyYes, "%s_icd9_po"),
		stat(RoleComorbidity, GroupICD9, KeyNo, "%s_icd9_jo"),
		stat(RoleComorbidity, GroupICD9, KeyUnknown, "%s_icd9_panjohur", Confirmed),
	)
	out = append(out, yesNoUnknown(RoleOutcome, GroupFluVaccine, "vaksina_grip")...)
	out = append(out, yesNoUnknown(RoleOutcome, GroupPneumoVaccine, "vaksina_pneumokok")...)
	return out
}

// RequiredColumns returns every column a table of the given role must
// carry, across all categories, in schema order.
func RequiredColumns(role Role) []string {
	var cols []string
	for _, s := range Statistics {
		if s.Role != role {
			continue
		}
		for _, c := range AllCategories {
			if col, ok := s.Column(c); ok {
				cols = append(cols, col)
			}
		}
	}
	return cols
}

// StatisticByID returns the schema entry for id, or ok=false.
func StatisticByID(id StatID) (Statistic, bool) {
	for _, s := range Statistics {
		if s.StatID == id {
			return s, true
		}
	}
	return Statistic{}, false
}

// Groups returns the distinct statistic groups in canonical order.
func Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, s := range Statistics {
		if !seen[s.Group] {
			seen[s.Group] = true
			groups = append(groups, s.Group)
		}
	}
	return groups
}

// ColumnList renders columns for error messages.
func ColumnList(cols []string) string {
	return strings.Join(cols, ", ")
}
