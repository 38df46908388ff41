// Package roles defines the role hierarchy of the school directory.
package roles

// Role identifies an account class in the school directory.
type Role string

const (
	GlobalAdministrator Role = "globaladministrator"
	SchoolAdministrator Role = "schooladministrator"
	Teacher             Role = "teacher"
	Student             Role = "student"
	// ExamUser is never stored in the directory. It is assigned to any
	// target account whose name carries the "-exam" suffix.
	ExamUser Role = "examuser"
)

// rankUnknown sorts above every real rank so that comparisons against
// unrecognized roles fail closed.
const rankUnknown = 5

var rankTable = map[Role]int{
	GlobalAdministrator: 4,
	SchoolAdministrator: 3,
	Teacher:             2,
	Student:             1,
	ExamUser:            1,
}

// Rank returns the hierarchy rank of a role. The order is total except for
// student and examuser, which share rank 1. Unknown roles rank above
// globaladministrator, so delegating to them can never succeed.
func Rank(r Role) int {
	if rank, ok := rankTable[r]; ok {
		return rank
	}
	return rankUnknown
}

var aliasTable = map[rune]Role{
	'G': GlobalAdministrator,
	'S': SchoolAdministrator,
	'T': Teacher,
	's': Student,
}

// ExpandAliases maps single-character role aliases to their roles.
// Characters outside the G/S/T/s table are ignored.
func ExpandAliases(aliases string) []Role {
	var expanded []Role
	for _, alias := range aliases {
		if role, ok := aliasTable[alias]; ok {
			expanded = append(expanded, role)
		}
	}
	return expanded
}
