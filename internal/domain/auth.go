package domain

// Role is the authorization level carried in token claims.
type Role string

const (
	RoleSuperAdmin  Role = "superadmin"
	RoleSchoolAdmin Role = "schoolAdmin"
	RoleTeacher     Role = "teacher"
	RoleStudent     Role = "student"
)

// DefaultRole is the only role self-registration can obtain.
const DefaultRole = RoleStudent

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// CanGrant reports whether a caller holding r may create a user with role
// target. School admins manage teachers and students only.
func (r Role) CanGrant(target Role) bool {
	switch r {
	case RoleSuperAdmin:
		return target.Valid()
	case RoleSchoolAdmin:
		return target == RoleTeacher || target == RoleStudent
	}
	return false
}
