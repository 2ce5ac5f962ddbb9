package models

// Role tags an identity. Users always carry RoleUser; employees carry
// RoleEmployee or RoleAdmin.
type Role string

const (
	RoleUser     Role = "USER"
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

// IsStaff reports whether the role belongs to an employee account
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}
