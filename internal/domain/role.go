package domain

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleHR       Role = "HR"
	RoleAdmin    Role = "Admin"
)

// Roles lists the known roles from least to most privileged.
func Roles() []Role {
	return []Role{RoleEmployee, RoleHR, RoleAdmin}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may act on other users' payroll data.
func (r Role) IsPrivileged() bool {
	return r == RoleHR || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
