package domain

import "fmt"

// Role enumerates the principal kinds the product distinguishes.
type Role string

const (
	RoleUser       Role = "user"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
)

// ParseRole maps a raw claim value onto the closed role set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser:
		return RoleUser, nil
	case RoleAccountant:
		return RoleAccountant, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Dashboard identifies the role-specific landing view.
type Dashboard string

const (
	DashboardUser       Dashboard = "user_dashboard"
	DashboardAccountant Dashboard = "accountant_dashboard"
	DashboardAdmin      Dashboard = "admin_dashboard"
)

// DashboardFor selects the landing view for a role. The switch is
// exhaustive over the closed role set so a new role cannot silently
// fall through to another role's dashboard.
func DashboardFor(r Role) (Dashboard, error) {
	switch r {
	case RoleUser:
		return DashboardUser, nil
	case RoleAccountant:
		return DashboardAccountant, nil
	case RoleAdmin:
		return DashboardAdmin, nil
	default:
		return "", fmt.Errorf("no dashboard for role %q", r)
	}
}
