package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"    // Organization owner - full access
	RoleAdmin    Role = "admin"    // Can manage settings and review timesheets
	RoleManager  Role = "manager"  // Can review timesheets and attendance
	RoleEmployee Role = "employee" // Regular employee
)

// IsReviewer reports whether the role may review timesheets and amended
// clock entries.
func (r Role) IsReviewer() bool {
	return r == RoleManager || r == RoleAdmin || r == RoleOwner
}

type User struct {
	ID             string
	OrganizationID string
	Email          string
	FullName       string
	Role           Role
	LocationID     *string

	// Per-employee overrides; nil means "defer to the organization default".
	AllowTimeEdit       *bool
	AutoClockOutEnabled *bool
	AutoClockOutTime    *string // wall-clock "HH:MM"

	CreatedAt time.Time
	UpdatedAt time.Time
}
