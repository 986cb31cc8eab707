package settings

import (
	"time"
)

// OrganizationSettings is the fully-resolved time clock configuration for one
// tenant. The core reads it; ownership (editing, persistence shape) belongs to
// an external settings collaborator.
type OrganizationSettings struct {
	OrganizationID             string
	Timezone                   string
	OvertimeThresholdHours     float64
	NotifyOnOvertime           bool
	AutoClockOutEnabled        bool
	AutoClockOutHours          float64
	AllowManualTimeEntry       bool
	RequireNotesForManualEntry bool
	RequireShiftForClockIn     bool
	EarlyClockInWindowMinutes  int
	LateClockInWindowMinutes   int
}

// UserOverride carries the per-employee fields that take precedence over the
// organization defaults when present. A nil field defers to the organization.
type UserOverride struct {
	UserID              string
	AllowTimeEdit       *bool
	AutoClockOutEnabled *bool
	AutoClockOutTime    *string // wall-clock "HH:MM"
}

// Defaults returns the built-in configuration used when an organization has no
// stored settings row. A missing row is a recoverable condition, not an error.
func Defaults(organizationID string) OrganizationSettings {
	return OrganizationSettings{
		OrganizationID:             organizationID,
		Timezone:                   "UTC",
		OvertimeThresholdHours:     8,
		NotifyOnOvertime:           true,
		AutoClockOutEnabled:        false,
		AutoClockOutHours:          12,
		AllowManualTimeEntry:       false,
		RequireNotesForManualEntry: true,
		RequireShiftForClockIn:     false,
		EarlyClockInWindowMinutes:  60,
		LateClockInWindowMinutes:   60,
	}
}

// Location loads the organization's local timezone, falling back to UTC when
// the stored zone name does not resolve.
func (s OrganizationSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ResolveAllowTimeEdit resolves manual-entry permission: user override first,
// organization default second.
func ResolveAllowTimeEdit(override *UserOverride, org OrganizationSettings) bool {
	if override != nil && override.AllowTimeEdit != nil {
		return *override.AllowTimeEdit
	}
	return org.AllowManualTimeEntry
}

// AutoClockOutDecision is the outcome of the three-tier auto clock-out
// resolution for one user.
type AutoClockOutDecision struct {
	Enabled bool
	// WallClockTime, when set, wins over DurationHours: the session closes at
	// the next occurrence of this local time on/after the open clock-in.
	WallClockTime *string
	DurationHours float64
}

// ResolveAutoClockOut resolves the auto clock-out policy for a user: explicit
// user override first, organization default second, built-in default last.
func ResolveAutoClockOut(override *UserOverride, org OrganizationSettings) AutoClockOutDecision {
	if override != nil {
		if override.AutoClockOutTime != nil {
			return AutoClockOutDecision{Enabled: true, WallClockTime: override.AutoClockOutTime}
		}
		if override.AutoClockOutEnabled != nil && !*override.AutoClockOutEnabled {
			return AutoClockOutDecision{Enabled: false}
		}
	}
	return AutoClockOutDecision{
		Enabled:       org.AutoClockOutEnabled,
		DurationHours: org.AutoClockOutHours,
	}
}
