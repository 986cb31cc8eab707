package settings

import "context"

// Repository reads tenant configuration. The core never writes settings.
type Repository interface {
	// GetOrganizationSettings returns the stored settings for an organization,
	// or Defaults(organizationID) when no row exists.
	GetOrganizationSettings(ctx context.Context, organizationID string) (OrganizationSettings, error)

	// GetUserOverride returns the per-employee override fields, or nil when
	// the user carries no overrides.
	GetUserOverride(ctx context.Context, organizationID string, userID string) (*UserOverride, error)

	// ListAutoClockOutOrganizations returns the settings of every organization
	// with auto clock-out enabled.
	ListAutoClockOutOrganizations(ctx context.Context) ([]OrganizationSettings, error)
}
