package user

import "context"

// Repository defines data access for users. All methods take organizationID
// to keep reads tenant-scoped.
type Repository interface {
	// GetByID retrieves a user within an organization.
	GetByID(ctx context.Context, id string, organizationID string) (User, error)

	// ListReviewers returns every manager, admin, and owner of an organization.
	ListReviewers(ctx context.Context, organizationID string) ([]User, error)
}
