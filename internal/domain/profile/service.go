package profile

import (
	"context"

	"github.com/xbeat/certicredia-sub000/internal/domain/indicator"
)

// Service defines the business logic for compliance profile management.
// Every mutation recomputes the aggregate and records a mandatory audit
// event; an audit failure surfaces as an operation failure.
type Service interface {
	// Create creates the profile for an organization; fails with Conflict
	// if an active profile already exists
	Create(ctx context.Context, organizationID int64, entries map[string]indicator.Evaluation, metadata map[string]interface{}) (*Profile, error)

	// Update replaces the full indicator map of the active profile and
	// recomputes the aggregate with the organization's sector
	Update(ctx context.Context, organizationID int64, entries map[string]indicator.Evaluation) (*Profile, error)

	// SoftDelete moves the active profile to the trash
	SoftDelete(ctx context.Context, organizationID int64) (*Profile, error)

	// Restore brings a trashed profile back; fails NotFound if the
	// organization has no deleted profile
	Restore(ctx context.Context, organizationID int64) (*Profile, error)

	// Purge irreversibly removes the profile; reports whether a row existed
	Purge(ctx context.Context, organizationID int64) (bool, error)

	// Get retrieves the active profile for an organization
	Get(ctx context.Context, organizationID int64) (*Profile, error)

	// ListActive lists non-deleted profiles
	ListActive(ctx context.Context, filter Filter) ([]*Profile, error)

	// ListTrashed lists soft-deleted profiles
	ListTrashed(ctx context.Context) ([]*Profile, error)

	// Statistics returns the read-only aggregate over all profiles
	Statistics(ctx context.Context) (*Statistics, error)
}
