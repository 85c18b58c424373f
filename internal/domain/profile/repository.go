package profile

import (
	"context"
	"time"
)

// Repository defines the interface for compliance profile persistence.
// Mutations execute inside one store transaction each.
type Repository interface {
	// Create persists a new profile; the caller guarantees the aggregate
	// has been computed from the indicator map. A second active profile
	// for the same organization is a conflict, even under concurrency.
	Create(ctx context.Context, p *Profile) (int64, error)

	// GetActive retrieves the non-deleted profile for an organization
	GetActive(ctx context.Context, organizationID int64) (*Profile, error)

	// GetDeleted retrieves the trashed profile for an organization
	GetDeleted(ctx context.Context, organizationID int64) (*Profile, error)

	// Update replaces the indicator map and aggregate of the active profile
	Update(ctx context.Context, p *Profile) error

	// SoftDelete stamps deleted_at on the active profile
	SoftDelete(ctx context.Context, organizationID int64, at time.Time) error

	// Restore clears deleted_at on a trashed profile; restoring while an
	// active profile exists for the organization is a conflict
	Restore(ctx context.Context, organizationID int64) error

	// Purge removes the row for good; reports whether a row was removed
	Purge(ctx context.Context, organizationID int64) (bool, error)

	// ListActive lists non-deleted profiles
	ListActive(ctx context.Context, filter Filter) ([]*Profile, error)

	// ListTrashed lists soft-deleted profiles
	ListTrashed(ctx context.Context) ([]*Profile, error)

	// Statistics computes counts, average completion and the number of
	// profiles updated within the recent window
	Statistics(ctx context.Context, recentWindow time.Duration) (*Statistics, error)
}
