package accreditation

import "context"

// Repository defines the interface for accreditation case persistence.
type Repository interface {
	// Create persists a new case in draft
	Create(ctx context.Context, c *Case) error

	// GetByID retrieves a case
	GetByID(ctx context.Context, id string) (*Case, error)

	// UpdateStatus writes the status plus whichever lifecycle timestamps
	// the transition set, guarded on the status the transition was
	// validated against. A concurrent transition that already moved the
	// case away from that status is a conflict.
	UpdateStatus(ctx context.Context, c *Case, from Status) error

	// AssignSpecialist sets the specialist bound to a case
	AssignSpecialist(ctx context.Context, caseID string, specialistID int64) error

	// ListByOrganization lists all cases of one organization
	ListByOrganization(ctx context.Context, organizationID int64) ([]*Case, error)
}
