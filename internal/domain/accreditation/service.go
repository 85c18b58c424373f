package accreditation

import "context"

// Service defines the accreditation case lifecycle controller. Transitions
// are validated against the fixed table before any mutation; every committed
// transition records a mandatory audit event.
type Service interface {
	// Create opens a new case in draft for an organization and template
	Create(ctx context.Context, organizationID int64, templateID string, createdBy string) (*Case, error)

	// Transition moves a case to the target status, stamping the
	// conditional lifecycle timestamps
	Transition(ctx context.Context, caseID string, target Status, actor string) (*TransitionResult, error)

	// Get retrieves a case
	Get(ctx context.Context, caseID string) (*Case, error)

	// ListByOrganization lists all cases of one organization
	ListByOrganization(ctx context.Context, organizationID int64) ([]*Case, error)
}
