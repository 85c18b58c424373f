package accreditation

import (
	"context"
	"time"
)

// Status is the lifecycle state of an accreditation case.
type Status string

// Lifecycle states. Rejected and expired are terminal; approved can only
// move to expired.
const (
	StatusDraft                 Status = "draft"
	StatusInProgress            Status = "in_progress"
	StatusSubmitted             Status = "submitted"
	StatusUnderReview           Status = "under_review"
	StatusModificationRequested Status = "modification_requested"
	StatusApproved              Status = "approved"
	StatusRejected              Status = "rejected"
	StatusExpired               Status = "expired"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusSubmitted, StatusUnderReview,
		StatusModificationRequested, StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// AllowedTargets returns the transition targets permitted from a state.
// The table is total over all states; terminal states return nil.
func AllowedTargets(s Status) []Status {
	switch s {
	case StatusDraft:
		return []Status{StatusInProgress, StatusSubmitted}
	case StatusInProgress:
		return []Status{StatusSubmitted}
	case StatusSubmitted:
		return []Status{StatusUnderReview, StatusModificationRequested}
	case StatusUnderReview:
		return []Status{StatusModificationRequested, StatusApproved, StatusRejected}
	case StatusModificationRequested:
		return []Status{StatusInProgress}
	case StatusApproved:
		return []Status{StatusExpired}
	case StatusRejected, StatusExpired:
		return nil
	default:
		return nil
	}
}

// CanTransition reports whether the table allows from -> to.
func CanTransition(from, to Status) bool {
	for _, t := range AllowedTargets(from) {
		if t == to {
			return true
		}
	}
	return false
}

// Case is one certification attempt: a template applied to an organization,
// moved through the regulated lifecycle by validated transitions only.
type Case struct {
	ID                   string     `json:"id"`
	OrganizationID       int64      `json:"organization_id"`
	TemplateID           string     `json:"template_id"`
	AssignedSpecialistID *int64     `json:"assigned_specialist_id,omitempty"`
	Status               Status     `json:"status"`
	SubmittedAt          *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt           *time.Time `json:"reviewed_at,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TransitionResult describes a committed transition.
type TransitionResult struct {
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// Template is the opaque structural definition a case is built from.
type Template struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Schema []byte `json:"-"`
}

// TemplateRegistry supplies template definitions. The core validates only
// that the referenced template exists.
type TemplateRegistry interface {
	GetTemplate(ctx context.Context, id string) (*Template, error)
}
