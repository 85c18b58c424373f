package assignment

import (
	"context"
	"time"
)

// Assignment statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Assignment binds a specialist to an accreditation case through a one-time
// token. Only the sha256 hash of the token is persisted.
type Assignment struct {
	ID             string     `json:"id"`
	CaseID         string     `json:"case_id"`
	OrganizationID int64      `json:"organization_id"`
	TokenHash      string     `json:"-"`
	SpecialistID   *int64     `json:"specialist_id,omitempty"`
	Status         string     `json:"status"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CreatedBy      string     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Token is the issued credential handed to the specialist out of band.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Repository defines the interface for assignment persistence.
type Repository interface {
	Create(ctx context.Context, a *Assignment) error
	GetPendingByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*Assignment, error)
	Accept(ctx context.Context, id string, specialistID int64, at time.Time) error
}

// Service issues and redeems specialist assignment tokens.
type Service interface {
	// Issue creates a pending assignment and returns the one-time token
	Issue(ctx context.Context, caseID string, organizationID int64, createdBy string) (*Token, error)

	// Accept redeems a token, binding the specialist to the case
	Accept(ctx context.Context, token string, specialistID int64) (*Assignment, error)
}
