package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/domain/assignment"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// AssignmentRepository implements assignment.Repository
type AssignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new specialist assignment repository
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create persists a pending assignment
func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	query := `
		INSERT INTO specialist_assignments (id, case_id, organization_id, token_hash, status, expires_at, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.CaseID, a.OrganizationID, a.TokenHash, a.Status,
		a.ExpiresAt, a.CreatedBy, a.CreatedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to create specialist assignment", err)
	}
	return nil
}

// GetPendingByTokenHash finds the unexpired pending assignment for a token
// hash
func (r *AssignmentRepository) GetPendingByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*assignment.Assignment, error) {
	query := `
		SELECT id, case_id, organization_id, token_hash, specialist_id, status, expires_at, accepted_at, created_by, created_at
		FROM specialist_assignments
		WHERE token_hash = ? AND status = ? AND expires_at > ?
	`
	a := &assignment.Assignment{}
	var specialist sql.NullInt64
	var accepted sql.NullTime
	err := r.db.QueryRowContext(ctx, query, tokenHash, assignment.StatusPending, now).Scan(
		&a.ID, &a.CaseID, &a.OrganizationID, &a.TokenHash, &specialist,
		&a.Status, &a.ExpiresAt, &accepted, &a.CreatedBy, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("assignment")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load specialist assignment", err)
	}
	if specialist.Valid {
		a.SpecialistID = &specialist.Int64
	}
	if accepted.Valid {
		a.AcceptedAt = &accepted.Time
	}
	return a, nil
}

// Accept marks a pending assignment accepted by a specialist
func (r *AssignmentRepository) Accept(ctx context.Context, id string, specialistID int64, at time.Time) error {
	query := `
		UPDATE specialist_assignments
		SET status = ?, specialist_id = ?, accepted_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		assignment.StatusAccepted, specialistID, at, id, assignment.StatusPending,
	)
	if err != nil {
		return errors.DatabaseError("failed to accept specialist assignment", err)
	}
	return requireRow(result, "assignment")
}
