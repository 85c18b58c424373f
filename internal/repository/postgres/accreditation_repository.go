package postgres

import (
	"context"
	"database/sql"

	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// AccreditationRepository implements accreditation.Repository
type AccreditationRepository struct {
	db *sql.DB
}

// NewAccreditationRepository creates a new accreditation case repository
func NewAccreditationRepository(db *sql.DB) *AccreditationRepository {
	return &AccreditationRepository{db: db}
}

const caseColumns = `id, organization_id, template_id, assigned_specialist_id, status,
	submitted_at, reviewed_at, approved_at, expires_at, created_at, updated_at`

// Create persists a new case in draft
func (r *AccreditationRepository) Create(ctx context.Context, c *accreditation.Case) error {
	query := `
		INSERT INTO accreditation_cases (id, organization_id, template_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.OrganizationID, c.TemplateID, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to create accreditation case", err)
	}
	return nil
}

// GetByID retrieves a case
func (r *AccreditationRepository) GetByID(ctx context.Context, id string) (*accreditation.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM accreditation_cases WHERE id = ?`
	c, err := scanCase(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("accreditation case")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load accreditation case", err)
	}
	return c, nil
}

// UpdateStatus writes the status plus whichever lifecycle timestamps the
// transition set. The status guard keeps a stale transition from
// overwriting one committed in between.
func (r *AccreditationRepository) UpdateStatus(ctx context.Context, c *accreditation.Case, from accreditation.Status) error {
	query := `
		UPDATE accreditation_cases
		SET status = ?, submitted_at = ?, reviewed_at = ?, approved_at = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		c.Status, c.SubmittedAt, c.ReviewedAt, c.ApprovedAt, c.ExpiresAt, c.UpdatedAt, c.ID, from,
	)
	if err != nil {
		return errors.DatabaseError("failed to update accreditation case", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to read affected rows", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
		return errors.Conflict("accreditation case was changed by a concurrent transition")
	}
	return nil
}

// AssignSpecialist sets the specialist bound to a case
func (r *AccreditationRepository) AssignSpecialist(ctx context.Context, caseID string, specialistID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accreditation_cases SET assigned_specialist_id = ? WHERE id = ?`,
		specialistID, caseID,
	)
	if err != nil {
		return errors.DatabaseError("failed to assign specialist", err)
	}
	return requireRow(result, "accreditation case")
}

// ListByOrganization lists all cases of one organization
func (r *AccreditationRepository) ListByOrganization(ctx context.Context, organizationID int64) ([]*accreditation.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM accreditation_cases
		WHERE organization_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, errors.DatabaseError("failed to list accreditation cases", err)
	}
	defer rows.Close()

	result := make([]*accreditation.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows.Scan)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan accreditation case", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func scanCase(scan func(dest ...interface{}) error) (*accreditation.Case, error) {
	c := &accreditation.Case{}
	var specialist sql.NullInt64
	var submitted, reviewed, approved, expires sql.NullTime

	err := scan(
		&c.ID, &c.OrganizationID, &c.TemplateID, &specialist, &c.Status,
		&submitted, &reviewed, &approved, &expires, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if specialist.Valid {
		c.AssignedSpecialistID = &specialist.Int64
	}
	if submitted.Valid {
		c.SubmittedAt = &submitted.Time
	}
	if reviewed.Valid {
		c.ReviewedAt = &reviewed.Time
	}
	if approved.Valid {
		c.ApprovedAt = &approved.Time
	}
	if expires.Valid {
		c.ExpiresAt = &expires.Time
	}
	return c, nil
}
