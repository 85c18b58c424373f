package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/domain/indicator"
	"github.com/xbeat/certicredia-sub000/internal/domain/profile"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/scoring"
)

// ProfileRepository implements profile.Repository on database/sql. The
// indicator map, aggregate and metadata are stored as JSON text columns.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, organization_id, indicators, aggregate, metadata,
	created_at, updated_at, last_assessment_at, deleted_at`

// Create persists a new profile. A second active profile for the same
// organization trips the partial unique index and surfaces as a conflict.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) (int64, error) {
	indicators, aggregate, metadata, err := marshalProfile(p)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO compliance_profiles (organization_id, indicators, aggregate, metadata, created_at, updated_at, last_assessment_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		p.OrganizationID, indicators, aggregate, metadata,
		p.CreatedAt, p.UpdatedAt, p.LastAssessmentAt,
	)
	if isUniqueViolation(err) {
		return 0, errors.Conflict("an active compliance profile already exists for this organization")
	}
	if err != nil {
		return 0, errors.DatabaseError("failed to create compliance profile", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.DatabaseError("failed to read generated profile id", err)
	}
	return id, nil
}

// GetActive retrieves the non-deleted profile for an organization
func (r *ProfileRepository) GetActive(ctx context.Context, organizationID int64) (*profile.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM compliance_profiles
		WHERE organization_id = ? AND deleted_at IS NULL
	`, profileColumns)
	return r.getOne(ctx, query, organizationID, "compliance profile")
}

// GetDeleted retrieves the trashed profile for an organization
func (r *ProfileRepository) GetDeleted(ctx context.Context, organizationID int64) (*profile.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM compliance_profiles
		WHERE organization_id = ? AND deleted_at IS NOT NULL
	`, profileColumns)
	return r.getOne(ctx, query, organizationID, "trashed compliance profile")
}

// Update replaces the indicator map and aggregate of the active profile
func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	indicators, aggregate, metadata, err := marshalProfile(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE compliance_profiles
		SET indicators = ?, aggregate = ?, metadata = ?, updated_at = ?, last_assessment_at = ?
		WHERE organization_id = ? AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		indicators, aggregate, metadata, p.UpdatedAt, p.LastAssessmentAt, p.OrganizationID,
	)
	if err != nil {
		return errors.DatabaseError("failed to update compliance profile", err)
	}
	return requireRow(result, "compliance profile")
}

// SoftDelete stamps deleted_at on the active profile
func (r *ProfileRepository) SoftDelete(ctx context.Context, organizationID int64, at time.Time) error {
	query := `
		UPDATE compliance_profiles
		SET deleted_at = ?, updated_at = ?
		WHERE organization_id = ? AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, at, at, organizationID)
	if err != nil {
		return errors.DatabaseError("failed to trash compliance profile", err)
	}
	return requireRow(result, "compliance profile")
}

// Restore clears deleted_at on a trashed profile
func (r *ProfileRepository) Restore(ctx context.Context, organizationID int64) error {
	query := `
		UPDATE compliance_profiles
		SET deleted_at = NULL, updated_at = ?
		WHERE organization_id = ? AND deleted_at IS NOT NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), organizationID)
	if isUniqueViolation(err) {
		return errors.Conflict("an active compliance profile already exists for this organization")
	}
	if err != nil {
		return errors.DatabaseError("failed to restore compliance profile", err)
	}
	return requireRow(result, "trashed compliance profile")
}

// Purge removes the row for good
func (r *ProfileRepository) Purge(ctx context.Context, organizationID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM compliance_profiles WHERE organization_id = ?`, organizationID)
	if err != nil {
		return false, errors.DatabaseError("failed to purge compliance profile", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.DatabaseError("failed to read affected rows", err)
	}
	return affected > 0, nil
}

// ListActive lists non-deleted profiles
func (r *ProfileRepository) ListActive(ctx context.Context, filter profile.Filter) ([]*profile.Profile, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT %s FROM compliance_profiles
		WHERE deleted_at IS NULL
		ORDER BY organization_id
		LIMIT ? OFFSET ?
	`, profileColumns)
	return r.list(ctx, query, limit, filter.Offset)
}

// ListTrashed lists soft-deleted profiles
func (r *ProfileRepository) ListTrashed(ctx context.Context) ([]*profile.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM compliance_profiles
		WHERE deleted_at IS NOT NULL
		ORDER BY organization_id
	`, profileColumns)
	return r.list(ctx, query)
}

// Statistics computes counts, average completion over active profiles and
// the number of profiles updated within the recent window
func (r *ProfileRepository) Statistics(ctx context.Context, recentWindow time.Duration) (*profile.Statistics, error) {
	stats := &profile.Statistics{}
	cutoff := time.Now().UTC().Add(-recentWindow)

	query := `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN deleted_at IS NULL THEN 1 END),
			COUNT(CASE WHEN deleted_at IS NOT NULL THEN 1 END),
			COUNT(CASE WHEN deleted_at IS NULL AND updated_at > ? THEN 1 END)
		FROM compliance_profiles
	`
	err := r.db.QueryRowContext(ctx, query, cutoff).Scan(
		&stats.TotalAll, &stats.TotalActive, &stats.TotalDeleted, &stats.RecentUpdates,
	)
	if err != nil {
		return nil, errors.DatabaseError("failed to compute profile statistics", err)
	}

	if stats.TotalActive > 0 {
		profiles, err := r.list(ctx, fmt.Sprintf(
			`SELECT %s FROM compliance_profiles WHERE deleted_at IS NULL`, profileColumns))
		if err != nil {
			return nil, err
		}
		var sum float64
		for _, p := range profiles {
			if p.Aggregate != nil {
				sum += p.Aggregate.Completion.Percentage
			}
		}
		stats.AvgCompletion = sum / float64(stats.TotalActive)
	}

	return stats, nil
}

func (r *ProfileRepository) getOne(ctx context.Context, query string, organizationID int64, resource string) (*profile.Profile, error) {
	row := r.db.QueryRowContext(ctx, query, organizationID)
	p, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(resource)
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load compliance profile", err)
	}
	return p, nil
}

func (r *ProfileRepository) list(ctx context.Context, query string, args ...interface{}) ([]*profile.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to list compliance profiles", err)
	}
	defer rows.Close()

	result := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan compliance profile", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanProfile(scan func(dest ...interface{}) error) (*profile.Profile, error) {
	p := &profile.Profile{}
	var indicators string
	var aggregate, metadata sql.NullString
	var lastAssessment, deleted sql.NullTime

	err := scan(
		&p.ID, &p.OrganizationID, &indicators, &aggregate, &metadata,
		&p.CreatedAt, &p.UpdatedAt, &lastAssessment, &deleted,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(indicators), &p.Indicators); err != nil {
		return nil, fmt.Errorf("corrupt indicator column: %w", err)
	}
	if aggregate.Valid && aggregate.String != "" {
		p.Aggregate = &scoring.Result{}
		if err := json.Unmarshal([]byte(aggregate.String), p.Aggregate); err != nil {
			return nil, fmt.Errorf("corrupt aggregate column: %w", err)
		}
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &p.Metadata); err != nil {
			return nil, fmt.Errorf("corrupt metadata column: %w", err)
		}
	}
	if lastAssessment.Valid {
		p.LastAssessmentAt = &lastAssessment.Time
	}
	if deleted.Valid {
		p.DeletedAt = &deleted.Time
	}
	return p, nil
}

func marshalProfile(p *profile.Profile) (indicators, aggregate, metadata string, err error) {
	if p.Indicators == nil {
		p.Indicators = make(map[indicator.ID]indicator.Assessment)
	}
	raw, err := json.Marshal(p.Indicators)
	if err != nil {
		return "", "", "", errors.Internal("failed to encode indicator map", err)
	}
	indicators = string(raw)

	if p.Aggregate != nil {
		raw, err = json.Marshal(p.Aggregate)
		if err != nil {
			return "", "", "", errors.Internal("failed to encode aggregate", err)
		}
		aggregate = string(raw)
	}
	if p.Metadata != nil {
		raw, err = json.Marshal(p.Metadata)
		if err != nil {
			return "", "", "", errors.Internal("failed to encode metadata", err)
		}
		metadata = string(raw)
	}
	return indicators, aggregate, metadata, nil
}

func requireRow(result sql.Result, resource string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to read affected rows", err)
	}
	if affected == 0 {
		return errors.NotFound(resource)
	}
	return nil
}
