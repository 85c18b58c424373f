package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/domain/organization"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// OrganizationRepository implements organization.Directory
type OrganizationRepository struct {
	db *sql.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// GetOrganization retrieves one organization by id
func (r *OrganizationRepository) GetOrganization(ctx context.Context, id int64) (*organization.Organization, error) {
	query := `
		SELECT id, name, industry, size, country, metadata, created_at, updated_at
		FROM organizations
		WHERE id = ?
	`
	org := &organization.Organization{}
	var metadata sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Industry, &org.Size, &org.Country,
		&metadata, &org.CreatedAt, &org.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("organization")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load organization", err)
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &org.Metadata); err != nil {
			return nil, errors.Internal("corrupt organization metadata", err)
		}
	}
	return org, nil
}

// Upsert creates or replaces an organization record. The directory is fed
// by the surrounding platform; ids are assigned externally.
func (r *OrganizationRepository) Upsert(ctx context.Context, org *organization.Organization) error {
	var metadata sql.NullString
	if org.Metadata != nil {
		raw, err := json.Marshal(org.Metadata)
		if err != nil {
			return errors.Internal("failed to encode organization metadata", err)
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now

	query := `
		INSERT INTO organizations (id, name, industry, size, country, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			size = excluded.size,
			country = excluded.country,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		org.ID, org.Name, org.Industry, org.Size, org.Country,
		metadata, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to upsert organization", err)
	}
	return nil
}

// List returns all known organizations
func (r *OrganizationRepository) List(ctx context.Context) ([]*organization.Organization, error) {
	query := `
		SELECT id, name, industry, size, country, metadata, created_at, updated_at
		FROM organizations
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.DatabaseError("failed to list organizations", err)
	}
	defer rows.Close()

	result := make([]*organization.Organization, 0)
	for rows.Next() {
		org := &organization.Organization{}
		var metadata sql.NullString
		err := rows.Scan(
			&org.ID, &org.Name, &org.Industry, &org.Size, &org.Country,
			&metadata, &org.CreatedAt, &org.UpdatedAt,
		)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan organization", err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &org.Metadata); err != nil {
				return nil, errors.Internal("corrupt organization metadata", err)
			}
		}
		result = append(result, org)
	}
	return result, rows.Err()
}
