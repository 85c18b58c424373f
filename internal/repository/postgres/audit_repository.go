package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/xbeat/certicredia-sub000/internal/domain/audit"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// AuditRepository implements audit.Sink. Entries are append-only.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit trail repository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record appends one audit event
func (r *AuditRepository) Record(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now().UTC()
	}

	oldValue, err := encodeValue(event.OldValue)
	if err != nil {
		return err
	}
	newValue, err := encodeValue(event.NewValue)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO audit_events (id, actor, organization_id, action, entity_type, entity_id, old_value, new_value, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Actor, event.OrganizationID, event.Action,
		event.EntityType, event.EntityID, oldValue, newValue, event.RecordedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to record audit event", err)
	}
	return nil
}

// ListByOrganization returns the audit trail of one organization, newest
// first
func (r *AuditRepository) ListByOrganization(ctx context.Context, organizationID int64, limit int) ([]*audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, actor, organization_id, action, entity_type, entity_id, old_value, new_value, recorded_at
		FROM audit_events
		WHERE organization_id = ?
		ORDER BY recorded_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID, limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to list audit events", err)
	}
	defer rows.Close()

	result := make([]*audit.Event, 0)
	for rows.Next() {
		e := &audit.Event{}
		var oldValue, newValue sql.NullString
		err := rows.Scan(
			&e.ID, &e.Actor, &e.OrganizationID, &e.Action,
			&e.EntityType, &e.EntityID, &oldValue, &newValue, &e.RecordedAt,
		)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan audit event", err)
		}
		e.OldValue = decodeValue(oldValue)
		e.NewValue = decodeValue(newValue)
		result = append(result, e)
	}
	return result, rows.Err()
}

func encodeValue(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, errors.Internal("failed to encode audit value", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeValue(v sql.NullString) interface{} {
	if !v.Valid || v.String == "" {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return v.String
	}
	return out
}
