package postgres

import (
	"context"
	"database/sql"

	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// TemplateRepository implements accreditation.TemplateRegistry. Template
// schemas are opaque text, authored outside this service.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new certification template repository
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetTemplate retrieves a template definition
func (r *TemplateRepository) GetTemplate(ctx context.Context, id string) (*accreditation.Template, error) {
	query := `SELECT id, name, schema FROM certification_templates WHERE id = ?`
	tpl := &accreditation.Template{}
	var schema sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&tpl.ID, &tpl.Name, &schema)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("certification template")
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load certification template", err)
	}
	if schema.Valid {
		tpl.Schema = []byte(schema.String)
	}
	return tpl, nil
}

// Put creates or replaces a template definition
func (r *TemplateRepository) Put(ctx context.Context, tpl *accreditation.Template) error {
	query := `
		INSERT INTO certification_templates (id, name, schema)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, schema = excluded.schema
	`
	_, err := r.db.ExecContext(ctx, query, tpl.ID, tpl.Name, string(tpl.Schema))
	if err != nil {
		return errors.DatabaseError("failed to store certification template", err)
	}
	return nil
}

// ListTemplates returns all template definitions
func (r *TemplateRepository) ListTemplates(ctx context.Context) ([]*accreditation.Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, schema FROM certification_templates ORDER BY id`)
	if err != nil {
		return nil, errors.DatabaseError("failed to list certification templates", err)
	}
	defer rows.Close()

	result := make([]*accreditation.Template, 0)
	for rows.Next() {
		tpl := &accreditation.Template{}
		var schema sql.NullString
		if err := rows.Scan(&tpl.ID, &tpl.Name, &schema); err != nil {
			return nil, errors.DatabaseError("failed to scan certification template", err)
		}
		if schema.Valid {
			tpl.Schema = []byte(schema.String)
		}
		result = append(result, tpl)
	}
	return result, rows.Err()
}
