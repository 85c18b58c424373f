package postgres

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist. The statements are
// shared between sqlite and postgres except for the generated profile id.
func Migrate(db *sql.DB, driver string) error {
	profileID := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		profileID = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			industry TEXT NOT NULL DEFAULT '',
			size TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			metadata TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS compliance_profiles (
			id %s,
			organization_id INTEGER NOT NULL,
			indicators TEXT NOT NULL,
			aggregate TEXT,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			last_assessment_at TIMESTAMP,
			deleted_at TIMESTAMP
		)`, profileID),
		`CREATE INDEX IF NOT EXISTS idx_profiles_org ON compliance_profiles(organization_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_active_org
			ON compliance_profiles(organization_id) WHERE deleted_at IS NULL`,
		`CREATE TABLE IF NOT EXISTS certification_templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			schema TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS accreditation_cases (
			id TEXT PRIMARY KEY,
			organization_id INTEGER NOT NULL,
			template_id TEXT NOT NULL,
			assigned_specialist_id INTEGER,
			status TEXT NOT NULL,
			submitted_at TIMESTAMP,
			reviewed_at TIMESTAMP,
			approved_at TIMESTAMP,
			expires_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_org ON accreditation_cases(organization_id)`,
		`CREATE TABLE IF NOT EXISTS specialist_assignments (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL,
			organization_id INTEGER NOT NULL,
			token_hash TEXT NOT NULL,
			specialist_id INTEGER,
			status TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			accepted_at TIMESTAMP,
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_hash ON specialist_assignments(token_hash)`,
		`CREATE TABLE IF NOT EXISTS audit_events (
			id TEXT PRIMARY KEY,
			actor TEXT NOT NULL DEFAULT '',
			organization_id INTEGER,
			action TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			old_value TEXT,
			new_value TEXT,
			recorded_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_org ON audit_events(organization_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
