package organization

import (
	"context"
	"time"
)

// Organization is the external entity a compliance profile belongs to.
// Industry supplies the sector key for the benchmark calculation.
type Organization struct {
	ID        int64                  `json:"id"`
	Name      string                 `json:"name"`
	Industry  string                 `json:"industry"`
	Size      string                 `json:"size,omitempty"`
	Country   string                 `json:"country,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Directory resolves organizations by id.
type Directory interface {
	GetOrganization(ctx context.Context, id int64) (*Organization, error)
}
