package profile

import (
	"time"

	"github.com/xbeat/certicredia-sub000/internal/domain/indicator"
	"github.com/xbeat/certicredia-sub000/internal/scoring"
)

// Profile is one organization's full set of indicator assessments plus the
// derived aggregate. At most one non-deleted profile exists per organization.
type Profile struct {
	ID               int64                                 `json:"id"`
	OrganizationID   int64                                 `json:"organization_id"`
	Indicators       map[indicator.ID]indicator.Assessment `json:"indicators"`
	Aggregate        *scoring.Result                       `json:"aggregate"`
	Metadata         map[string]interface{}                `json:"metadata,omitempty"`
	CreatedAt        time.Time                             `json:"created_at"`
	UpdatedAt        time.Time                             `json:"updated_at"`
	LastAssessmentAt *time.Time                            `json:"last_assessment_at,omitempty"`
	DeletedAt        *time.Time                            `json:"deleted_at,omitempty"`
}

// Deleted reports whether the profile is in the trash.
func (p *Profile) Deleted() bool {
	return p.DeletedAt != nil
}

// Filter bounds active-profile listings.
type Filter struct {
	Limit  int
	Offset int
}

// Statistics is the read-only aggregate over all profiles.
type Statistics struct {
	TotalActive   int     `json:"total_active"`
	TotalDeleted  int     `json:"total_deleted"`
	TotalAll      int     `json:"total_all"`
	AvgCompletion float64 `json:"avg_completion"`
	RecentUpdates int     `json:"recent_updates"`
}
