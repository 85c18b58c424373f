package client

import (
	"encoding/json"
	"time"
)

// Organization is an entry in the organization directory
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

// Assessment is one scored indicator inside a compliance profile
type Assessment struct {
	IndicatorID string          `json:"indicator_id"`
	RawScore    float64         `json:"raw_score"`
	Confidence  float64         `json:"confidence"`
	Evidence    json.RawMessage `json:"evidence,omitempty"`
	Assessor    string          `json:"assessor,omitempty"`
	AssessedAt  time.Time       `json:"assessed_at,omitempty"`
}

// Evaluation is one raw indicator submission. Score accepts either a
// canonical float or a stored bucket value, matching the API contract.
type Evaluation struct {
	RawScore   *float64        `json:"raw_score,omitempty"`
	Value      *int            `json:"value,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
	Evidence   json.RawMessage `json:"evidence,omitempty"`
	Assessor   string          `json:"assessor,omitempty"`
	AssessedAt *time.Time      `json:"assessed_at,omitempty"`
}

// CategoryStats summarizes one of the ten indicator categories
type CategoryStats struct {
	Risk       float64 `json:"risk"`
	Confidence float64 `json:"confidence"`
	Completion float64 `json:"completion"`
	Assessed   int     `json:"assessed"`
	Total      int     `json:"total"`
}

// Completion tracks assessment coverage over the full taxonomy
type Completion struct {
	Percentage         float64 `json:"percentage"`
	AssessedIndicators int     `json:"assessed_indicators"`
}

// SectorBenchmark positions an organization against its industry
type SectorBenchmark struct {
	Percentile    int     `json:"percentile"`
	SectorAverage float64 `json:"sector_average"`
	Gap           float64 `json:"gap"`
}

// FrameworkStatus is readiness against one regulatory framework
type FrameworkStatus struct {
	Status string   `json:"status"`
	Score  int      `json:"score"`
	Gaps   []string `json:"gaps"`
}

// ComplianceBlock groups readiness across the supported frameworks
type ComplianceBlock struct {
	GDPR     FrameworkStatus `json:"gdpr"`
	NIS2     FrameworkStatus `json:"nis2"`
	DORA     FrameworkStatus `json:"dora"`
	ISO27001 FrameworkStatus `json:"iso27001"`
}

// CertificationPath recommends next certifications
type CertificationPath struct {
	CurrentReadiness          int      `json:"current_readiness"`
	RecommendedCertifications []string `json:"recommended_certifications"`
	EstimatedMonths           int      `json:"estimated_months"`
}

// ROIAnalysis estimates the value of closing the assessed gaps
type ROIAnalysis struct {
	RiskReduction     int    `json:"risk_reduction"`
	CostSavingsAnnual int    `json:"cost_savings_annual"`
	ComplianceValue   string `json:"compliance_value"`
}

// MaturityModel is the scored maturity summary of a profile
type MaturityModel struct {
	MaturityLevel      int               `json:"maturity_level"`
	LevelName          string            `json:"level_name"`
	CPFScore           int               `json:"cpf_score"`
	ConvergenceIndex   float64           `json:"convergence_index"`
	GreenDomainsCount  int               `json:"green_domains_count"`
	YellowDomainsCount int               `json:"yellow_domains_count"`
	RedDomainsCount    int               `json:"red_domains_count"`
	SectorBenchmark    SectorBenchmark   `json:"sector_benchmark"`
	Compliance         ComplianceBlock   `json:"compliance"`
	CertificationPath  CertificationPath `json:"certification_path"`
	ROIAnalysis        ROIAnalysis       `json:"roi_analysis"`
}

// AggregateResult is the full derived scoring output of a profile
type AggregateResult struct {
	ByCategory        map[string]CategoryStats `json:"by_category"`
	Completion        Completion               `json:"completion"`
	OverallRisk       float64                  `json:"overall_risk"`
	OverallConfidence float64                  `json:"overall_confidence"`
	MaturityModel     MaturityModel            `json:"maturity_model"`
}

// Profile is an organization's compliance profile
type Profile struct {
	ID               int64                  `json:"id"`
	OrganizationID   int64                  `json:"organization_id"`
	Indicators       map[string]Assessment  `json:"indicators"`
	Aggregate        *AggregateResult       `json:"aggregate"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	LastAssessmentAt *time.Time             `json:"last_assessment_at,omitempty"`
	DeletedAt        *time.Time             `json:"deleted_at,omitempty"`
}

// ProfileStatistics is the cross-organization profile summary
type ProfileStatistics struct {
	TotalActive   int     `json:"total_active"`
	TotalDeleted  int     `json:"total_deleted"`
	TotalAll      int     `json:"total_all"`
	AvgCompletion float64 `json:"avg_completion"`
	RecentUpdates int     `json:"recent_updates"`
}

// Case is an accreditation case
type Case struct {
	ID                   string     `json:"id"`
	OrganizationID       int64      `json:"organization_id"`
	TemplateID           string     `json:"template_id"`
	AssignedSpecialistID *int64     `json:"assigned_specialist_id,omitempty"`
	Status               string     `json:"status"`
	SubmittedAt          *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt           *time.Time `json:"reviewed_at,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TransitionResult reports a committed case status change
type TransitionResult struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// AssignmentToken is a one-time specialist assignment credential.
// The plaintext token is only ever returned at issue time.
type AssignmentToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Assignment is a specialist assignment bound to a case
type Assignment struct {
	ID             string     `json:"id"`
	CaseID         string     `json:"case_id"`
	OrganizationID int64      `json:"organization_id"`
	SpecialistID   *int64     `json:"specialist_id,omitempty"`
	Status         string     `json:"status"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CreatedBy      string     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AuditEvent is one entry of an organization's audit trail
type AuditEvent struct {
	ID             string      `json:"id,omitempty"`
	Actor          string      `json:"actor,omitempty"`
	OrganizationID int64       `json:"organization_id,omitempty"`
	Action         string      `json:"action"`
	EntityType     string      `json:"entity_type"`
	EntityID       string      `json:"entity_id"`
	OldValue       interface{} `json:"old_value,omitempty"`
	NewValue       interface{} `json:"new_value,omitempty"`
	RecordedAt     time.Time   `json:"recorded_at,omitempty"`
}
