package testutil

import (
	"context"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/domain/assignment"
	"github.com/xbeat/certicredia-sub000/internal/domain/audit"
	"github.com/xbeat/certicredia-sub000/internal/domain/organization"
	"github.com/xbeat/certicredia-sub000/internal/domain/profile"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// MockProfileRepository is an in-memory implementation of profile.Repository
type MockProfileRepository struct {
	Profiles  map[int64]*profile.Profile
	NextID    int64
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewMockProfileRepository creates a new mock profile repository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[int64]*profile.Profile),
		NextID:   1,
	}
}

func (m *MockProfileRepository) Create(ctx context.Context, p *profile.Profile) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	if existing, ok := m.Profiles[p.OrganizationID]; ok && !existing.Deleted() {
		return 0, errors.Conflict("an active compliance profile already exists for this organization")
	}
	p.ID = m.NextID
	m.NextID++
	m.Profiles[p.OrganizationID] = p
	return p.ID, nil
}

func (m *MockProfileRepository) GetActive(ctx context.Context, organizationID int64) (*profile.Profile, error) {
	p, ok := m.Profiles[organizationID]
	if !ok || p.Deleted() {
		return nil, errors.NotFound("compliance profile")
	}
	return p, nil
}

func (m *MockProfileRepository) GetDeleted(ctx context.Context, organizationID int64) (*profile.Profile, error) {
	p, ok := m.Profiles[organizationID]
	if !ok || !p.Deleted() {
		return nil, errors.NotFound("trashed compliance profile")
	}
	return p, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	existing, ok := m.Profiles[p.OrganizationID]
	if !ok || existing.Deleted() {
		return errors.NotFound("compliance profile")
	}
	m.Profiles[p.OrganizationID] = p
	return nil
}

func (m *MockProfileRepository) SoftDelete(ctx context.Context, organizationID int64, at time.Time) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	p, ok := m.Profiles[organizationID]
	if !ok || p.Deleted() {
		return errors.NotFound("compliance profile")
	}
	p.DeletedAt = &at
	return nil
}

func (m *MockProfileRepository) Restore(ctx context.Context, organizationID int64) error {
	p, ok := m.Profiles[organizationID]
	if !ok || !p.Deleted() {
		return errors.NotFound("trashed compliance profile")
	}
	p.DeletedAt = nil
	return nil
}

func (m *MockProfileRepository) Purge(ctx context.Context, organizationID int64) (bool, error) {
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	_, ok := m.Profiles[organizationID]
	delete(m.Profiles, organizationID)
	return ok, nil
}

func (m *MockProfileRepository) ListActive(ctx context.Context, filter profile.Filter) ([]*profile.Profile, error) {
	result := make([]*profile.Profile, 0)
	for _, p := range m.Profiles {
		if !p.Deleted() {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockProfileRepository) ListTrashed(ctx context.Context) ([]*profile.Profile, error) {
	result := make([]*profile.Profile, 0)
	for _, p := range m.Profiles {
		if p.Deleted() {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockProfileRepository) Statistics(ctx context.Context, recentWindow time.Duration) (*profile.Statistics, error) {
	stats := &profile.Statistics{}
	cutoff := time.Now().UTC().Add(-recentWindow)
	var completionSum float64
	for _, p := range m.Profiles {
		stats.TotalAll++
		if p.Deleted() {
			stats.TotalDeleted++
			continue
		}
		stats.TotalActive++
		if p.Aggregate != nil {
			completionSum += p.Aggregate.Completion.Percentage
		}
		if p.UpdatedAt.After(cutoff) {
			stats.RecentUpdates++
		}
	}
	if stats.TotalActive > 0 {
		stats.AvgCompletion = completionSum / float64(stats.TotalActive)
	}
	return stats, nil
}

// MockAccreditationRepository is an in-memory implementation of
// accreditation.Repository
type MockAccreditationRepository struct {
	Cases     map[string]*accreditation.Case
	CreateErr error
	UpdateErr error
}

// NewMockAccreditationRepository creates a new mock case repository
func NewMockAccreditationRepository() *MockAccreditationRepository {
	return &MockAccreditationRepository{
		Cases: make(map[string]*accreditation.Case),
	}
}

func (m *MockAccreditationRepository) Create(ctx context.Context, c *accreditation.Case) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	stored := *c
	m.Cases[c.ID] = &stored
	return nil
}

func (m *MockAccreditationRepository) GetByID(ctx context.Context, id string) (*accreditation.Case, error) {
	c, ok := m.Cases[id]
	if !ok {
		return nil, errors.NotFound("accreditation case")
	}
	copied := *c
	return &copied, nil
}

func (m *MockAccreditationRepository) UpdateStatus(ctx context.Context, c *accreditation.Case, from accreditation.Status) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	existing, ok := m.Cases[c.ID]
	if !ok {
		return errors.NotFound("accreditation case")
	}
	if existing.Status != from {
		return errors.Conflict("accreditation case was changed by a concurrent transition")
	}
	stored := *c
	m.Cases[c.ID] = &stored
	return nil
}

func (m *MockAccreditationRepository) AssignSpecialist(ctx context.Context, caseID string, specialistID int64) error {
	c, ok := m.Cases[caseID]
	if !ok {
		return errors.NotFound("accreditation case")
	}
	c.AssignedSpecialistID = &specialistID
	return nil
}

func (m *MockAccreditationRepository) ListByOrganization(ctx context.Context, organizationID int64) ([]*accreditation.Case, error) {
	result := make([]*accreditation.Case, 0)
	for _, c := range m.Cases {
		if c.OrganizationID == organizationID {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}

// MockAssignmentRepository is an in-memory implementation of
// assignment.Repository
type MockAssignmentRepository struct {
	Assignments map[string]*assignment.Assignment
	CreateErr   error
}

// NewMockAssignmentRepository creates a new mock assignment repository
func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{
		Assignments: make(map[string]*assignment.Assignment),
	}
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	stored := *a
	m.Assignments[a.ID] = &stored
	return nil
}

func (m *MockAssignmentRepository) GetPendingByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*assignment.Assignment, error) {
	for _, a := range m.Assignments {
		if a.TokenHash == tokenHash && a.Status == assignment.StatusPending && a.ExpiresAt.After(now) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, errors.NotFound("assignment")
}

func (m *MockAssignmentRepository) Accept(ctx context.Context, id string, specialistID int64, at time.Time) error {
	a, ok := m.Assignments[id]
	if !ok {
		return errors.NotFound("assignment")
	}
	a.Status = assignment.StatusAccepted
	a.SpecialistID = &specialistID
	a.AcceptedAt = &at
	return nil
}

// MockAuditSink collects audit events in memory
type MockAuditSink struct {
	Events    []audit.Event
	RecordErr error
}

// NewMockAuditSink creates a new mock audit sink
func NewMockAuditSink() *MockAuditSink {
	return &MockAuditSink{}
}

func (m *MockAuditSink) Record(ctx context.Context, event audit.Event) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	event.RecordedAt = time.Now().UTC()
	m.Events = append(m.Events, event)
	return nil
}

// LastEvent returns the most recently recorded event, or nil
func (m *MockAuditSink) LastEvent() *audit.Event {
	if len(m.Events) == 0 {
		return nil
	}
	return &m.Events[len(m.Events)-1]
}

// MockDirectory is an in-memory implementation of organization.Directory
type MockDirectory struct {
	Organizations map[int64]*organization.Organization
}

// NewMockDirectory creates a new mock organization directory
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		Organizations: make(map[int64]*organization.Organization),
	}
}

func (m *MockDirectory) GetOrganization(ctx context.Context, id int64) (*organization.Organization, error) {
	org, ok := m.Organizations[id]
	if !ok {
		return nil, errors.NotFound("organization")
	}
	return org, nil
}

// MockTemplateRegistry is an in-memory implementation of
// accreditation.TemplateRegistry
type MockTemplateRegistry struct {
	Templates map[string]*accreditation.Template
}

// NewMockTemplateRegistry creates a new mock template registry
func NewMockTemplateRegistry() *MockTemplateRegistry {
	return &MockTemplateRegistry{
		Templates: make(map[string]*accreditation.Template),
	}
}

func (m *MockTemplateRegistry) GetTemplate(ctx context.Context, id string) (*accreditation.Template, error) {
	tpl, ok := m.Templates[id]
	if !ok {
		return nil, errors.NotFound("certification template")
	}
	return tpl, nil
}
