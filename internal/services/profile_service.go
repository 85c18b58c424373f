package services

import (
	"context"
	"strconv"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/domain/audit"
	"github.com/xbeat/certicredia-sub000/internal/domain/indicator"
	"github.com/xbeat/certicredia-sub000/internal/domain/organization"
	"github.com/xbeat/certicredia-sub000/internal/domain/profile"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/pkg/metrics"
	"github.com/xbeat/certicredia-sub000/internal/scoring"
)

// ProfileService implements profile.Service. The aggregate is recomputed
// from the indicator map on every write; the audit write is mandatory and
// its failure surfaces to the caller.
type ProfileService struct {
	repo         profile.Repository
	orgs         organization.Directory
	audits       audit.Sink
	engine       *scoring.Engine
	recentWindow time.Duration
	logger       *logger.Logger
}

// NewProfileService creates a new compliance profile service
func NewProfileService(
	repo profile.Repository,
	orgs organization.Directory,
	audits audit.Sink,
	engine *scoring.Engine,
	recentWindow time.Duration,
	log *logger.Logger,
) profile.Service {
	return &ProfileService{
		repo:         repo,
		orgs:         orgs,
		audits:       audits,
		engine:       engine,
		recentWindow: recentWindow,
		logger:       log,
	}
}

// Create creates the profile for an organization
func (s *ProfileService) Create(ctx context.Context, organizationID int64, entries map[string]indicator.Evaluation, metadata map[string]interface{}) (*profile.Profile, error) {
	org, err := s.requireOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetActive(ctx, organizationID); err == nil {
		return nil, errors.Conflict("an active compliance profile already exists for this organization")
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		return nil, err
	}

	normalized, err := indicator.NormalizeAll(entries)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &profile.Profile{
		OrganizationID:   organizationID,
		Indicators:       normalized,
		Aggregate:        s.aggregate(normalized, org.Industry),
		Metadata:         metadata,
		CreatedAt:        now,
		UpdatedAt:        now,
		LastAssessmentAt: &now,
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create compliance profile")
		return nil, err
	}
	p.ID = id

	if err := s.record(ctx, audit.Event{
		OrganizationID: organizationID,
		Action:         audit.ActionProfileCreated,
		EntityType:     "compliance_profile",
		EntityID:       strconv.FormatInt(id, 10),
		NewValue:       map[string]interface{}{"cpf_score": p.Aggregate.MaturityModel.CPFScore},
	}); err != nil {
		return nil, err
	}

	metrics.RecordProfileMutation("create")
	s.logger.WithFields(map[string]interface{}{
		"organization_id": organizationID,
		"profile_id":      id,
		"assessed":        p.Aggregate.Completion.AssessedIndicators,
	}).Info("Compliance profile created")

	return p, nil
}

// Update replaces the full indicator map of the active profile
func (s *ProfileService) Update(ctx context.Context, organizationID int64, entries map[string]indicator.Evaluation) (*profile.Profile, error) {
	org, err := s.requireOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetActive(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	normalized, err := indicator.NormalizeAll(entries)
	if err != nil {
		return nil, err
	}

	oldScore := p.Aggregate.MaturityModel.CPFScore

	now := time.Now().UTC()
	p.Indicators = normalized
	p.Aggregate = s.aggregate(normalized, org.Industry)
	p.UpdatedAt = now
	p.LastAssessmentAt = &now

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update compliance profile")
		return nil, err
	}

	if err := s.record(ctx, audit.Event{
		OrganizationID: organizationID,
		Action:         audit.ActionProfileUpdated,
		EntityType:     "compliance_profile",
		EntityID:       strconv.FormatInt(p.ID, 10),
		OldValue:       map[string]interface{}{"cpf_score": oldScore},
		NewValue:       map[string]interface{}{"cpf_score": p.Aggregate.MaturityModel.CPFScore},
	}); err != nil {
		return nil, err
	}

	metrics.RecordProfileMutation("update")
	s.logger.WithFields(map[string]interface{}{
		"organization_id": organizationID,
		"cpf_score":       p.Aggregate.MaturityModel.CPFScore,
	}).Info("Compliance profile updated")

	return p, nil
}

// SoftDelete moves the active profile to the trash
func (s *ProfileService) SoftDelete(ctx context.Context, organizationID int64) (*profile.Profile, error) {
	p, err := s.repo.GetActive(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.SoftDelete(ctx, organizationID, now); err != nil {
		return nil, err
	}
	p.DeletedAt = &now

	if err := s.record(ctx, audit.Event{
		OrganizationID: organizationID,
		Action:         audit.ActionProfileTrashed,
		EntityType:     "compliance_profile",
		EntityID:       strconv.FormatInt(p.ID, 10),
	}); err != nil {
		return nil, err
	}

	metrics.RecordProfileMutation("soft_delete")
	s.logger.WithFields(map[string]interface{}{
		"organization_id": organizationID,
	}).Info("Compliance profile moved to trash")

	return p, nil
}

// Restore brings a trashed profile back
func (s *ProfileService) Restore(ctx context.Context, organizationID int64) (*profile.Profile, error) {
	if _, err := s.repo.GetDeleted(ctx, organizationID); err != nil {
		return nil, err
	}

	if err := s.repo.Restore(ctx, organizationID); err != nil {
		return nil, err
	}

	p, err := s.repo.GetActive(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if err := s.record(ctx, audit.Event{
		OrganizationID: organizationID,
		Action:         audit.ActionProfileRestored,
		EntityType:     "compliance_profile",
		EntityID:       strconv.FormatInt(p.ID, 10),
	}); err != nil {
		return nil, err
	}

	metrics.RecordProfileMutation("restore")
	s.logger.WithFields(map[string]interface{}{
		"organization_id": organizationID,
	}).Info("Compliance profile restored")

	return p, nil
}

// Purge irreversibly removes the profile
func (s *ProfileService) Purge(ctx context.Context, organizationID int64) (bool, error) {
	removed, err := s.repo.Purge(ctx, organizationID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	if err := s.record(ctx, audit.Event{
		OrganizationID: organizationID,
		Action:         audit.ActionProfilePurged,
		EntityType:     "compliance_profile",
		EntityID:       "purged",
	}); err != nil {
		return true, err
	}

	metrics.RecordProfileMutation("purge")
	s.logger.WithFields(map[string]interface{}{
		"organization_id": organizationID,
	}).Info("Compliance profile permanently deleted")

	return true, nil
}

// Get retrieves the active profile for an organization
func (s *ProfileService) Get(ctx context.Context, organizationID int64) (*profile.Profile, error) {
	return s.repo.GetActive(ctx, organizationID)
}

// ListActive lists non-deleted profiles
func (s *ProfileService) ListActive(ctx context.Context, filter profile.Filter) ([]*profile.Profile, error) {
	return s.repo.ListActive(ctx, filter)
}

// ListTrashed lists soft-deleted profiles
func (s *ProfileService) ListTrashed(ctx context.Context) ([]*profile.Profile, error) {
	return s.repo.ListTrashed(ctx)
}

// Statistics returns the read-only aggregate over all profiles
func (s *ProfileService) Statistics(ctx context.Context) (*profile.Statistics, error) {
	return s.repo.Statistics(ctx, s.recentWindow)
}

func (s *ProfileService) requireOrganization(ctx context.Context, organizationID int64) (*organization.Organization, error) {
	if organizationID <= 0 {
		return nil, errors.ValidationError("organization reference is required",
			map[string]int64{"organization_id": organizationID})
	}
	return s.orgs.GetOrganization(ctx, organizationID)
}

func (s *ProfileService) aggregate(indicators map[indicator.ID]indicator.Assessment, sector string) *scoring.Result {
	metrics.RecordAggregateRun()
	return s.engine.Aggregate(indicators, sector)
}

// record performs the mandatory audit write. Failure is an operation
// failure for the caller even though the state mutation is committed.
func (s *ProfileService) record(ctx context.Context, event audit.Event) error {
	if err := s.audits.Record(ctx, event); err != nil {
		metrics.RecordAuditFailure()
		s.logger.ErrorWithErr(err, "Mandatory audit write failed")
		return errors.AuditFailure(err)
	}
	return nil
}
