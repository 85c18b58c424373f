package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/domain/audit"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/pkg/metrics"
)

// AccreditationService implements accreditation.Service. Status moves only
// through the fixed transition table; a rejected transition leaves the case
// untouched.
type AccreditationService struct {
	repo         accreditation.Repository
	templates    accreditation.TemplateRegistry
	audits       audit.Sink
	expiryMonths int
	logger       *logger.Logger
}

// NewAccreditationService creates a new accreditation case service
func NewAccreditationService(
	repo accreditation.Repository,
	templates accreditation.TemplateRegistry,
	audits audit.Sink,
	expiryMonths int,
	log *logger.Logger,
) accreditation.Service {
	return &AccreditationService{
		repo:         repo,
		templates:    templates,
		audits:       audits,
		expiryMonths: expiryMonths,
		logger:       log,
	}
}

// Create opens a new case in draft for an organization and template
func (s *AccreditationService) Create(ctx context.Context, organizationID int64, templateID string, createdBy string) (*accreditation.Case, error) {
	if organizationID <= 0 {
		return nil, errors.ValidationError("organization reference is required",
			map[string]int64{"organization_id": organizationID})
	}
	if templateID == "" {
		return nil, errors.ValidationError("template reference is required", nil)
	}

	if _, err := s.templates.GetTemplate(ctx, templateID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &accreditation.Case{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		TemplateID:     templateID,
		Status:         accreditation.StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create accreditation case")
		return nil, err
	}

	if err := s.recordCase(ctx, audit.Event{
		Actor:          createdBy,
		OrganizationID: organizationID,
		Action:         audit.ActionCaseCreated,
		EntityType:     "accreditation_case",
		EntityID:       c.ID,
		NewValue:       map[string]interface{}{"status": c.Status, "template_id": templateID},
	}); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"case_id":         c.ID,
		"organization_id": organizationID,
		"template_id":     templateID,
	}).Info("Accreditation case created")

	return c, nil
}

// Transition moves a case to the target status. A target outside the
// transition table is rejected with no mutation and no audit event.
func (s *AccreditationService) Transition(ctx context.Context, caseID string, target accreditation.Status, actor string) (*accreditation.TransitionResult, error) {
	if !target.Valid() {
		return nil, errors.ValidationError("unknown lifecycle status",
			map[string]string{"status": string(target)})
	}

	c, err := s.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	from := c.Status
	if !accreditation.CanTransition(from, target) {
		metrics.RecordCaseTransition(string(from), string(target), "rejected")
		return nil, errors.InvalidTransition(string(from), string(target))
	}

	now := time.Now().UTC()
	c.Status = target
	c.UpdatedAt = now
	switch target {
	case accreditation.StatusSubmitted:
		c.SubmittedAt = &now
	case accreditation.StatusApproved:
		c.ReviewedAt = &now
		c.ApprovedAt = &now
		expires := now.AddDate(0, s.expiryMonths, 0)
		c.ExpiresAt = &expires
	case accreditation.StatusRejected:
		c.ReviewedAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, c, from); err != nil {
		s.logger.ErrorWithErr(err, "Failed to persist case transition")
		return nil, err
	}

	if err := s.recordCase(ctx, audit.Event{
		Actor:          actor,
		OrganizationID: c.OrganizationID,
		Action:         audit.ActionCaseStatusChanged,
		EntityType:     "accreditation_case",
		EntityID:       c.ID,
		OldValue:       map[string]interface{}{"status": from},
		NewValue:       map[string]interface{}{"status": target},
	}); err != nil {
		return nil, err
	}

	metrics.RecordCaseTransition(string(from), string(target), "committed")
	s.logger.WithFields(map[string]interface{}{
		"case_id":    c.ID,
		"old_status": from,
		"new_status": target,
	}).Info("Accreditation case transitioned")

	return &accreditation.TransitionResult{OldStatus: from, NewStatus: target}, nil
}

// Get retrieves a case
func (s *AccreditationService) Get(ctx context.Context, caseID string) (*accreditation.Case, error) {
	return s.repo.GetByID(ctx, caseID)
}

// ListByOrganization lists all cases of one organization
func (s *AccreditationService) ListByOrganization(ctx context.Context, organizationID int64) ([]*accreditation.Case, error) {
	return s.repo.ListByOrganization(ctx, organizationID)
}

func (s *AccreditationService) recordCase(ctx context.Context, event audit.Event) error {
	if err := s.audits.Record(ctx, event); err != nil {
		metrics.RecordAuditFailure()
		s.logger.ErrorWithErr(err, "Mandatory audit write failed")
		return errors.AuditFailure(err)
	}
	return nil
}
