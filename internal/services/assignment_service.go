package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/domain/assignment"
	"github.com/xbeat/certicredia-sub000/internal/domain/audit"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/pkg/metrics"
)

// AssignmentService implements assignment.Service. Tokens are handed out
// once and stored only as sha256 hashes.
type AssignmentService struct {
	repo     assignment.Repository
	cases    accreditation.Repository
	audits   audit.Sink
	tokenTTL time.Duration
	logger   *logger.Logger
}

// NewAssignmentService creates a new specialist assignment service
func NewAssignmentService(
	repo assignment.Repository,
	cases accreditation.Repository,
	audits audit.Sink,
	tokenTTL time.Duration,
	log *logger.Logger,
) assignment.Service {
	return &AssignmentService{
		repo:     repo,
		cases:    cases,
		audits:   audits,
		tokenTTL: tokenTTL,
		logger:   log,
	}
}

// Issue creates a pending assignment for a case and returns the one-time
// token. The plaintext token never touches the store.
func (s *AssignmentService) Issue(ctx context.Context, caseID string, organizationID int64, createdBy string) (*assignment.Token, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if organizationID != 0 && c.OrganizationID != organizationID {
		return nil, errors.ValidationError("case does not belong to the organization",
			map[string]interface{}{"case_id": caseID, "organization_id": organizationID})
	}

	token, err := generateAssignmentToken()
	if err != nil {
		return nil, errors.Internal("failed to generate assignment token", err)
	}

	now := time.Now().UTC()
	a := &assignment.Assignment{
		ID:             uuid.New().String(),
		CaseID:         c.ID,
		OrganizationID: c.OrganizationID,
		TokenHash:      hashAssignmentToken(token),
		Status:         assignment.StatusPending,
		ExpiresAt:      now.Add(s.tokenTTL),
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create specialist assignment")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"case_id":       c.ID,
		"assignment_id": a.ID,
		"expires_at":    a.ExpiresAt,
	}).Info("Specialist assignment token issued")

	return &assignment.Token{Token: token, ExpiresAt: a.ExpiresAt}, nil
}

// Accept redeems a token, binding the specialist to the pending assignment
// and to its case. Expired or already-accepted tokens look the same as
// unknown ones to the caller.
func (s *AssignmentService) Accept(ctx context.Context, token string, specialistID int64) (*assignment.Assignment, error) {
	if specialistID <= 0 {
		return nil, errors.ValidationError("specialist reference is required",
			map[string]int64{"specialist_id": specialistID})
	}

	now := time.Now().UTC()
	a, err := s.repo.GetPendingByTokenHash(ctx, hashAssignmentToken(token), now)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return nil, errors.NotFound("valid assignment token")
		}
		return nil, err
	}

	if err := s.repo.Accept(ctx, a.ID, specialistID, now); err != nil {
		s.logger.ErrorWithErr(err, "Failed to accept specialist assignment")
		return nil, err
	}
	if err := s.cases.AssignSpecialist(ctx, a.CaseID, specialistID); err != nil {
		return nil, err
	}

	a.Status = assignment.StatusAccepted
	a.SpecialistID = &specialistID
	a.AcceptedAt = &now

	if err := s.audits.Record(ctx, audit.Event{
		OrganizationID: a.OrganizationID,
		Action:         audit.ActionCaseAssigned,
		EntityType:     "accreditation_case",
		EntityID:       a.CaseID,
		NewValue:       map[string]interface{}{"specialist_id": specialistID},
	}); err != nil {
		metrics.RecordAuditFailure()
		s.logger.ErrorWithErr(err, "Mandatory audit write failed")
		return nil, errors.AuditFailure(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"case_id":       a.CaseID,
		"specialist_id": specialistID,
	}).Info("Specialist assignment accepted")

	return a, nil
}

// generateAssignmentToken builds an ACC-<millis>-<hex> token from crypto
// randomness.
func generateAssignmentToken() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("ACC-%d-%s", time.Now().UnixMilli(), strings.ToUpper(hex.EncodeToString(buf))), nil
}

func hashAssignmentToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
