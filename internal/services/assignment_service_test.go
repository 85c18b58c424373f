package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/domain/assignment"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/testutil"
)

func newAssignmentFixture(t *testing.T) (*testutil.MockAssignmentRepository, *testutil.MockAccreditationRepository, *testutil.MockAuditSink, assignment.Service, *accreditation.Case) {
	t.Helper()

	mockRepo := testutil.NewMockAssignmentRepository()
	mockCases := testutil.NewMockAccreditationRepository()
	mockAudit := testutil.NewMockAuditSink()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	c := &accreditation.Case{
		ID:             "case-1",
		OrganizationID: 7,
		TemplateID:     "cpf-standard",
		Status:         accreditation.StatusSubmitted,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := mockCases.Create(context.Background(), c); err != nil {
		t.Fatalf("fixture case create error = %v", err)
	}

	service := NewAssignmentService(mockRepo, mockCases, mockAudit, 72*time.Hour, log)
	return mockRepo, mockCases, mockAudit, service, c
}

func TestAssignmentService_Issue(t *testing.T) {
	mockRepo, _, _, service, c := newAssignmentFixture(t)
	ctx := context.Background()

	token, err := service.Issue(ctx, c.ID, c.OrganizationID, "operator")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !strings.HasPrefix(token.Token, "ACC-") {
		t.Errorf("Issue() token = %q, want ACC- prefix", token.Token)
	}
	if got := time.Until(token.ExpiresAt); got < 71*time.Hour || got > 73*time.Hour {
		t.Errorf("Issue() expiry %v away, want about 72h", got)
	}

	if len(mockRepo.Assignments) != 1 {
		t.Fatalf("Issue() stored %d assignments, want 1", len(mockRepo.Assignments))
	}
	for _, a := range mockRepo.Assignments {
		if a.TokenHash == token.Token {
			t.Error("Issue() stored the plaintext token")
		}
		if a.Status != assignment.StatusPending {
			t.Errorf("Issue() status = %q, want pending", a.Status)
		}
		if a.OrganizationID != c.OrganizationID {
			t.Errorf("Issue() organization = %d, want %d", a.OrganizationID, c.OrganizationID)
		}
	}
}

func TestAssignmentService_Issue_Validation(t *testing.T) {
	_, _, _, service, c := newAssignmentFixture(t)
	ctx := context.Background()

	if _, err := service.Issue(ctx, "missing-case", 7, "operator"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Issue() for unknown case error = %v, want not found", err)
	}
	if _, err := service.Issue(ctx, c.ID, 99, "operator"); !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("Issue() with wrong organization error = %v, want validation", err)
	}
}

func TestAssignmentService_Accept(t *testing.T) {
	_, mockCases, mockAudit, service, c := newAssignmentFixture(t)
	ctx := context.Background()

	token, err := service.Issue(ctx, c.ID, c.OrganizationID, "operator")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	a, err := service.Accept(ctx, token.Token, 31)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if a.Status != assignment.StatusAccepted {
		t.Errorf("Accept() status = %q, want accepted", a.Status)
	}
	if a.SpecialistID == nil || *a.SpecialistID != 31 {
		t.Errorf("Accept() specialist = %v, want 31", a.SpecialistID)
	}
	if a.AcceptedAt == nil {
		t.Error("Accept() did not stamp AcceptedAt")
	}

	stored, err := mockCases.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.AssignedSpecialistID == nil || *stored.AssignedSpecialistID != 31 {
		t.Errorf("case specialist = %v, want 31", stored.AssignedSpecialistID)
	}
	if last := mockAudit.LastEvent(); last == nil || last.Action != "CASE_ASSIGNED" {
		t.Errorf("Accept() audit event = %v, want CASE_ASSIGNED", last)
	}

	// A token is one-time: the second redemption fails.
	if _, err := service.Accept(ctx, token.Token, 32); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("second Accept() error = %v, want not found", err)
	}
}

func TestAssignmentService_Accept_Invalid(t *testing.T) {
	mockRepo, _, _, service, c := newAssignmentFixture(t)
	ctx := context.Background()

	if _, err := service.Accept(ctx, "ACC-0-FFFFFFFF", 31); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Accept() of unknown token error = %v, want not found", err)
	}

	token, err := service.Issue(ctx, c.ID, c.OrganizationID, "operator")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := service.Accept(ctx, token.Token, 0); !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("Accept() without specialist error = %v, want validation", err)
	}

	// Force the stored assignment past its expiry.
	for _, a := range mockRepo.Assignments {
		a.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	}
	if _, err := service.Accept(ctx, token.Token, 31); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Accept() of expired token error = %v, want not found", err)
	}
}
