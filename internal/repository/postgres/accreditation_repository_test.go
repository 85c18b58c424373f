package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/domain/assignment"
	"github.com/xbeat/certicredia-sub000/internal/domain/audit"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/repository/postgres"
	"github.com/xbeat/certicredia-sub000/internal/testutil"
)

func sampleCase(orgID int64) *accreditation.Case {
	now := time.Now().UTC()
	return &accreditation.Case{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		TemplateID:     "cpf-standard",
		Status:         accreditation.StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestAccreditationRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccreditationRepository(db)
	ctx := context.Background()

	c := sampleCase(1)
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != accreditation.StatusDraft || got.TemplateID != "cpf-standard" {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.SubmittedAt != nil || got.AssignedSpecialistID != nil {
		t.Error("GetByID() returned unset fields as set")
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("GetByID() for unknown case error = %v, want not found", err)
	}
}

func TestAccreditationRepository_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccreditationRepository(db)
	ctx := context.Background()

	c := sampleCase(1)
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	now := time.Now().UTC()
	expires := now.AddDate(0, 12, 0)
	c.Status = accreditation.StatusApproved
	c.SubmittedAt = &now
	c.ReviewedAt = &now
	c.ApprovedAt = &now
	c.ExpiresAt = &expires
	c.UpdatedAt = now

	if err := repo.UpdateStatus(ctx, c, accreditation.StatusDraft); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != accreditation.StatusApproved {
		t.Errorf("status = %v, want approved", got.Status)
	}
	if got.ApprovedAt == nil || got.ExpiresAt == nil {
		t.Fatal("lifecycle timestamps did not survive the round trip")
	}
	if !got.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expires)
	}

	missing := sampleCase(1)
	if err := repo.UpdateStatus(ctx, missing, accreditation.StatusDraft); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("UpdateStatus() for unknown case error = %v, want not found", err)
	}
}

func TestAccreditationRepository_UpdateStatusStaleGuard(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccreditationRepository(db)
	ctx := context.Background()

	c := sampleCase(1)
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Two writers validated the same draft case; the first one commits.
	now := time.Now().UTC()
	first := *c
	first.Status = accreditation.StatusSubmitted
	first.SubmittedAt = &now
	first.UpdatedAt = now
	if err := repo.UpdateStatus(ctx, &first, accreditation.StatusDraft); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	// The second writer still holds the draft snapshot and must not win.
	stale := *c
	stale.Status = accreditation.StatusInProgress
	stale.UpdatedAt = now
	if err := repo.UpdateStatus(ctx, &stale, accreditation.StatusDraft); !errors.IsCode(err, errors.ErrCodeConflict) {
		t.Fatalf("stale UpdateStatus() error = %v, want conflict", err)
	}

	got, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != accreditation.StatusSubmitted {
		t.Errorf("status after stale write = %v, want submitted", got.Status)
	}
}

func TestAccreditationRepository_AssignAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAccreditationRepository(db)
	ctx := context.Background()

	first := sampleCase(1)
	second := sampleCase(1)
	other := sampleCase(2)
	for _, c := range []*accreditation.Case{first, second, other} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	if err := repo.AssignSpecialist(ctx, first.ID, 42); err != nil {
		t.Fatalf("AssignSpecialist() error = %v", err)
	}
	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.AssignedSpecialistID == nil || *got.AssignedSpecialistID != 42 {
		t.Errorf("specialist = %v, want 42", got.AssignedSpecialistID)
	}

	cases, err := repo.ListByOrganization(ctx, 1)
	if err != nil {
		t.Fatalf("ListByOrganization() error = %v", err)
	}
	if len(cases) != 2 {
		t.Errorf("ListByOrganization() = %d cases, want 2", len(cases))
	}
}

func TestAssignmentRepository_Lifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAssignmentRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	a := &assignment.Assignment{
		ID:             uuid.New().String(),
		CaseID:         "case-1",
		OrganizationID: 1,
		TokenHash:      "deadbeef",
		Status:         assignment.StatusPending,
		ExpiresAt:      now.Add(72 * time.Hour),
		CreatedBy:      "operator",
		CreatedAt:      now,
	}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetPendingByTokenHash(ctx, "deadbeef", now)
	if err != nil {
		t.Fatalf("GetPendingByTokenHash() error = %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("GetPendingByTokenHash() id = %v, want %v", got.ID, a.ID)
	}

	// Past the expiry the pending row is invisible.
	if _, err := repo.GetPendingByTokenHash(ctx, "deadbeef", now.Add(73*time.Hour)); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expired lookup error = %v, want not found", err)
	}

	if err := repo.Accept(ctx, a.ID, 42, now); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if _, err := repo.GetPendingByTokenHash(ctx, "deadbeef", now); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("accepted token still pending, error = %v, want not found", err)
	}
	if err := repo.Accept(ctx, a.ID, 43, now); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("second Accept() error = %v, want not found", err)
	}
}

func TestAuditRepository_RecordAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewAuditRepository(db)
	ctx := context.Background()

	events := []audit.Event{
		{
			Actor:          "operator",
			OrganizationID: 1,
			Action:         audit.ActionProfileCreated,
			EntityType:     "compliance_profile",
			EntityID:       "7",
			NewValue:       map[string]interface{}{"cpf_score": 80},
		},
		{
			Actor:          "reviewer",
			OrganizationID: 1,
			Action:         audit.ActionCaseStatusChanged,
			EntityType:     "accreditation_case",
			EntityID:       "case-1",
			OldValue:       map[string]interface{}{"status": "submitted"},
			NewValue:       map[string]interface{}{"status": "under_review"},
		},
	}
	for _, e := range events {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := repo.ListByOrganization(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListByOrganization() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByOrganization() = %d events, want 2", len(got))
	}
	for _, e := range got {
		if e.ID == "" || e.RecordedAt.IsZero() {
			t.Errorf("event missing generated fields: %+v", e)
		}
	}

	other, err := repo.ListByOrganization(ctx, 2, 10)
	if err != nil {
		t.Fatalf("ListByOrganization() error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("ListByOrganization() for other org = %d events, want 0", len(other))
	}
}

func TestTemplateRepository_PutAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewTemplateRepository(db)
	ctx := context.Background()

	tpl := &accreditation.Template{
		ID:     "cpf-standard",
		Name:   "CPF Standard Certification",
		Schema: []byte(`{"sections": []}`),
	}
	if err := repo.Put(ctx, tpl); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := repo.GetTemplate(ctx, "cpf-standard")
	if err != nil {
		t.Fatalf("GetTemplate() error = %v", err)
	}
	if got.Name != tpl.Name || string(got.Schema) != string(tpl.Schema) {
		t.Errorf("GetTemplate() = %+v", got)
	}

	tpl.Name = "CPF Standard v2"
	if err := repo.Put(ctx, tpl); err != nil {
		t.Fatalf("Put() upsert error = %v", err)
	}
	list, err := repo.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if len(list) != 1 || list[0].Name != "CPF Standard v2" {
		t.Errorf("ListTemplates() = %+v", list)
	}

	if _, err := repo.GetTemplate(ctx, "missing"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("GetTemplate() for unknown id error = %v, want not found", err)
	}
}
