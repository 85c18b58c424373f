package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/domain/indicator"
	"github.com/xbeat/certicredia-sub000/internal/domain/profile"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/repository/postgres"
	"github.com/xbeat/certicredia-sub000/internal/scoring"
	"github.com/xbeat/certicredia-sub000/internal/testutil"
)

func sampleProfile(orgID int64) *profile.Profile {
	engine := scoring.NewEngine(scoring.DefaultConfig())
	indicators := map[indicator.ID]indicator.Assessment{
		"1.1": {IndicatorID: "1.1", RawScore: 0.2, Confidence: 0.85, AssessedAt: time.Now().UTC()},
		"2.3": {IndicatorID: "2.3", RawScore: 0.7, Confidence: 0.9, AssessedAt: time.Now().UTC()},
	}
	now := time.Now().UTC()
	return &profile.Profile{
		OrganizationID:   orgID,
		Indicators:       indicators,
		Aggregate:        engine.Aggregate(indicators, "Finance"),
		Metadata:         map[string]interface{}{"source": "import"},
		CreatedAt:        now,
		UpdatedAt:        now,
		LastAssessmentAt: &now,
	}
}

func TestProfileRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewProfileRepository(db)
	ctx := context.Background()

	p := sampleProfile(1)
	id, err := repo.Create(ctx, p)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Create() returned zero id")
	}

	got, err := repo.GetActive(ctx, 1)
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if got.ID != id {
		t.Errorf("GetActive() id = %d, want %d", got.ID, id)
	}
	if len(got.Indicators) != 2 {
		t.Errorf("GetActive() indicators = %d, want 2", len(got.Indicators))
	}
	if a, ok := got.Indicators["2.3"]; !ok || a.RawScore != 0.7 {
		t.Errorf("GetActive() indicator 2.3 = %+v", a)
	}
	if got.Aggregate == nil || got.Aggregate.MaturityModel.CPFScore != p.Aggregate.MaturityModel.CPFScore {
		t.Errorf("GetActive() aggregate did not survive the round trip")
	}
	if got.Metadata["source"] != "import" {
		t.Errorf("GetActive() metadata = %v", got.Metadata)
	}
	if got.LastAssessmentAt == nil {
		t.Error("GetActive() lost LastAssessmentAt")
	}

	if _, err := repo.GetActive(ctx, 2); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("GetActive() for unknown org error = %v, want not found", err)
	}
}

func TestProfileRepository_ActiveUniqueness(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewProfileRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, sampleProfile(1)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A second insert for the same organization must fail in the store
	// itself, even when two writers passed the duplicate check together.
	if _, err := repo.Create(ctx, sampleProfile(1)); !errors.IsCode(err, errors.ErrCodeConflict) {
		t.Fatalf("duplicate Create() error = %v, want conflict", err)
	}

	if err := repo.SoftDelete(ctx, 1, time.Now().UTC()); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if _, err := repo.Create(ctx, sampleProfile(1)); err != nil {
		t.Fatalf("Create() after trash error = %v", err)
	}

	// With an active row back in place, the trashed one cannot return.
	if err := repo.Restore(ctx, 1); !errors.IsCode(err, errors.ErrCodeConflict) {
		t.Errorf("Restore() over active profile error = %v, want conflict", err)
	}

	active, err := repo.ListActive(ctx, profile.Filter{})
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 1 {
		t.Errorf("ListActive() = %d profiles for one organization, want 1", len(active))
	}
}

func TestProfileRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewProfileRepository(db)
	ctx := context.Background()

	p := sampleProfile(1)
	if _, err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	engine := scoring.NewEngine(scoring.DefaultConfig())
	p.Indicators = map[indicator.ID]indicator.Assessment{
		"3.1": {IndicatorID: "3.1", RawScore: 0.9, Confidence: 0.85, AssessedAt: time.Now().UTC()},
	}
	p.Aggregate = engine.Aggregate(p.Indicators, "Finance")
	p.UpdatedAt = time.Now().UTC()

	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetActive(ctx, 1)
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if len(got.Indicators) != 1 {
		t.Errorf("Update() left %d indicators, want full replacement with 1", len(got.Indicators))
	}
	if got.Aggregate.MaturityModel.CPFScore != 10 {
		t.Errorf("Update() aggregate CPF = %d, want 10", got.Aggregate.MaturityModel.CPFScore)
	}

	if err := repo.Update(ctx, sampleProfile(9)); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Update() for unknown org error = %v, want not found", err)
	}
}

func TestProfileRepository_TrashLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewProfileRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, sampleProfile(1)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	at := time.Now().UTC()
	if err := repo.SoftDelete(ctx, 1, at); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if _, err := repo.GetActive(ctx, 1); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("GetActive() after trash error = %v, want not found", err)
	}

	trashed, err := repo.GetDeleted(ctx, 1)
	if err != nil {
		t.Fatalf("GetDeleted() error = %v", err)
	}
	if !trashed.Deleted() {
		t.Error("GetDeleted() returned profile without deletion stamp")
	}

	list, err := repo.ListTrashed(ctx)
	if err != nil {
		t.Fatalf("ListTrashed() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListTrashed() = %d profiles, want 1", len(list))
	}

	if err := repo.Restore(ctx, 1); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if _, err := repo.GetActive(ctx, 1); err != nil {
		t.Errorf("GetActive() after restore error = %v", err)
	}
	if err := repo.Restore(ctx, 1); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("second Restore() error = %v, want not found", err)
	}
}

func TestProfileRepository_Purge(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewProfileRepository(db)
	ctx := context.Background()

	removed, err := repo.Purge(ctx, 1)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed {
		t.Error("Purge() of absent row reported removal")
	}

	if _, err := repo.Create(ctx, sampleProfile(1)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	removed, err = repo.Purge(ctx, 1)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if !removed {
		t.Error("Purge() did not report removal")
	}
	if _, err := repo.GetDeleted(ctx, 1); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("GetDeleted() after purge error = %v, want not found", err)
	}
}

func TestProfileRepository_ListAndStatistics(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewProfileRepository(db)
	ctx := context.Background()

	for orgID := int64(1); orgID <= 3; orgID++ {
		if _, err := repo.Create(ctx, sampleProfile(orgID)); err != nil {
			t.Fatalf("Create(%d) error = %v", orgID, err)
		}
	}
	if err := repo.SoftDelete(ctx, 3, time.Now().UTC()); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	active, err := repo.ListActive(ctx, profile.Filter{})
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 2 {
		t.Errorf("ListActive() = %d profiles, want 2", len(active))
	}

	paged, err := repo.ListActive(ctx, profile.Filter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListActive() paged error = %v", err)
	}
	if len(paged) != 1 {
		t.Errorf("ListActive() paged = %d profiles, want 1", len(paged))
	}

	stats, err := repo.Statistics(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats.TotalActive != 2 || stats.TotalDeleted != 1 || stats.TotalAll != 3 {
		t.Errorf("Statistics() counts = %+v", stats)
	}
	if stats.AvgCompletion != 2 {
		t.Errorf("Statistics() avg completion = %v, want 2", stats.AvgCompletion)
	}
	if stats.RecentUpdates != 2 {
		t.Errorf("Statistics() recent updates = %d, want 2", stats.RecentUpdates)
	}
}
