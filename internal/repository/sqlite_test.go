package repository

import (
	"context"
	"testing"
	"time"

	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/scoring"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func testReport(id string, mut func(*models.HazardReport)) *models.HazardReport {
	now := time.Now().UTC()
	r := &models.HazardReport{
		ID:               id,
		UserID:           "user_1",
		HazardType:       models.HazardTypeHighWaves,
		Description:      "Waves breaking over the seawall",
		Location:         "Marina Beach",
		Urgency:          models.UrgencyMedium,
		Status:           models.StatusSubmitted,
		CredibilityScore: 0.50,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if mut != nil {
		mut(r)
	}
	return r
}

func TestSQLiteDB_AddAndGetReport(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	lat, lng := 13.05, 80.28
	report := testReport("report_1", func(r *models.HazardReport) {
		r.Latitude = &lat
		r.Longitude = &lng
		r.ContactNumber = "+91-555-0100"
		r.ImageURL = "https://cdn.example.com/hazards/1700000000_wave.jpg"
		r.CredibilityScore = 0.70
	})

	if err := db.AddReport(ctx, report); err != nil {
		t.Fatalf("AddReport failed: %v", err)
	}

	got, err := db.GetReport(ctx, "report_1")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected report, got nil")
	}
	if got.Description != report.Description {
		t.Errorf("expected description %q, got %q", report.Description, got.Description)
	}
	if got.Latitude == nil || *got.Latitude != lat {
		t.Errorf("expected latitude %v, got %v", lat, got.Latitude)
	}
	if got.ContactNumber != report.ContactNumber {
		t.Errorf("expected contact %q, got %q", report.ContactNumber, got.ContactNumber)
	}
	if got.CredibilityScore != 0.70 {
		t.Errorf("expected score 0.70, got %v", got.CredibilityScore)
	}
	if got.Status != models.StatusSubmitted {
		t.Errorf("expected status submitted, got %s", got.Status)
	}
}

func TestSQLiteDB_GetReport_Missing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.GetReport(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing report, got %+v", got)
	}
}

func TestSQLiteDB_ListReports_Filters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	reports := []*models.HazardReport{
		testReport("r1", func(r *models.HazardReport) { r.Urgency = models.UrgencyHigh; r.CredibilityScore = 0.80 }),
		testReport("r2", func(r *models.HazardReport) { r.Urgency = models.UrgencyHigh; r.CredibilityScore = 0.40 }),
		testReport("r3", func(r *models.HazardReport) { r.Urgency = models.UrgencyLow; r.CredibilityScore = 0.70 }),
		testReport("r4", func(r *models.HazardReport) { r.Urgency = models.UrgencyLow; r.CredibilityScore = 0.10 }),
	}
	for _, r := range reports {
		if err := db.AddReport(ctx, r); err != nil {
			t.Fatalf("AddReport failed: %v", err)
		}
	}

	high := models.UrgencyHigh
	results, err := db.ListReports(ctx, ReportFilter{Urgency: &high})
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 high-urgency reports, got %d", len(results))
	}

	bandHigh := scoring.BandHigh
	results, err = db.ListReports(ctx, ReportFilter{Band: &bandHigh})
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 high-band reports (0.80, 0.70), got %d", len(results))
	}

	// Filters AND together
	results, err = db.ListReports(ctx, ReportFilter{Urgency: &high, Band: &bandHigh})
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "r1" {
		t.Errorf("expected only r1 for high urgency AND high band, got %+v", results)
	}

	results, err = db.ListReports(ctx, ReportFilter{Limit: 3})
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 reports with limit, got %d", len(results))
	}
}

func TestSQLiteDB_ListReports_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		r := testReport(id, nil)
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		r.UpdatedAt = r.CreatedAt
		if err := db.AddReport(ctx, r); err != nil {
			t.Fatalf("AddReport failed: %v", err)
		}
	}

	results, err := db.ListReports(ctx, ReportFilter{})
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(results))
	}
	if results[0].ID != "new" || results[2].ID != "old" {
		t.Errorf("expected newest-first order, got %s, %s, %s",
			results[0].ID, results[1].ID, results[2].ID)
	}
}

func TestSQLiteDB_UpdateReportStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.AddReport(ctx, testReport("r1", nil)); err != nil {
		t.Fatalf("AddReport failed: %v", err)
	}

	updated, err := db.UpdateReportStatus(ctx, "r1", models.StatusUnderReview)
	if err != nil {
		t.Fatalf("UpdateReportStatus failed: %v", err)
	}
	if updated == nil || updated.Status != models.StatusUnderReview {
		t.Errorf("expected under_review, got %+v", updated)
	}

	// Missing id returns nil without error
	updated, err = db.UpdateReportStatus(ctx, "missing", models.StatusResolved)
	if err != nil {
		t.Fatalf("UpdateReportStatus failed: %v", err)
	}
	if updated != nil {
		t.Errorf("expected nil for missing report, got %+v", updated)
	}
}

func TestSQLiteDB_UpdateReportUrgency(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.AddReport(ctx, testReport("r1", nil)); err != nil {
		t.Fatalf("AddReport failed: %v", err)
	}

	updated, err := db.UpdateReportUrgency(ctx, "r1", models.UrgencyHigh)
	if err != nil {
		t.Fatalf("UpdateReportUrgency failed: %v", err)
	}
	if updated == nil || updated.Urgency != models.UrgencyHigh {
		t.Errorf("expected high urgency, got %+v", updated)
	}
}

func TestSQLiteDB_DuplicateReport(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	r := testReport("dup", nil)
	if err := db.AddReport(ctx, r); err != nil {
		t.Fatalf("first AddReport failed: %v", err)
	}
	if err := db.AddReport(ctx, r); err == nil {
		t.Error("expected error for duplicate ID, got nil")
	}
}

func TestSQLiteDB_Alerts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	alerts := []*models.Alert{
		{ID: "a1", Message: "Stay clear of the harbor", Audience: "all", SenderID: "auth_1", Active: true, CreatedAt: base},
		{ID: "a2", Message: "Storm surge expected", Audience: "nearby", SenderID: "auth_1", ReportID: "", Active: true, CreatedAt: base.Add(time.Minute)},
		{ID: "a3", Message: "Old drill notice", Audience: "all", SenderID: "auth_2", Active: false, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, a := range alerts {
		if err := db.AddAlert(ctx, a); err != nil {
			t.Fatalf("AddAlert failed: %v", err)
		}
	}

	got, err := db.ListActiveAlerts(ctx, 0)
	if err != nil {
		t.Fatalf("ListActiveAlerts failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active alerts, got %d", len(got))
	}
	if got[0].ID != "a2" {
		t.Errorf("expected newest active alert first, got %s", got[0].ID)
	}
}

func TestSQLiteDB_AlertWithReportReference(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.AddReport(ctx, testReport("r1", nil)); err != nil {
		t.Fatalf("AddReport failed: %v", err)
	}
	a := &models.Alert{
		ID: "a1", Message: "Flooding confirmed", Audience: "all",
		SenderID: "auth_1", ReportID: "r1", Active: true, CreatedAt: time.Now().UTC(),
	}
	if err := db.AddAlert(ctx, a); err != nil {
		t.Fatalf("AddAlert failed: %v", err)
	}

	got, err := db.ListActiveAlerts(ctx, 0)
	if err != nil {
		t.Fatalf("ListActiveAlerts failed: %v", err)
	}
	if len(got) != 1 || got[0].ReportID != "r1" {
		t.Errorf("expected alert referencing r1, got %+v", got)
	}
}

func TestSQLiteDB_EnsureUser_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	p := &models.Profile{ID: "user_1", Email: "citizen@example.com", FullName: "First Citizen"}

	if err := db.EnsureUser(ctx, p); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	// Second call must not fail or duplicate anything
	if err := db.EnsureUser(ctx, p); err != nil {
		t.Fatalf("second EnsureUser failed: %v", err)
	}

	roles, err := db.ListRoles(ctx, "user_1")
	if err != nil {
		t.Fatalf("ListRoles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != models.RoleCitizen {
		t.Errorf("expected exactly one citizen role, got %v", roles)
	}

	prof, err := db.GetProfile(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if prof == nil || prof.Email != "citizen@example.com" {
		t.Errorf("expected provisioned profile, got %+v", prof)
	}
}

func TestSQLiteDB_AddRole_Promotion(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureUser(ctx, &models.Profile{ID: "user_1", Email: "a@b.c"}); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if err := db.AddRole(ctx, "user_1", models.RoleAuthority); err != nil {
		t.Fatalf("AddRole failed: %v", err)
	}
	// Re-adding the same role is a no-op
	if err := db.AddRole(ctx, "user_1", models.RoleAuthority); err != nil {
		t.Fatalf("duplicate AddRole failed: %v", err)
	}

	roles, err := db.ListRoles(ctx, "user_1")
	if err != nil {
		t.Fatalf("ListRoles failed: %v", err)
	}
	if len(roles) != 2 {
		t.Errorf("expected citizen + authority, got %v", roles)
	}
}
