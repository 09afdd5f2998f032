package repository

import (
	"context"

	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/scoring"
)

type ReportFilter struct {
	Limit   int
	UserID  *string // scope to the submitting user
	Urgency *models.Urgency
	Status  *models.ReportStatus
	Band    *scoring.Band // credibility band, half-open boundaries
}

type ReportRepository interface {
	AddReport(ctx context.Context, r *models.HazardReport) error
	GetReport(ctx context.Context, id string) (*models.HazardReport, error)
	// ListReports returns reports ordered by creation time descending.
	ListReports(ctx context.Context, opts ReportFilter) ([]models.HazardReport, error)
	UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) (*models.HazardReport, error)
	UpdateReportUrgency(ctx context.Context, id string, urgency models.Urgency) (*models.HazardReport, error)
}

type AlertRepository interface {
	AddAlert(ctx context.Context, a *models.Alert) error
	// ListActiveAlerts returns active alerts, newest first.
	ListActiveAlerts(ctx context.Context, limit int) ([]models.Alert, error)
}

type RoleRepository interface {
	ListRoles(ctx context.Context, userID string) ([]models.Role, error)
	// AddRole is a no-op if the user already holds the role.
	AddRole(ctx context.Context, userID string, role models.Role) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	// EnsureUser provisions the profile row and the default citizen role.
	// Idempotent: repeated calls for the same user change nothing.
	EnsureUser(ctx context.Context, p *models.Profile) error
}
