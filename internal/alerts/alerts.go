// Package alerts lets authorities broadcast notices to citizens, tied
// optionally to the hazard report that prompted them.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/njordr/coastwatch/internal/broadcast"
	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/repository"
	"github.com/njordr/coastwatch/internal/worker"
)

var (
	ErrEmptyMessage  = errors.New("alert message is required")
	ErrUnknownReport = errors.New("related report not found")
)

type Service struct {
	alerts  repository.AlertRepository
	reports repository.ReportRepository
	pool    *worker.Pool
}

func NewService(alerts repository.AlertRepository, reports repository.ReportRepository, pool *worker.Pool) *Service {
	return &Service{
		alerts:  alerts,
		reports: reports,
		pool:    pool,
	}
}

// Create persists an alert and queues its insert event. Alerts are
// write-once: there is no update path.
func (s *Service) Create(ctx context.Context, senderID, message, audience, reportID string) (*models.Alert, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	audience = strings.TrimSpace(audience)
	if audience == "" {
		audience = "all"
	}

	if reportID != "" {
		report, err := s.reports.GetReport(ctx, reportID)
		if err != nil {
			return nil, fmt.Errorf("error checking related report: %w", err)
		}
		if report == nil {
			return nil, ErrUnknownReport
		}
	}

	alert := &models.Alert{
		ID:        uuid.NewString(),
		Message:   message,
		Audience:  audience,
		SenderID:  senderID,
		ReportID:  reportID,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.alerts.AddAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("error persisting alert: %w", err)
	}

	s.pool.Submit(broadcast.Event{Type: broadcast.EventAlertInsert, Alert: alert})

	slog.Info("alert broadcast", "id", alert.ID, "audience", alert.Audience, "sender", senderID)
	return alert, nil
}

// ListActive returns active alerts, newest first.
func (s *Service) ListActive(ctx context.Context, limit int) ([]models.Alert, error) {
	return s.alerts.ListActiveAlerts(ctx, limit)
}
