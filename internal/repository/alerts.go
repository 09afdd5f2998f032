package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/njordr/coastwatch/internal/models"
)

func (s *SQLiteDB) AddAlert(ctx context.Context, a *models.Alert) error {
	var reportID any
	if a.ReportID != "" {
		reportID = a.ReportID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, message, audience, sender_id, report_id, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Message, a.Audience, a.SenderID, reportID, boolToInt(a.Active), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting alert: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListActiveAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	query := `
		SELECT id, message, audience, sender_id, report_id, active, created_at
		FROM alerts
		WHERE active = 1
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var (
			a        models.Alert
			reportID sql.NullString
			active   int
		)
		if err := rows.Scan(&a.ID, &a.Message, &a.Audience, &a.SenderID, &reportID, &active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning alert: %w", err)
		}
		a.ReportID = reportID.String
		a.Active = active == 1
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
