package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/njordr/coastwatch/internal/models"
)

func (s *SQLiteDB) AddReport(ctx context.Context, r *models.HazardReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, user_id, hazard_type, description, location,
			latitude, longitude, contact_number, image_url,
			urgency, status, credibility_score, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, string(r.HazardType), r.Description, r.Location,
		nullFloat(r.Latitude), nullFloat(r.Longitude), r.ContactNumber, r.ImageURL,
		string(r.Urgency), string(r.Status), r.CredibilityScore, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting report: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetReport(ctx context.Context, id string) (*models.HazardReport, error) {
	row := s.db.QueryRowContext(ctx, reportSelect+` WHERE id = ?`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching report: %w", err)
	}
	return r, nil
}

func (s *SQLiteDB) ListReports(ctx context.Context, opts ReportFilter) ([]models.HazardReport, error) {
	query := reportSelect + ` WHERE 1=1`
	args := []any{}

	if opts.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, *opts.UserID)
	}
	if opts.Urgency != nil {
		query += ` AND urgency = ?`
		args = append(args, string(*opts.Urgency))
	}
	if opts.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*opts.Status))
	}
	if opts.Band != nil {
		min, max := opts.Band.Range()
		query += ` AND credibility_score >= ? AND credibility_score < ?`
		args = append(args, min, max)
	}

	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	defer rows.Close()

	var reports []models.HazardReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

func (s *SQLiteDB) UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) (*models.HazardReport, error) {
	return s.updateReportField(ctx, id, "status", string(status))
}

func (s *SQLiteDB) UpdateReportUrgency(ctx context.Context, id string, urgency models.Urgency) (*models.HazardReport, error) {
	return s.updateReportField(ctx, id, "urgency", string(urgency))
}

// updateReportField is last-write-wins: no version token guards concurrent
// authority edits.
func (s *SQLiteDB) updateReportField(ctx context.Context, id, column, value string) (*models.HazardReport, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		value, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating report %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetReport(ctx, id)
}

const reportSelect = `
	SELECT id, user_id, hazard_type, description, location,
	       latitude, longitude, contact_number, image_url,
	       urgency, status, credibility_score, created_at, updated_at
	FROM reports`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.HazardReport, error) {
	var (
		r            models.HazardReport
		lat, lng     sql.NullFloat64
		contact, img sql.NullString
		hazard       string
		urgency      string
		status       string
	)
	err := row.Scan(
		&r.ID, &r.UserID, &hazard, &r.Description, &r.Location,
		&lat, &lng, &contact, &img,
		&urgency, &status, &r.CredibilityScore, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.HazardType = models.HazardType(hazard)
	r.Urgency = models.Urgency(urgency)
	r.Status = models.ReportStatus(status)
	if lat.Valid {
		r.Latitude = &lat.Float64
	}
	if lng.Valid {
		r.Longitude = &lng.Float64
	}
	r.ContactNumber = contact.String
	r.ImageURL = img.String
	return &r, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
