// Package intake turns citizen submissions into persisted, scored hazard
// reports and feeds the change stream.
package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/njordr/coastwatch/internal/broadcast"
	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/repository"
	"github.com/njordr/coastwatch/internal/scoring"
	"github.com/njordr/coastwatch/internal/storage"
	"github.com/njordr/coastwatch/internal/worker"
)

// ValidationError means the submission itself is bad; the reporter can
// correct it and resubmit.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// UploadError means the image could not be stored; the submission is
// aborted, nothing is persisted.
type UploadError struct {
	err error
}

func (e *UploadError) Error() string { return "image upload failed: " + e.err.Error() }
func (e *UploadError) Unwrap() error { return e.err }

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type Submission struct {
	UserID        string
	HazardType    string
	Description   string
	Location      string
	Latitude      *float64
	Longitude     *float64
	ContactNumber string
	Urgency       string
	Image         *ImageUpload
}

type Service struct {
	repo   repository.ReportRepository
	images storage.ImageStore // nil when object storage is not configured
	pool   *worker.Pool
}

func NewService(repo repository.ReportRepository, images storage.ImageStore, pool *worker.Pool) *Service {
	return &Service{
		repo:   repo,
		images: images,
		pool:   pool,
	}
}

// Submit validates, uploads the optional image, scores and persists one
// report, then queues the insert event for the live feed. Single attempt:
// any error is terminal for this submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (*models.HazardReport, error) {
	var missing []string
	if strings.TrimSpace(sub.HazardType) == "" {
		missing = append(missing, "hazard_type")
	}
	if strings.TrimSpace(sub.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(sub.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return nil, validationErrorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	hazard, ok := models.ParseHazardType(sub.HazardType)
	if !ok {
		return nil, validationErrorf("unknown hazard type %q", sub.HazardType)
	}

	urgency := models.UrgencyMedium
	if strings.TrimSpace(sub.Urgency) != "" {
		urgency, ok = models.ParseUrgency(sub.Urgency)
		if !ok {
			return nil, validationErrorf("unknown urgency %q", sub.Urgency)
		}
	}

	if (sub.Latitude == nil) != (sub.Longitude == nil) {
		return nil, validationErrorf("latitude and longitude must be provided together")
	}

	imageURL := ""
	if sub.Image != nil {
		if s.images == nil {
			return nil, &UploadError{err: errors.New("image storage not configured")}
		}
		key := storage.ObjectKey(sub.Image.Filename)
		url, err := s.images.Upload(ctx, key, sub.Image.Reader, sub.Image.Size, sub.Image.ContentType)
		if err != nil {
			return nil, &UploadError{err: err}
		}
		imageURL = url
	}

	hasLocation := sub.Latitude != nil && sub.Longitude != nil
	// No proximity query exists yet, so the nearby term never fires.
	score := scoring.Score(imageURL != "", hasLocation, len(sub.Description), 0)

	now := time.Now().UTC()
	report := &models.HazardReport{
		ID:               uuid.NewString(),
		UserID:           sub.UserID,
		HazardType:       hazard,
		Description:      sub.Description,
		Location:         sub.Location,
		Latitude:         sub.Latitude,
		Longitude:        sub.Longitude,
		ContactNumber:    sub.ContactNumber,
		ImageURL:         imageURL,
		Urgency:          urgency,
		Status:           models.StatusSubmitted,
		CredibilityScore: score,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.AddReport(ctx, report); err != nil {
		return nil, fmt.Errorf("error persisting report: %w", err)
	}

	s.pool.Submit(broadcast.Event{Type: broadcast.EventReportInsert, Report: report})

	slog.Info("report submitted",
		"id", report.ID,
		"hazard_type", report.HazardType,
		"urgency", report.Urgency,
		"score", report.CredibilityScore,
	)
	return report, nil
}

// SetStatus records an authority's review decision. Any status may follow
// any other; there is no lifecycle lock.
func (s *Service) SetStatus(ctx context.Context, id string, status models.ReportStatus) (*models.HazardReport, error) {
	report, err := s.repo.UpdateReportStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("error updating status: %w", err)
	}
	if report == nil {
		return nil, nil
	}
	s.pool.Submit(broadcast.Event{Type: broadcast.EventReportUpdate, Report: report})
	return report, nil
}

func (s *Service) SetUrgency(ctx context.Context, id string, urgency models.Urgency) (*models.HazardReport, error) {
	report, err := s.repo.UpdateReportUrgency(ctx, id, urgency)
	if err != nil {
		return nil, fmt.Errorf("error updating urgency: %w", err)
	}
	if report == nil {
		return nil, nil
	}
	s.pool.Submit(broadcast.Event{Type: broadcast.EventReportUpdate, Report: report})
	return report, nil
}
