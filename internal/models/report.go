package models

import (
	"strings"
	"time"
)

type HazardType string

const (
	HazardTypeCoastalFlooding HazardType = "coastal_flooding"
	HazardTypeHighWaves       HazardType = "high_waves"
	HazardTypeStormSurge      HazardType = "storm_surge"
	HazardTypeErosion         HazardType = "erosion"
	HazardTypeTsunamiWarning  HazardType = "tsunami_warning"
	HazardTypeStrongWinds     HazardType = "strong_winds"
	HazardTypeOther           HazardType = "other"
)

func ParseHazardType(s string) (HazardType, bool) {
	switch HazardType(strings.ToLower(strings.TrimSpace(s))) {
	case HazardTypeCoastalFlooding:
		return HazardTypeCoastalFlooding, true
	case HazardTypeHighWaves:
		return HazardTypeHighWaves, true
	case HazardTypeStormSurge:
		return HazardTypeStormSurge, true
	case HazardTypeErosion:
		return HazardTypeErosion, true
	case HazardTypeTsunamiWarning:
		return HazardTypeTsunamiWarning, true
	case HazardTypeStrongWinds:
		return HazardTypeStrongWinds, true
	case HazardTypeOther:
		return HazardTypeOther, true
	default:
		return "", false
	}
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func ParseUrgency(s string) (Urgency, bool) {
	switch Urgency(strings.ToLower(strings.TrimSpace(s))) {
	case UrgencyLow:
		return UrgencyLow, true
	case UrgencyMedium:
		return UrgencyMedium, true
	case UrgencyHigh:
		return UrgencyHigh, true
	default:
		return "", false
	}
}

type ReportStatus string

const (
	StatusSubmitted   ReportStatus = "submitted"
	StatusUnderReview ReportStatus = "under_review"
	StatusResolved    ReportStatus = "resolved"
	StatusDismissed   ReportStatus = "dismissed"
)

func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusSubmitted:
		return StatusSubmitted, true
	case StatusUnderReview:
		return StatusUnderReview, true
	case StatusResolved:
		return StatusResolved, true
	case StatusDismissed:
		return StatusDismissed, true
	default:
		return "", false
	}
}

type HazardReport struct {
	ID               string       `json:"id"`
	UserID           string       `json:"user_id"`
	HazardType       HazardType   `json:"hazard_type"`
	Description      string       `json:"description"`
	Location         string       `json:"location"` // free-text place name entered by the reporter
	Latitude         *float64     `json:"latitude,omitempty"`
	Longitude        *float64     `json:"longitude,omitempty"`
	ContactNumber    string       `json:"contact_number,omitempty"`
	ImageURL         string       `json:"image_url,omitempty"`
	Urgency          Urgency      `json:"urgency"`
	Status           ReportStatus `json:"status"`
	CredibilityScore float64      `json:"credibility_score"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Coordinates returns the report's map position, if the reporter shared one.
func (r *HazardReport) Coordinates() (Coordinates, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}, true
}
