package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/scoring"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// dashboardGeoJSON renders the live feed as map markers. Reports without
// coordinates have no marker and are skipped.
func (h *Handler) dashboardGeoJSON(c *gin.Context) {
	fc := toGeoJSON(h.feed.Snapshot(feedFilter(c)))
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func toGeoJSON(reports []models.HazardReport) FeatureCollection {
	features := make([]Feature, 0, len(reports))

	for i := range reports {
		r := &reports[i]
		coords, ok := r.Coordinates()
		if !ok {
			continue
		}
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{coords.Longitude, coords.Latitude},
			},
			Properties: map[string]any{
				"id":                r.ID,
				"hazard_type":       r.HazardType,
				"description":       r.Description,
				"location":          r.Location,
				"urgency":           r.Urgency,
				"status":            r.Status,
				"credibility_score": r.CredibilityScore,
				"credibility_band":  scoring.BandOf(r.CredibilityScore),
				"image_url":         r.ImageURL,
				"created_at":        r.CreatedAt,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
