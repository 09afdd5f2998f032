// Package scoring computes the credibility score attached to every hazard
// report at intake time, and the band buckets the dashboard filters on.
package scoring

import (
	"math"
	"strings"
)

// Score estimates how trustworthy a submission is from its metadata alone.
// Base 0.1, plus 0.3 for an attached image, 0.2 for shared coordinates,
// 0.1 for a description longer than 50 characters and 0.3 when other
// reports exist nearby, clamped to 1.0. Deterministic, no side effects.
func Score(hasImage, hasLocation bool, descriptionLength, nearbyReportsCount int) float64 {
	s := 0.1
	if hasImage {
		s += 0.3
	}
	if hasLocation {
		s += 0.2
	}
	if descriptionLength > 50 {
		s += 0.1
	}
	if nearbyReportsCount > 0 {
		s += 0.3
	}
	if s > 1.0 {
		s = 1.0
	}
	return Round(s)
}

// Round normalizes a score to the two decimal places it is stored with.
func Round(s float64) float64 {
	return math.Round(s*100) / 100
}

type Band string

const (
	BandHigh   Band = "high"   // score >= 0.70
	BandMedium Band = "medium" // 0.40 <= score < 0.70
	BandLow    Band = "low"    // score < 0.40
)

// BandOf buckets a score into the credibility band the dashboard filters
// on. Boundaries are half-open: 0.70 is high, 0.40 is medium.
func BandOf(score float64) Band {
	switch {
	case score >= 0.70:
		return BandHigh
	case score >= 0.40:
		return BandMedium
	default:
		return BandLow
	}
}

func ParseBand(s string) (Band, bool) {
	switch Band(strings.ToLower(strings.TrimSpace(s))) {
	case BandHigh:
		return BandHigh, true
	case BandMedium:
		return BandMedium, true
	case BandLow:
		return BandLow, true
	default:
		return "", false
	}
}

// Range returns the band's score interval [min, max). BandHigh's upper
// bound sits above the score ceiling so a perfect 1.00 is included.
func (b Band) Range() (min, max float64) {
	switch b {
	case BandHigh:
		return 0.70, 1.01
	case BandMedium:
		return 0.40, 0.70
	default:
		return 0, 0.40
	}
}
