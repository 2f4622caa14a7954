// Package domain holds the pure lead domain logic: geographic matching of
// previous calls and call-history summaries. No I/O, no framework imports.
package domain

import (
	"math"
	"sort"

	"staffing_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	// earthRadiusMeters is the mean Earth radius used by the haversine formula.
	earthRadiusMeters = 6371000.0

	feetPerMeter = 3.28084
)

// Coordinate is an observer position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Candidate is a lead position up for proximity matching. Coordinates are
// pointers because most leads are captured without one.
type Candidate struct {
	ID  uuid.UUID
	Lat *float64
	Lng *float64
}

// Match is a candidate within the search radius.
type Match struct {
	ID             uuid.UUID
	DistanceMeters float64
}

// FindNearby returns the candidates within radiusMeters of the observer,
// closest first, capped at maxResults. Candidates without a finite pair of
// coordinates are skipped. Equidistant candidates keep their input order.
func FindNearby(observer Coordinate, candidates []Candidate, radiusMeters float64, maxResults int) ([]Match, error) {
	if !isFinite(observer.Lat) || !isFinite(observer.Lng) {
		return nil, apperr.Validation("observer coordinates must be finite numbers")
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Lat == nil || candidate.Lng == nil {
			continue
		}
		if !isFinite(*candidate.Lat) || !isFinite(*candidate.Lng) {
			continue
		}

		distance := Haversine(observer.Lat, observer.Lng, *candidate.Lat, *candidate.Lng)
		if distance <= radiusMeters {
			matches = append(matches, Match{ID: candidate.ID, DistanceMeters: distance})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceMeters < matches[j].DistanceMeters
	})

	if maxResults >= 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	return matches, nil
}

// Haversine computes the great-circle distance in meters between two points
// given in decimal degrees.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaPhi := toRadians(lat2 - lat1)
	deltaLambda := toRadians(lng2 - lng1)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// MetersToFeet converts a distance for display alongside the metric value.
func MetersToFeet(meters float64) float64 {
	return meters * feetPerMeter
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
