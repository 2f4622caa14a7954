package domain

import (
	"math"
	"testing"

	"staffing_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

func ptr(v float64) *float64 { return &v }

func TestHaversineKnownDistances(t *testing.T) {
	cases := []struct {
		name           string
		lat1, lng1     float64
		lat2, lng2     float64
		expectedMeters float64
	}{
		// One degree of latitude along a meridian is pi*R/180.
		{"one degree latitude", 0, 0, 1, 0, 111194.93},
		// Small northward offset, the geofence scale we care about.
		{"300m north", 30.2672, -97.7431, 30.26990, -97.7431, 300.2},
		{"same point", 30.2672, -97.7431, 30.2672, -97.7431, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Haversine(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			tolerance := tc.expectedMeters * 0.01
			if tolerance < 0.5 {
				tolerance = 0.5
			}
			if math.Abs(got-tc.expectedMeters) > tolerance {
				t.Errorf("Haversine() = %.2f, expected %.2f ± %.2f", got, tc.expectedMeters, tolerance)
			}
		})
	}
}

// A swapped atan2 argument order yields a near-antipodal distance for nearby
// points. This guards the formula against that mistake.
func TestHaversineSmallDistanceNotAntipodal(t *testing.T) {
	got := Haversine(30.2672, -97.7431, 30.2673, -97.7432)
	if got > 1000 {
		t.Fatalf("Haversine() = %.2f for points ~15m apart; formula is wrong", got)
	}
}

func TestFindNearbyFiltersSortsAndCaps(t *testing.T) {
	observer := Coordinate{Lat: 30.2672, Lng: -97.7431}

	far := Candidate{ID: uuid.New(), Lat: ptr(30.28), Lng: ptr(-97.7431)}    // ~1.4km
	near := Candidate{ID: uuid.New(), Lat: ptr(30.26725), Lng: ptr(-97.7431)} // ~6m
	mid := Candidate{ID: uuid.New(), Lat: ptr(30.2681), Lng: ptr(-97.7431)}   // ~100m
	edge := Candidate{ID: uuid.New(), Lat: ptr(30.2690), Lng: ptr(-97.7431)}  // ~200m

	matches, err := FindNearby(observer, []Candidate{far, edge, near, mid}, 300, 5)
	if err != nil {
		t.Fatalf("FindNearby() returned error: %v", err)
	}

	if len(matches) != 3 {
		t.Fatalf("expected 3 matches inside radius, got %d", len(matches))
	}
	if matches[0].ID != near.ID || matches[1].ID != mid.ID || matches[2].ID != edge.ID {
		t.Errorf("matches not sorted by ascending distance: %+v", matches)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].DistanceMeters < matches[i-1].DistanceMeters {
			t.Errorf("distances out of order at %d: %+v", i, matches)
		}
	}

	capped, err := FindNearby(observer, []Candidate{far, edge, near, mid}, 300, 2)
	if err != nil {
		t.Fatalf("FindNearby() returned error: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("expected cap of 2 matches, got %d", len(capped))
	}
	if capped[0].ID != near.ID || capped[1].ID != mid.ID {
		t.Errorf("cap should keep the closest matches: %+v", capped)
	}
}

func TestFindNearbySkipsUnusableCandidates(t *testing.T) {
	observer := Coordinate{Lat: 30.2672, Lng: -97.7431}
	usable := Candidate{ID: uuid.New(), Lat: ptr(30.2672), Lng: ptr(-97.7431)}

	candidates := []Candidate{
		{ID: uuid.New()},                                                  // no coordinates
		{ID: uuid.New(), Lat: ptr(30.2672)},                               // missing lng
		{ID: uuid.New(), Lat: ptr(math.NaN()), Lng: ptr(-97.7431)},        // NaN
		{ID: uuid.New(), Lat: ptr(30.2672), Lng: ptr(math.Inf(1))},        // Inf
		usable,
	}

	matches, err := FindNearby(observer, candidates, 300, 5)
	if err != nil {
		t.Fatalf("FindNearby() returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != usable.ID {
		t.Fatalf("expected only the usable candidate, got %+v", matches)
	}
}

func TestFindNearbyRejectsNonFiniteObserver(t *testing.T) {
	candidates := []Candidate{{ID: uuid.New(), Lat: ptr(30.0), Lng: ptr(-97.0)}}

	for _, observer := range []Coordinate{
		{Lat: math.NaN(), Lng: -97.7431},
		{Lat: 30.2672, Lng: math.Inf(-1)},
	} {
		matches, err := FindNearby(observer, candidates, 300, 5)
		if err == nil {
			t.Fatalf("expected error for observer %+v", observer)
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
		if matches != nil {
			t.Errorf("expected nil matches on error, got %+v", matches)
		}
	}
}

func TestFindNearbyStableForEquidistantCandidates(t *testing.T) {
	observer := Coordinate{Lat: 30.2672, Lng: -97.7431}
	first := Candidate{ID: uuid.New(), Lat: ptr(30.2675), Lng: ptr(-97.7431)}
	second := Candidate{ID: uuid.New(), Lat: ptr(30.2675), Lng: ptr(-97.7431)}

	matches, err := FindNearby(observer, []Candidate{first, second}, 300, 5)
	if err != nil {
		t.Fatalf("FindNearby() returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != first.ID || matches[1].ID != second.ID {
		t.Errorf("equidistant candidates should keep input order: %+v", matches)
	}
}

func TestFindNearbyDoesNotMutateInput(t *testing.T) {
	observer := Coordinate{Lat: 30.2672, Lng: -97.7431}
	a := Candidate{ID: uuid.New(), Lat: ptr(30.2690), Lng: ptr(-97.7431)}
	b := Candidate{ID: uuid.New(), Lat: ptr(30.2675), Lng: ptr(-97.7431)}
	input := []Candidate{a, b}

	if _, err := FindNearby(observer, input, 300, 5); err != nil {
		t.Fatalf("FindNearby() returned error: %v", err)
	}

	if input[0].ID != a.ID || input[1].ID != b.ID {
		t.Errorf("input slice was reordered: %+v", input)
	}
}

func TestMetersToFeet(t *testing.T) {
	if got := MetersToFeet(100); math.Abs(got-328.084) > 0.001 {
		t.Errorf("MetersToFeet(100) = %v, expected 328.084", got)
	}
}
