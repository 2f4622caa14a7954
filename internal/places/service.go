// Package places proxies the Google Places nearby search so the capture
// form can list surrounding businesses without exposing the API key.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"
)

const searchNearbyURL = "https://places.googleapis.com/v1/places:searchNearby"

var fieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.location",
	"places.nationalPhoneNumber",
	"places.websiteUri",
	"places.rating",
	"places.userRatingCount",
	"places.primaryTypeDisplayName",
	"places.currentOpeningHours.openNow",
}, ",")

type Service struct {
	client *http.Client
	cfg    config.PlacesConfig
	log    *logger.Logger
}

func NewService(cfg config.PlacesConfig, log *logger.Logger) *Service {
	return &Service{
		client: &http.Client{Timeout: 10 * time.Second},
		cfg:    cfg,
		log:    log,
	}
}

// SearchNearby fetches businesses around the given coordinate and flattens
// them to the form's Business shape.
func (s *Service) SearchNearby(ctx context.Context, lat, lng float64) ([]Business, error) {
	payload := searchNearbyRequest{
		MaxResultCount: s.cfg.GetPlacesMaxResults(),
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: latLng{Latitude: lat, Longitude: lng},
				Radius: s.cfg.GetPlacesSearchRadiusMeters(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal places request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchNearbyURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.cfg.GetPlacesAPIKey())
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.UpstreamError("places", "search_nearby", err)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.UpstreamError("places", "search_nearby", fmt.Errorf("status %d", resp.StatusCode))
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var parsed searchNearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}

	businesses := make([]Business, 0, len(parsed.Places))
	for _, place := range parsed.Places {
		businesses = append(businesses, flattenPlace(place))
	}
	return businesses, nil
}

func flattenPlace(place rawPlace) Business {
	business := Business{
		PlaceID:     place.ID,
		Name:        place.DisplayName.Text,
		Address:     place.FormattedAddress,
		Rating:      place.Rating,
		RatingCount: place.UserRatingCount,
	}
	if place.NationalPhone != "" {
		business.Phone = &place.NationalPhone
	}
	if place.WebsiteURI != "" {
		business.Website = &place.WebsiteURI
	}
	if place.Location != nil {
		business.Lat = &place.Location.Latitude
		business.Lng = &place.Location.Longitude
	}
	if place.PrimaryType != nil && place.PrimaryType.Text != "" {
		business.Category = &place.PrimaryType.Text
	}
	if place.CurrentOpeningHours != nil {
		business.OpenNow = place.CurrentOpeningHours.OpenNow
	}
	return business
}
