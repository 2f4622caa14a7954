// Package service implements the leads business logic.
package service

import (
	"context"
	"strings"
	"time"

	"staffing_crm_backend/internal/events"
	"staffing_crm_backend/internal/leads/domain"
	"staffing_crm_backend/internal/leads/repository"
	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"
	"staffing_crm_backend/platform/phone"
	"staffing_crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	recentLeadsLimit  = 200
	searchLeadsLimit  = 25
	locationScanLimit = 10000
	defaultLeadStatus = "New Contact"
	defaultNoteType   = "call"
	followUpNoteType  = "follow-up"
)

// Service implements the leads use cases.
type Service struct {
	repo repository.Repository
	cfg  config.GeofenceConfig
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, cfg config.GeofenceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// CreateLeadInput carries the sanitized intake form for a new lead.
type CreateLeadInput struct {
	Company         string
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	Website         string
	ContactTitle    string
	BuyingRole      string
	Industry        string
	Status          string
	Rating          string
	Source          string
	Note            string
	Latitude        *float64
	Longitude       *float64
	LocationSource  string
	LocationRaw     string
	PrimaryImageURL string
}

// Create stores a new lead. Either a company or a contact name must be
// present. When an initial status or note is supplied the histories are
// seeded so the timeline starts at intake.
func (s *Service) Create(ctx context.Context, orgID, userID uuid.UUID, input CreateLeadInput) (repository.Lead, error) {
	company := sanitize.Text(input.Company)
	contactName := sanitize.Text(input.ContactName)
	if company == "" && contactName == "" {
		return repository.Lead{}, apperr.Validation("either company or contact name is required")
	}

	status := sanitize.Text(input.Status)
	if status == "" {
		status = defaultLeadStatus
	}

	params := repository.CreateLeadParams{
		OrganizationID:  orgID,
		Company:         company,
		ContactName:     contactName,
		ContactEmail:    strings.TrimSpace(strings.ToLower(input.ContactEmail)),
		ContactPhone:    phone.NormalizeE164(input.ContactPhone),
		Website:         strings.TrimSpace(input.Website),
		ContactTitle:    sanitize.Text(input.ContactTitle),
		BuyingRole:      sanitize.Text(input.BuyingRole),
		Industry:        sanitize.Text(input.Industry),
		Status:          status,
		Rating:          sanitize.Text(input.Rating),
		Source:          sanitize.Text(input.Source),
		Note:            sanitize.Text(input.Note),
		OwnerUserID:     &userID,
		CreatedByUserID: userID,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		LocationSource:  sanitize.Text(input.LocationSource),
		LocationRaw:     sanitize.Text(input.LocationRaw),
		PrimaryImageURL: strings.TrimSpace(input.PrimaryImageURL),
	}

	entry := domain.NewCallEntry(status, params.Rating, "", params.Note, userID)
	params.CallHistory = []domain.CallEntry{entry}
	if params.Note != "" {
		params.NoteHistory = []domain.NoteEntry{{
			Date:            entry.Date,
			NoteType:        defaultNoteType,
			Text:            params.Note,
			EnteredByUserID: userID,
		}}
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		OrganizationID: orgID,
		Company:        lead.Company,
		ContactName:    lead.ContactName,
		Source:         lead.Source,
		CreatedBy:      userID,
	})

	return lead, nil
}

// Get fetches a single lead scoped to the organization.
func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

// Update applies a partial update to a lead's display fields.
func (s *Service) Update(ctx context.Context, params repository.UpdateLeadParams) (repository.Lead, error) {
	if params.ContactPhone != nil {
		normalized := phone.NormalizeE164(*params.ContactPhone)
		params.ContactPhone = &normalized
	}
	params.Company = sanitize.TextPtr(params.Company)
	params.ContactName = sanitize.TextPtr(params.ContactName)
	params.ContactTitle = sanitize.TextPtr(params.ContactTitle)
	params.BuyingRole = sanitize.TextPtr(params.BuyingRole)
	params.Industry = sanitize.TextPtr(params.Industry)
	params.Status = sanitize.TextPtr(params.Status)
	params.Rating = sanitize.TextPtr(params.Rating)
	params.Note = sanitize.TextPtr(params.Note)

	return s.repo.Update(ctx, params)
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.repo.Delete(ctx, orgID, id)
}

// LogCallInput is one call to record against a lead.
type LogCallInput struct {
	Status       string
	Rating       string
	CallType     string
	Note         string
	FollowUpDate *time.Time
}

// LogCall appends a call entry (and a note entry when a note or follow-up
// is supplied) to the lead's history and rolls the lead's current status
// and rating forward. A follow-up date schedules a reminder.
func (s *Service) LogCall(ctx context.Context, orgID, userID, leadID uuid.UUID, input LogCallInput) (repository.Lead, error) {
	status := sanitize.Text(input.Status)
	if status == "" {
		return repository.Lead{}, apperr.Validation("call status is required")
	}

	note := sanitize.Text(input.Note)
	entry := domain.NewCallEntry(status, sanitize.Text(input.Rating), sanitize.Text(input.CallType), note, userID)

	params := repository.AppendHistoryParams{
		ID:             leadID,
		OrganizationID: orgID,
		Call:           entry,
		Status:         entry.Status,
		Rating:         entry.Rating,
	}

	if note != "" || input.FollowUpDate != nil {
		noteEntry := domain.NoteEntry{
			Date:            entry.Date,
			NoteType:        defaultNoteType,
			Text:            note,
			EnteredByUserID: userID,
		}
		if input.FollowUpDate != nil {
			noteEntry.NoteType = followUpNoteType
			noteEntry.FollowUpDate = input.FollowUpDate.UTC().Format("2006-01-02")
		}
		params.Note = &noteEntry
	}

	lead, err := s.repo.AppendHistory(ctx, params)
	if err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, events.CallLogged{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		OrganizationID: orgID,
		Status:         entry.Status,
		Rating:         entry.Rating,
		CallType:       entry.CallType,
		UserID:         userID,
	})

	if input.FollowUpDate != nil {
		s.bus.Publish(ctx, events.FollowUpScheduled{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         lead.ID,
			OrganizationID: orgID,
			OwnerUserID:    userID,
			Company:        lead.Company,
			ContactName:    lead.ContactName,
			FollowUpAt:     input.FollowUpDate.UTC(),
			Note:           note,
		})
	}

	return lead, nil
}

// ListRecent returns the most recently touched leads.
func (s *Service) ListRecent(ctx context.Context, orgID uuid.UUID) ([]repository.Lead, error) {
	return s.repo.ListRecent(ctx, orgID, recentLeadsLimit)
}

// Search finds leads by company, contact name, email or phone fragment.
func (s *Service) Search(ctx context.Context, orgID uuid.UUID, query string) ([]repository.Lead, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search query is required")
	}
	return s.repo.Search(ctx, orgID, query, searchLeadsLimit)
}

// NearbyLead is one previously called lead within the geofence radius of
// the rep's current position.
type NearbyLead struct {
	ID              uuid.UUID `json:"id"`
	Company         string    `json:"company"`
	ContactName     string    `json:"contactName"`
	Status          string    `json:"status"`
	Rating          string    `json:"rating"`
	DistanceMeters  float64   `json:"distanceMeters"`
	DistanceFeet    float64   `json:"distanceFeet"`
	LastCallSummary string    `json:"lastCallSummary"`
}

// NearbyPreviousCalls returns leads with a recorded location within the
// configured radius of the observer, nearest first.
func (s *Service) NearbyPreviousCalls(ctx context.Context, orgID uuid.UUID, lat, lng float64) ([]NearbyLead, error) {
	leads, err := s.repo.ListWithLocation(ctx, orgID, locationScanLimit)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(leads))
	byID := make(map[uuid.UUID]repository.Lead, len(leads))
	for _, lead := range leads {
		candidates = append(candidates, domain.Candidate{ID: lead.ID, Lat: lead.Latitude, Lng: lead.Longitude})
		byID[lead.ID] = lead
	}

	matches, err := domain.FindNearby(
		domain.Coordinate{Lat: lat, Lng: lng},
		candidates,
		s.cfg.GetNearbyRadiusMeters(),
		s.cfg.GetNearbyMaxResults(),
	)
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyLead, 0, len(matches))
	for _, match := range matches {
		lead := byID[match.ID]
		nearby = append(nearby, NearbyLead{
			ID:              lead.ID,
			Company:         lead.Company,
			ContactName:     lead.ContactName,
			Status:          lead.Status,
			Rating:          lead.Rating,
			DistanceMeters:  match.DistanceMeters,
			DistanceFeet:    domain.MetersToFeet(match.DistanceMeters),
			LastCallSummary: domain.LastCallSummary(lead.CallHistory),
		})
	}
	return nearby, nil
}
