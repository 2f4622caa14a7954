package service

import (
	"context"
	"testing"
	"time"

	"staffing_crm_backend/internal/events"
	"staffing_crm_backend/internal/leads/repository"
	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads map[uuid.UUID]repository.Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:              uuid.New(),
		OrganizationID:  params.OrganizationID,
		Company:         params.Company,
		ContactName:     params.ContactName,
		ContactEmail:    params.ContactEmail,
		ContactPhone:    params.ContactPhone,
		Status:          params.Status,
		Rating:          params.Rating,
		Source:          params.Source,
		Note:            params.Note,
		OwnerUserID:     params.OwnerUserID,
		CreatedByUserID: params.CreatedByUserID,
		Latitude:        params.Latitude,
		Longitude:       params.Longitude,
		CallHistory:     params.CallHistory,
		NoteHistory:     params.NoteHistory,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok || lead.OrganizationID != organizationID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) Update(ctx context.Context, params repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[params.ID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if params.Company != nil {
		lead.Company = *params.Company
	}
	if params.ContactPhone != nil {
		lead.ContactPhone = *params.ContactPhone
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	f.leads[params.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) AppendHistory(ctx context.Context, params repository.AppendHistoryParams) (repository.Lead, error) {
	lead, ok := f.leads[params.ID]
	if !ok || lead.OrganizationID != params.OrganizationID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.CallHistory = append(lead.CallHistory, params.Call)
	if params.Note != nil {
		lead.NoteHistory = append(lead.NoteHistory, *params.Note)
	}
	if params.Status != "" {
		lead.Status = params.Status
	}
	if params.Rating != "" {
		lead.Rating = params.Rating
	}
	f.leads[params.ID] = lead
	return lead, nil
}

func (f *fakeRepo) ListRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]repository.Lead, error) {
	return f.list(organizationID), nil
}

func (f *fakeRepo) Search(ctx context.Context, organizationID uuid.UUID, query string, limit int) ([]repository.Lead, error) {
	return f.list(organizationID), nil
}

func (f *fakeRepo) ListWithLocation(ctx context.Context, organizationID uuid.UUID, limit int) ([]repository.Lead, error) {
	leads := make([]repository.Lead, 0)
	for _, lead := range f.list(organizationID) {
		if lead.Latitude != nil && lead.Longitude != nil {
			leads = append(leads, lead)
		}
	}
	return leads, nil
}

func (f *fakeRepo) list(organizationID uuid.UUID) []repository.Lead {
	leads := make([]repository.Lead, 0)
	for _, lead := range f.leads {
		if lead.OrganizationID == organizationID {
			leads = append(leads, lead)
		}
	}
	return leads
}

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *captureBus) Subscribe(eventName string, handler events.Handler) {}

type fakeGeofenceConfig struct {
	radius float64
	max    int
}

func (c fakeGeofenceConfig) GetNearbyRadiusMeters() float64 { return c.radius }
func (c fakeGeofenceConfig) GetNearbyMaxResults() int       { return c.max }

func newTestService(repo repository.Repository, bus events.Bus) *Service {
	return New(repo, fakeGeofenceConfig{radius: 300, max: 5}, bus, logger.New("development"))
}

func ptr(v float64) *float64 { return &v }

func TestCreateRequiresCompanyOrContactName(t *testing.T) {
	svc := newTestService(newFakeRepo(), &captureBus{})

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateLeadInput{
		ContactPhone: "512-555-0100",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSeedsHistoryAndPublishesEvent(t *testing.T) {
	repo := newFakeRepo()
	bus := &captureBus{}
	svc := newTestService(repo, bus)
	orgID, userID := uuid.New(), uuid.New()

	lead, err := svc.Create(context.Background(), orgID, userID, CreateLeadInput{
		Company: "Acme Corp",
		Status:  "Call Back",
		Rating:  "Warm",
		Note:    "Ask for the plant manager",
	})
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}

	if len(lead.CallHistory) != 1 {
		t.Fatalf("expected 1 call history entry, got %d", len(lead.CallHistory))
	}
	if lead.CallHistory[0].Status != "Call Back" || lead.CallHistory[0].UserID != userID {
		t.Errorf("unexpected call entry: %+v", lead.CallHistory[0])
	}
	if len(lead.NoteHistory) != 1 || lead.NoteHistory[0].Text != "Ask for the plant manager" {
		t.Errorf("unexpected note history: %+v", lead.NoteHistory)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	created, ok := bus.published[0].(events.LeadCreated)
	if !ok {
		t.Fatalf("expected LeadCreated event, got %T", bus.published[0])
	}
	if created.LeadID != lead.ID || created.Company != "Acme Corp" {
		t.Errorf("unexpected event payload: %+v", created)
	}
}

func TestCreateDefaultsStatus(t *testing.T) {
	svc := newTestService(newFakeRepo(), &captureBus{})

	lead, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateLeadInput{
		Company: "Acme Corp",
	})
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}
	if lead.Status != "New Contact" {
		t.Errorf("Status = %q, expected %q", lead.Status, "New Contact")
	}
	if len(lead.NoteHistory) != 0 {
		t.Errorf("expected empty note history without a note, got %+v", lead.NoteHistory)
	}
}

func TestLogCallAppendsHistoryAndRollsStatus(t *testing.T) {
	repo := newFakeRepo()
	bus := &captureBus{}
	svc := newTestService(repo, bus)
	orgID, userID := uuid.New(), uuid.New()

	lead, err := svc.Create(context.Background(), orgID, userID, CreateLeadInput{Company: "Acme Corp"})
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}

	updated, err := svc.LogCall(context.Background(), orgID, userID, lead.ID, LogCallInput{
		Status:   "Not Interested",
		Rating:   "Cold",
		CallType: "Walk-in",
		Note:     "Fully staffed until spring",
	})
	if err != nil {
		t.Fatalf("LogCall() returned error: %v", err)
	}

	if len(updated.CallHistory) != 2 {
		t.Fatalf("expected 2 call history entries, got %d", len(updated.CallHistory))
	}
	if updated.Status != "Not Interested" || updated.Rating != "Cold" {
		t.Errorf("status/rating not rolled forward: %q %q", updated.Status, updated.Rating)
	}
	if len(updated.NoteHistory) != 1 || updated.NoteHistory[0].NoteType != "call" {
		t.Errorf("unexpected note history: %+v", updated.NoteHistory)
	}

	var logged bool
	for _, event := range bus.published {
		if _, ok := event.(events.CallLogged); ok {
			logged = true
		}
		if _, ok := event.(events.FollowUpScheduled); ok {
			t.Error("unexpected FollowUpScheduled event without a follow-up date")
		}
	}
	if !logged {
		t.Error("expected a CallLogged event")
	}
}

func TestLogCallWithFollowUpSchedulesReminder(t *testing.T) {
	repo := newFakeRepo()
	bus := &captureBus{}
	svc := newTestService(repo, bus)
	orgID, userID := uuid.New(), uuid.New()

	lead, err := svc.Create(context.Background(), orgID, userID, CreateLeadInput{Company: "Acme Corp"})
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}

	followUp := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	updated, err := svc.LogCall(context.Background(), orgID, userID, lead.ID, LogCallInput{
		Status:       "Call Back",
		FollowUpDate: &followUp,
	})
	if err != nil {
		t.Fatalf("LogCall() returned error: %v", err)
	}

	if len(updated.NoteHistory) != 1 {
		t.Fatalf("expected a note entry for the follow-up, got %+v", updated.NoteHistory)
	}
	if updated.NoteHistory[0].NoteType != "follow-up" || updated.NoteHistory[0].FollowUpDate != "2026-09-15" {
		t.Errorf("unexpected follow-up note: %+v", updated.NoteHistory[0])
	}

	var scheduled *events.FollowUpScheduled
	for _, event := range bus.published {
		if e, ok := event.(events.FollowUpScheduled); ok {
			scheduled = &e
		}
	}
	if scheduled == nil {
		t.Fatal("expected a FollowUpScheduled event")
	}
	if scheduled.LeadID != lead.ID || !scheduled.FollowUpAt.Equal(followUp) {
		t.Errorf("unexpected event payload: %+v", scheduled)
	}
}

func TestLogCallRequiresStatus(t *testing.T) {
	svc := newTestService(newFakeRepo(), &captureBus{})

	_, err := svc.LogCall(context.Background(), uuid.New(), uuid.New(), uuid.New(), LogCallInput{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNearbyPreviousCalls(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &captureBus{})
	orgID, userID := uuid.New(), uuid.New()

	// 30.2672 N is the observer; one lead ~100m north, one ~2km north.
	near, err := svc.Create(context.Background(), orgID, userID, CreateLeadInput{
		Company:   "Close Staffing",
		Status:    "Call Back",
		Rating:    "Warm",
		Latitude:  ptr(30.26810),
		Longitude: ptr(-97.7431),
	})
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}
	if _, err := svc.Create(context.Background(), orgID, userID, CreateLeadInput{
		Company:   "Far Logistics",
		Latitude:  ptr(30.2852),
		Longitude: ptr(-97.7431),
	}); err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}
	if _, err := svc.Create(context.Background(), orgID, userID, CreateLeadInput{
		Company: "No Location Co",
	}); err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}

	nearby, err := svc.NearbyPreviousCalls(context.Background(), orgID, 30.2672, -97.7431)
	if err != nil {
		t.Fatalf("NearbyPreviousCalls() returned error: %v", err)
	}

	if len(nearby) != 1 {
		t.Fatalf("expected 1 nearby lead, got %d", len(nearby))
	}
	got := nearby[0]
	if got.ID != near.ID {
		t.Errorf("nearby lead = %q, expected %q", got.Company, "Close Staffing")
	}
	if got.DistanceMeters <= 0 || got.DistanceMeters > 300 {
		t.Errorf("DistanceMeters = %f, expected within (0, 300]", got.DistanceMeters)
	}
	wantFeet := got.DistanceMeters * 3.28084
	if diff := got.DistanceFeet - wantFeet; diff > 0.001 || diff < -0.001 {
		t.Errorf("DistanceFeet = %f, expected %f", got.DistanceFeet, wantFeet)
	}
	if got.LastCallSummary == "" {
		t.Error("expected a last call summary for a lead with call history")
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	svc := newTestService(newFakeRepo(), &captureBus{})

	if _, err := svc.Search(context.Background(), uuid.New(), "   "); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
