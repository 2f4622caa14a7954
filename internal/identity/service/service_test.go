package service

import (
	"context"
	"testing"
	"time"

	"staffing_crm_backend/internal/auth/token"
	"staffing_crm_backend/internal/events"
	"staffing_crm_backend/internal/identity/repository"
	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rolledBack = true; return nil }

type fakeStore struct {
	orgs         map[uuid.UUID]repository.Organization
	memberships  map[uuid.UUID]uuid.UUID
	invites      map[string]repository.Invite
	domains      map[uuid.UUID][]string
	useInviteErr error
	lastTx       *fakeTx
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orgs:        make(map[uuid.UUID]repository.Organization),
		memberships: make(map[uuid.UUID]uuid.UUID),
		invites:     make(map[string]repository.Invite),
		domains:     make(map[uuid.UUID][]string),
	}
}

func (f *fakeStore) BeginTx(ctx context.Context) (pgx.Tx, error) {
	f.lastTx = &fakeTx{}
	return f.lastTx, nil
}

func (f *fakeStore) CreateOrganization(ctx context.Context, q repository.DBTX, name string, createdBy uuid.UUID) (repository.Organization, error) {
	org := repository.Organization{ID: uuid.New(), Name: name, CreatedBy: createdBy, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.orgs[org.ID] = org
	return org, nil
}

func (f *fakeStore) GetOrganization(ctx context.Context, organizationID uuid.UUID) (repository.Organization, error) {
	org, ok := f.orgs[organizationID]
	if !ok {
		return repository.Organization{}, repository.ErrNotFound
	}
	return org, nil
}

func (f *fakeStore) UpdateOrganizationName(ctx context.Context, organizationID uuid.UUID, name string) (repository.Organization, error) {
	org, ok := f.orgs[organizationID]
	if !ok {
		return repository.Organization{}, repository.ErrNotFound
	}
	org.Name = name
	f.orgs[organizationID] = org
	return org, nil
}

func (f *fakeStore) CreateDomain(ctx context.Context, q repository.DBTX, organizationID uuid.UUID, domain string) error {
	f.domains[organizationID] = append(f.domains[organizationID], domain)
	return nil
}

func (f *fakeStore) ListDomains(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
	return f.domains[organizationID], nil
}

func (f *fakeStore) AddMember(ctx context.Context, q repository.DBTX, organizationID, userID uuid.UUID) error {
	f.memberships[userID] = organizationID
	return nil
}

func (f *fakeStore) GetUserOrganizationID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	orgID, ok := f.memberships[userID]
	if !ok {
		return uuid.UUID{}, repository.ErrNotFound
	}
	return orgID, nil
}

func (f *fakeStore) CreateInvite(ctx context.Context, organizationID uuid.UUID, email, tokenHash string, expiresAt time.Time, createdBy uuid.UUID) (repository.Invite, error) {
	invite := repository.Invite{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Email:          email,
		TokenHash:      tokenHash,
		ExpiresAt:      expiresAt,
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
	}
	f.invites[tokenHash] = invite
	return invite, nil
}

func (f *fakeStore) ListInvites(ctx context.Context, organizationID uuid.UUID) ([]repository.Invite, error) {
	invites := make([]repository.Invite, 0)
	for _, invite := range f.invites {
		if invite.OrganizationID == organizationID {
			invites = append(invites, invite)
		}
	}
	return invites, nil
}

func (f *fakeStore) GetInviteByToken(ctx context.Context, tokenHash string) (repository.Invite, error) {
	invite, ok := f.invites[tokenHash]
	if !ok {
		return repository.Invite{}, repository.ErrNotFound
	}
	return invite, nil
}

func (f *fakeStore) UseInvite(ctx context.Context, q repository.DBTX, inviteID, usedBy uuid.UUID) error {
	if f.useInviteErr != nil {
		return f.useInviteErr
	}
	for hash, invite := range f.invites {
		if invite.ID == inviteID {
			now := time.Now()
			invite.UsedAt = &now
			invite.UsedBy = &usedBy
			f.invites[hash] = invite
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeStore) DeleteInvite(ctx context.Context, organizationID, inviteID uuid.UUID) error {
	for hash, invite := range f.invites {
		if invite.ID == inviteID && invite.OrganizationID == organizationID {
			delete(f.invites, hash)
			return nil
		}
	}
	return repository.ErrNotFound
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

func newTestService(store *fakeStore, bus events.Bus) *Service {
	return New(store, bus, logger.New("development"))
}

func seedInvite(store *fakeStore, rawToken string, expiresAt time.Time) repository.Invite {
	invite := repository.Invite{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Email:          "new.hire@example.com",
		TokenHash:      token.HashSHA256(rawToken),
		ExpiresAt:      expiresAt,
		CreatedBy:      uuid.New(),
		CreatedAt:      time.Now(),
	}
	store.invites[invite.TokenHash] = invite
	return invite
}

func TestProvisionOrganizationClaimsDomain(t *testing.T) {
	store := newFakeStore()
	bus := &captureBus{}
	svc := newTestService(store, bus)
	ownerID := uuid.New()

	org, err := svc.ProvisionOrganization(context.Background(), ownerID, "Summit Staffing", "Summit-Staffing.com", nil)
	if err != nil {
		t.Fatalf("ProvisionOrganization: %v", err)
	}
	if store.memberships[ownerID] != org.ID {
		t.Error("owner was not added as a member")
	}
	domains := store.domains[org.ID]
	if len(domains) != 1 || domains[0] != "summit-staffing.com" {
		t.Errorf("domains = %v, want [summit-staffing.com]", domains)
	}
	if store.lastTx == nil || !store.lastTx.committed {
		t.Error("provisioning transaction was not committed")
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	if _, ok := bus.published[0].(events.OrganizationCreated); !ok {
		t.Errorf("published %T, want events.OrganizationCreated", bus.published[0])
	}
}

func TestProvisionOrganizationRejectsSecondMembership(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})
	ownerID := uuid.New()
	store.memberships[ownerID] = uuid.New()

	_, err := svc.ProvisionOrganization(context.Background(), ownerID, "Summit Staffing", "", nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestRedeemInviteAddsMember(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})
	invite := seedInvite(store, "raw-token", time.Now().Add(time.Hour))
	userID := uuid.New()

	orgID, err := svc.RedeemInvite(context.Background(), "raw-token", userID)
	if err != nil {
		t.Fatalf("RedeemInvite: %v", err)
	}
	if orgID != invite.OrganizationID {
		t.Errorf("orgID = %s, want %s", orgID, invite.OrganizationID)
	}
	if store.memberships[userID] != invite.OrganizationID {
		t.Error("user was not added as a member")
	}
	if store.lastTx == nil || !store.lastTx.committed {
		t.Error("redemption transaction was not committed")
	}
}

func TestRedeemInviteExpired(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})
	seedInvite(store, "raw-token", time.Now().Add(-time.Hour))

	_, err := svc.RedeemInvite(context.Background(), "raw-token", uuid.New())
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("err = %v, want unauthorized", err)
	}
}

func TestRedeemInviteLostRace(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})
	seedInvite(store, "raw-token", time.Now().Add(time.Hour))
	store.useInviteErr = repository.ErrNotFound

	userID := uuid.New()
	_, err := svc.RedeemInvite(context.Background(), "raw-token", userID)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("err = %v, want unauthorized", err)
	}
	if _, ok := store.memberships[userID]; ok {
		t.Error("user was added as a member despite the invite being consumed")
	}
}
