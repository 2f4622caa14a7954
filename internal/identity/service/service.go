// Package service implements organization onboarding, membership and
// teammate invites.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"staffing_crm_backend/internal/auth/token"
	"staffing_crm_backend/internal/events"
	"staffing_crm_backend/internal/identity/repository"
	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/logger"
	"staffing_crm_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	inviteTokenBytes = 32
	inviteTTL        = 72 * time.Hour

	msgInviteInvalid        = "invite invalid or expired"
	msgOrganizationNotFound = "organization not found"
)

// Store is the persistence surface the service needs. Satisfied by
// repository.Repository.
type Store interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateOrganization(ctx context.Context, q repository.DBTX, name string, createdBy uuid.UUID) (repository.Organization, error)
	GetOrganization(ctx context.Context, organizationID uuid.UUID) (repository.Organization, error)
	UpdateOrganizationName(ctx context.Context, organizationID uuid.UUID, name string) (repository.Organization, error)
	CreateDomain(ctx context.Context, q repository.DBTX, organizationID uuid.UUID, domain string) error
	ListDomains(ctx context.Context, organizationID uuid.UUID) ([]string, error)
	AddMember(ctx context.Context, q repository.DBTX, organizationID, userID uuid.UUID) error
	GetUserOrganizationID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	CreateInvite(ctx context.Context, organizationID uuid.UUID, email, tokenHash string, expiresAt time.Time, createdBy uuid.UUID) (repository.Invite, error)
	ListInvites(ctx context.Context, organizationID uuid.UUID) ([]repository.Invite, error)
	GetInviteByToken(ctx context.Context, tokenHash string) (repository.Invite, error)
	UseInvite(ctx context.Context, q repository.DBTX, inviteID, usedBy uuid.UUID) error
	DeleteInvite(ctx context.Context, organizationID, inviteID uuid.UUID) error
}

type Service struct {
	repo Store
	bus  events.Bus
	log  *logger.Logger
}

func New(repo Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// ProvisionOrganization creates an organization with the caller as its
// first member, in one transaction. An optional company domain is claimed
// in the same transaction so two organizations cannot register the same
// domain. Default dropdown options are seeded synchronously via the
// OrganizationCreated event before this returns, so the caller's next
// request sees a fully set up workspace. Invite emails are sent out
// asynchronously afterwards.
func (s *Service) ProvisionOrganization(ctx context.Context, ownerID uuid.UUID, name, domain string, inviteEmails []string) (repository.Organization, error) {
	name = sanitize.Text(name)
	if name == "" {
		return repository.Organization{}, apperr.Validation("organization name is required")
	}
	domain = strings.ToLower(strings.TrimSpace(domain))

	if _, err := s.repo.GetUserOrganizationID(ctx, ownerID); err == nil {
		return repository.Organization{}, apperr.Conflict("user already belongs to an organization")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return repository.Organization{}, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return repository.Organization{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	org, err := s.repo.CreateOrganization(ctx, tx, name, ownerID)
	if err != nil {
		return repository.Organization{}, err
	}
	if err := s.repo.AddMember(ctx, tx, org.ID, ownerID); err != nil {
		return repository.Organization{}, err
	}
	if domain != "" {
		if err := s.repo.CreateDomain(ctx, tx, org.ID, domain); err != nil {
			return repository.Organization{}, apperr.Conflict("domain is already claimed by another organization")
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return repository.Organization{}, err
	}

	if err := s.bus.PublishSync(ctx, events.OrganizationCreated{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: org.ID,
		CreatedBy:      ownerID,
	}); err != nil {
		return repository.Organization{}, err
	}

	for _, email := range inviteEmails {
		if _, err := s.CreateInvite(ctx, org.ID, email, ownerID); err != nil {
			s.log.Error("invite creation failed during onboarding",
				"organization_id", org.ID.String(), "error", err)
		}
	}

	return org, nil
}

func (s *Service) GetOrganization(ctx context.Context, organizationID uuid.UUID) (repository.Organization, error) {
	org, err := s.repo.GetOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Organization{}, apperr.NotFound(msgOrganizationNotFound)
		}
		return repository.Organization{}, err
	}
	return org, nil
}

// ListDomains returns the domains claimed by an organization.
func (s *Service) ListDomains(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
	return s.repo.ListDomains(ctx, organizationID)
}

func (s *Service) UpdateOrganizationName(ctx context.Context, organizationID uuid.UUID, name string) (repository.Organization, error) {
	name = sanitize.Text(name)
	if name == "" {
		return repository.Organization{}, apperr.Validation("organization name is required")
	}

	org, err := s.repo.UpdateOrganizationName(ctx, organizationID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Organization{}, apperr.NotFound(msgOrganizationNotFound)
		}
		return repository.Organization{}, err
	}
	return org, nil
}

// CreateInvite stores a hashed invite token and publishes an event so the
// notification module can email the invitee. The raw token never hits the
// database.
func (s *Service) CreateInvite(ctx context.Context, organizationID uuid.UUID, email string, createdBy uuid.UUID) (repository.Invite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return repository.Invite{}, apperr.Validation("invite email is required")
	}

	rawToken, err := token.GenerateRandomToken(inviteTokenBytes)
	if err != nil {
		return repository.Invite{}, err
	}

	invite, err := s.repo.CreateInvite(ctx, organizationID, email, token.HashSHA256(rawToken), time.Now().Add(inviteTTL), createdBy)
	if err != nil {
		return repository.Invite{}, err
	}

	org, err := s.repo.GetOrganization(ctx, organizationID)
	if err == nil {
		s.bus.Publish(ctx, events.OrganizationInviteCreated{
			BaseEvent:        events.NewBaseEvent(),
			OrganizationID:   organizationID,
			OrganizationName: org.Name,
			Email:            email,
			InviteToken:      rawToken,
		})
	}

	return invite, nil
}

func (s *Service) ListInvites(ctx context.Context, organizationID uuid.UUID) ([]repository.Invite, error) {
	return s.repo.ListInvites(ctx, organizationID)
}

func (s *Service) RevokeInvite(ctx context.Context, organizationID, inviteID uuid.UUID) error {
	if err := s.repo.DeleteInvite(ctx, organizationID, inviteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("invite not found")
		}
		return err
	}
	return nil
}

// RedeemInvite consumes an invite token and adds the user to the inviting
// organization. It satisfies the auth module's InviteRedeemer.
func (s *Service) RedeemInvite(ctx context.Context, rawToken string, userID uuid.UUID) (uuid.UUID, error) {
	invite, err := s.repo.GetInviteByToken(ctx, token.HashSHA256(rawToken))
	if err != nil {
		return uuid.Nil, apperr.Unauthorized(msgInviteInvalid)
	}
	if invite.UsedAt != nil || time.Now().After(invite.ExpiresAt) {
		return uuid.Nil, apperr.Unauthorized(msgInviteInvalid)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := s.repo.UseInvite(ctx, tx, invite.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, apperr.Unauthorized(msgInviteInvalid)
		}
		return uuid.Nil, err
	}
	if err := s.repo.AddMember(ctx, tx, invite.OrganizationID, userID); err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}

	return invite.OrganizationID, nil
}

func (s *Service) GetUserOrganizationID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	orgID, err := s.repo.GetUserOrganizationID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, nil
	}
	return orgID, err
}
