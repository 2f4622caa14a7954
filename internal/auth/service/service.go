// Package service implements the auth business logic.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"staffing_crm_backend/internal/auth/password"
	"staffing_crm_backend/internal/auth/repository"
	"staffing_crm_backend/internal/auth/token"
	"staffing_crm_backend/internal/events"
	"staffing_crm_backend/platform/apperr"
	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"

	roleAdmin  = "admin"
	roleMember = "member"

	uniqueViolationCode = "23505"
)

// InviteRedeemer attaches a newly registered user to the organization an
// invite token belongs to. Implemented by the identity module.
type InviteRedeemer interface {
	RedeemInvite(ctx context.Context, rawToken string, userID uuid.UUID) (uuid.UUID, error)
}

// Profile is the user information exposed to the profile endpoints.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	FirstName     *string   `json:"firstName"`
	LastName      *string   `json:"lastName"`
	Roles         []string  `json:"roles"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Service struct {
	repo    *repository.Repository
	cfg     config.AuthServiceConfig
	bus     events.Bus
	log     *logger.Logger
	invites InviteRedeemer
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// SetInviteRedeemer wires the identity module in after construction. The
// two modules reference each other, so this cannot happen in New.
func (s *Service) SetInviteRedeemer(invites InviteRedeemer) {
	s.invites = invites
}

// SignUp registers a new account and kicks off email verification. When an
// invite token is supplied the user joins the inviting organization as a
// member; otherwise they become an admin expected to provision their own.
func (s *Service) SignUp(ctx context.Context, email, plainPassword, inviteToken string) error {
	email = normalizeEmail(email)

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}

	user, err := s.repo.CreateUser(ctx, email, hash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperr.Conflict("email already registered")
		}
		return err
	}

	role := roleAdmin
	if inviteToken != "" {
		if s.invites == nil {
			return apperr.Internal("invite redemption is not available")
		}
		if _, err := s.invites.RedeemInvite(ctx, inviteToken, user.ID); err != nil {
			return err
		}
		role = roleMember
	}

	if err := s.repo.SetUserRoles(ctx, user.ID, []string{role}); err != nil {
		return err
	}

	verifyToken, err := s.createUserToken(ctx, user.ID, repository.TokenTypeEmailVerify, s.cfg.GetVerifyTokenTTL())
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.UserSignedUp{
		BaseEvent:   events.NewBaseEvent(),
		UserID:      user.ID,
		Email:       user.Email,
		VerifyToken: verifyToken,
	})
	s.log.AuthEvent("user_signed_up", user.Email, true, "")

	return nil
}

// ResendVerification issues a fresh verification token. It never reveals
// whether the address exists.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil || user.EmailVerified {
		return nil
	}

	verifyToken, err := s.createUserToken(ctx, user.ID, repository.TokenTypeEmailVerify, s.cfg.GetVerifyTokenTTL())
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.EmailVerificationRequested{
		BaseEvent:   events.NewBaseEvent(),
		UserID:      user.ID,
		Email:       user.Email,
		VerifyToken: verifyToken,
	})
	return nil
}

func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	if !user.EmailVerified {
		return "", "", apperr.Forbidden("email not verified")
	}

	s.log.AuthEvent("user_signed_in", user.Email, true, "")
	return s.issueTokens(ctx, user.ID)
}

// Refresh rotates the refresh token: the presented token is revoked and a
// new pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return "", "", apperr.Unauthorized("token invalid")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return "", "", apperr.Unauthorized("token expired")
	}

	_ = s.repo.RevokeRefreshToken(ctx, hash)
	return s.issueTokens(ctx, userID)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// ForgotPassword issues a reset token. It never reveals whether the
// address exists.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil
	}

	resetToken, err := s.createUserToken(ctx, user.ID, repository.TokenTypePasswordReset, s.cfg.GetResetTokenTTL())
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.PasswordResetRequested{
		BaseEvent:  events.NewBaseEvent(),
		UserID:     user.ID,
		Email:      user.Email,
		ResetToken: resetToken,
	})
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	hash := token.HashSHA256(rawToken)
	userID, expiresAt, err := s.repo.GetUserToken(ctx, hash, repository.TokenTypePasswordReset)
	if err != nil {
		return apperr.Unauthorized("token invalid")
	}

	if time.Now().After(expiresAt) {
		return apperr.Unauthorized("token expired")
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	_ = s.repo.UseUserToken(ctx, hash, repository.TokenTypePasswordReset)
	_ = s.repo.RevokeAllRefreshTokens(ctx, userID)

	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, rawToken string) error {
	hash := token.HashSHA256(rawToken)
	userID, expiresAt, err := s.repo.GetUserToken(ctx, hash, repository.TokenTypeEmailVerify)
	if err != nil {
		return apperr.Unauthorized("token invalid")
	}

	if time.Now().After(expiresAt) {
		return apperr.Unauthorized("token expired")
	}

	if err := s.repo.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}

	_ = s.repo.UseUserToken(ctx, hash, repository.TokenTypeEmailVerify)
	return nil
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, apperr.NotFound("user not found")
		}
		return Profile{}, err
	}

	roles, err := s.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		ID:            user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Roles:         roles,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}, nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, firstName, lastName *string) (Profile, error) {
	if _, err := s.repo.UpdateUserNames(ctx, userID, firstName, lastName); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, apperr.NotFound("user not found")
		}
		return Profile{}, err
	}
	return s.GetMe(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return apperr.NotFound("user not found")
	}

	if err := password.Compare(user.PasswordHash, currentPassword); err != nil {
		return apperr.Validation("current password is incorrect")
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	_ = s.repo.RevokeAllRefreshTokens(ctx, userID)
	return nil
}

func (s *Service) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	if err := s.repo.SetUserRoles(ctx, userID, roles); err != nil {
		if errors.Is(err, repository.ErrInvalidRole) {
			return apperr.Validation("unknown role")
		}
		return err
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, organizationID uuid.UUID) ([]repository.UserWithRoles, error) {
	return s.repo.ListOrganizationUsers(ctx, organizationID)
}

// GetUserEmail exposes a user's email for other modules.
func (s *Service) GetUserEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (string, string, error) {
	roles, err := s.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return "", "", err
	}

	orgID, err := s.repo.GetUserOrganization(ctx, userID)
	if err != nil {
		return "", "", err
	}

	accessToken, err := s.signJWT(userID, orgID, roles, s.cfg.GetAccessTokenTTL(), accessTokenType, s.cfg.GetJWTAccessSecret())
	if err != nil {
		return "", "", err
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return "", "", err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, hash, expiresAt); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signJWT(userID, orgID uuid.UUID, roles []string, ttl time.Duration, tokenType, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  tokenType,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	if orgID != uuid.Nil {
		claims["org_id"] = orgID.String()
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}

func (s *Service) createUserToken(ctx context.Context, userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	rawToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return "", err
	}

	hash := token.HashSHA256(rawToken)
	if err := s.repo.CreateUserToken(ctx, userID, hash, tokenType, time.Now().Add(ttl)); err != nil {
		return "", err
	}
	return rawToken, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
