// Package repository implements identity persistence backed by PostgreSQL.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// DBTX lets repository methods run inside a caller-owned transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BeginTx starts a transaction for multi-step workflows.
func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Invite struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	Email          string     `json:"email"`
	TokenHash      string     `json:"-"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	CreatedBy      uuid.UUID  `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	UsedAt         *time.Time `json:"usedAt"`
	UsedBy         *uuid.UUID `json:"usedBy"`
}

const inviteColumns = `id, organization_id, email, token_hash, expires_at, created_by, created_at, used_at, used_by`

func scanInvite(row pgx.Row) (Invite, error) {
	var invite Invite
	err := row.Scan(
		&invite.ID,
		&invite.OrganizationID,
		&invite.Email,
		&invite.TokenHash,
		&invite.ExpiresAt,
		&invite.CreatedBy,
		&invite.CreatedAt,
		&invite.UsedAt,
		&invite.UsedBy,
	)
	return invite, err
}

func (r *Repository) CreateOrganization(ctx context.Context, q DBTX, name string, createdBy uuid.UUID) (Organization, error) {
	var org Organization
	err := q.QueryRow(ctx, `
		INSERT INTO organizations (name, created_by)
		VALUES ($1, $2)
		RETURNING id, name, created_by, created_at, updated_at
	`, name, createdBy).Scan(&org.ID, &org.Name, &org.CreatedBy, &org.CreatedAt, &org.UpdatedAt)
	return org, err
}

func (r *Repository) GetOrganization(ctx context.Context, organizationID uuid.UUID) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, created_by, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, organizationID).Scan(&org.ID, &org.Name, &org.CreatedBy, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	return org, err
}

func (r *Repository) UpdateOrganizationName(ctx context.Context, organizationID uuid.UUID, name string) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		UPDATE organizations
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, created_by, created_at, updated_at
	`, organizationID, name).Scan(&org.ID, &org.Name, &org.CreatedBy, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	return org, err
}

func (r *Repository) CreateDomain(ctx context.Context, q DBTX, organizationID uuid.UUID, domain string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO organization_domains (organization_id, domain)
		VALUES ($1, $2)
	`, organizationID, domain)
	return err
}

func (r *Repository) ListDomains(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT domain
		FROM organization_domains
		WHERE organization_id = $1
		ORDER BY domain
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	domains := make([]string, 0)
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, err
		}
		domains = append(domains, domain)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return domains, nil
}

func (r *Repository) AddMember(ctx context.Context, q DBTX, organizationID, userID uuid.UUID) error {
	_, err := q.Exec(ctx, `
		INSERT INTO organization_members (organization_id, user_id)
		VALUES ($1, $2)
	`, organizationID, userID)
	return err
}

func (r *Repository) GetUserOrganizationID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var orgID uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT organization_id
		FROM organization_members
		WHERE user_id = $1
	`, userID).Scan(&orgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.UUID{}, ErrNotFound
	}
	return orgID, err
}

func (r *Repository) CreateInvite(ctx context.Context, organizationID uuid.UUID, email, tokenHash string, expiresAt time.Time, createdBy uuid.UUID) (Invite, error) {
	return scanInvite(r.pool.QueryRow(ctx, `
		INSERT INTO organization_invites (organization_id, email, token_hash, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+inviteColumns, organizationID, email, tokenHash, expiresAt, createdBy))
}

func (r *Repository) ListInvites(ctx context.Context, organizationID uuid.UUID) ([]Invite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+inviteColumns+`
		FROM organization_invites
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := make([]Invite, 0)
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return invites, nil
}

func (r *Repository) GetInviteByToken(ctx context.Context, tokenHash string) (Invite, error) {
	invite, err := scanInvite(r.pool.QueryRow(ctx, `
		SELECT `+inviteColumns+`
		FROM organization_invites
		WHERE token_hash = $1
	`, tokenHash))
	if errors.Is(err, pgx.ErrNoRows) {
		return Invite{}, ErrNotFound
	}
	return invite, err
}

// UseInvite marks an invite consumed. ErrNotFound means another
// redemption already claimed it.
func (r *Repository) UseInvite(ctx context.Context, q DBTX, inviteID, usedBy uuid.UUID) error {
	tag, err := q.Exec(ctx, `
		UPDATE organization_invites
		SET used_at = now(), used_by = $2
		WHERE id = $1 AND used_at IS NULL
	`, inviteID, usedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteInvite(ctx context.Context, organizationID, inviteID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM organization_invites
		WHERE id = $1 AND organization_id = $2 AND used_at IS NULL
	`, inviteID, organizationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
