package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffing_crm_backend/platform/apperr"
)

const optionNotFoundMessage = "option not found"

// tableFor maps a validated kind to its table. Kinds are checked before any
// query is built, so the table name is never attacker-controlled.
var tableFor = map[Kind]string{
	KindCallStatus: "call_status_options",
	KindRating:     "rating_options",
	KindIndustry:   "industry_options",
	KindCallType:   "call_type_options",
}

// Repo implements the options repository over four structurally identical
// tables.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new options repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func table(kind Kind) (string, error) {
	name, ok := tableFor[kind]
	if !ok {
		return "", apperr.Validation("unknown option kind")
	}
	return name, nil
}

// List returns an organization's options ordered by sort_order then label.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Option, error) {
	tbl, err := table(params.Kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, organization_id, label, active, sort_order, created_at, updated_at
		FROM %s
		WHERE organization_id = $1`, tbl)
	if params.ActiveOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY sort_order ASC, label ASC"

	rows, err := r.pool.Query(ctx, query, params.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("list %s options: %w", params.Kind, err)
	}
	defer rows.Close()

	items := make([]Option, 0)
	for rows.Next() {
		option, err := scanOption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s option: %w", params.Kind, err)
		}
		items = append(items, option)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate %s options: %w", params.Kind, rows.Err())
	}
	return items, nil
}

// Create inserts a new option.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Option, error) {
	tbl, err := table(params.Kind)
	if err != nil {
		return Option{}, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (organization_id, label, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id, organization_id, label, active, sort_order, created_at, updated_at`, tbl)

	row := r.pool.QueryRow(ctx, query, params.OrganizationID, params.Label, params.SortOrder)
	option, err := scanOption(row)
	if err != nil {
		return Option{}, fmt.Errorf("create %s option: %w", params.Kind, err)
	}
	return option, nil
}

// Update applies a partial update scoped to the organization.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Option, error) {
	tbl, err := table(params.Kind)
	if err != nil {
		return Option{}, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET label = COALESCE($3, label),
			active = COALESCE($4, active),
			sort_order = COALESCE($5, sort_order),
			updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING id, organization_id, label, active, sort_order, created_at, updated_at`, tbl)

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.OrganizationID, params.Label, params.Active, params.SortOrder,
	)
	option, err := scanOption(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Option{}, apperr.NotFound(optionNotFoundMessage)
		}
		return Option{}, fmt.Errorf("update %s option: %w", params.Kind, err)
	}
	return option, nil
}

// Delete removes an option scoped to the organization.
func (r *Repo) Delete(ctx context.Context, organizationID uuid.UUID, kind Kind, id uuid.UUID) error {
	tbl, err := table(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND organization_id = $2`, tbl)
	result, err := r.pool.Exec(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete %s option: %w", kind, err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(optionNotFoundMessage)
	}
	return nil
}

// Reorder rewrites sort_order to match the given ID sequence, in one
// transaction so a concurrent reader never sees a half-applied order.
func (r *Repo) Reorder(ctx context.Context, organizationID uuid.UUID, kind Kind, orderedIDs []uuid.UUID) error {
	tbl, err := table(kind)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := fmt.Sprintf(`
		UPDATE %s SET sort_order = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2`, tbl)

	for position, id := range orderedIDs {
		result, err := tx.Exec(ctx, query, id, organizationID, position)
		if err != nil {
			return fmt.Errorf("reorder %s option: %w", kind, err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound(optionNotFoundMessage)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

// SeedDefaults inserts the default labels for every kind, skipping labels
// the organization already has.
func (r *Repo) SeedDefaults(ctx context.Context, organizationID uuid.UUID, defaults map[Kind][]string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed defaults: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, kind := range Kinds {
		labels := defaults[kind]
		tbl, err := table(kind)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (organization_id, label, sort_order)
			VALUES ($1, $2, $3)
			ON CONFLICT (organization_id, label) DO NOTHING`, tbl)

		for position, label := range labels {
			if _, err := tx.Exec(ctx, query, organizationID, label, position); err != nil {
				return fmt.Errorf("seed %s option %q: %w", kind, label, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed defaults: %w", err)
	}
	return nil
}

func scanOption(row pgx.Row) (Option, error) {
	var option Option
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&option.ID, &option.OrganizationID, &option.Label, &option.Active,
		&option.SortOrder, &createdAt, &updatedAt,
	); err != nil {
		return Option{}, err
	}
	option.CreatedAt = createdAt.Format(time.RFC3339)
	option.UpdatedAt = updatedAt.Format(time.RFC3339)
	return option, nil
}
