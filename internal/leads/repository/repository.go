// Package repository implements lead persistence backed by PostgreSQL.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"staffing_crm_backend/internal/leads/domain"
	"staffing_crm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadColumns = `id, organization_id, company, contact_name, contact_email, contact_phone,
		website, contact_title, buying_role, industry, status, rating, source, note,
		owner_user_id, created_by_user_id, latitude, longitude, location_source, location_raw,
		primary_image_url, call_history, note_history,
		to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL-backed lead repository.
func New(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	callHistory, err := historyJSON(params.CallHistory)
	if err != nil {
		return Lead{}, fmt.Errorf("encode call history: %w", err)
	}
	noteHistory, err := historyJSON(params.NoteHistory)
	if err != nil {
		return Lead{}, fmt.Errorf("encode note history: %w", err)
	}

	query := `
		INSERT INTO leads (
			organization_id, company, contact_name, contact_email, contact_phone,
			website, contact_title, buying_role, industry, status, rating, source, note,
			owner_user_id, created_by_user_id, latitude, longitude, location_source,
			location_raw, primary_image_url, call_history, note_history
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22)
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		params.OrganizationID, params.Company, params.ContactName, params.ContactEmail,
		params.ContactPhone, params.Website, params.ContactTitle, params.BuyingRole,
		params.Industry, params.Status, params.Rating, params.Source, params.Note,
		params.OwnerUserID, params.CreatedByUserID, params.Latitude, params.Longitude,
		params.LocationSource, params.LocationRaw, params.PrimaryImageURL,
		callHistory, noteHistory,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND organization_id = $2`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return Lead{}, apperr.NotFound("lead not found")
		}
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *postgresRepository) Update(ctx context.Context, params UpdateLeadParams) (Lead, error) {
	query := `
		UPDATE leads SET
			company = COALESCE($3, company),
			contact_name = COALESCE($4, contact_name),
			contact_email = COALESCE($5, contact_email),
			contact_phone = COALESCE($6, contact_phone),
			website = COALESCE($7, website),
			contact_title = COALESCE($8, contact_title),
			buying_role = COALESCE($9, buying_role),
			industry = COALESCE($10, industry),
			status = COALESCE($11, status),
			rating = COALESCE($12, rating),
			note = COALESCE($13, note),
			owner_user_id = COALESCE($14, owner_user_id),
			latitude = COALESCE($15, latitude),
			longitude = COALESCE($16, longitude),
			location_source = COALESCE($17, location_source),
			location_raw = COALESCE($18, location_raw),
			primary_image_url = COALESCE($19, primary_image_url),
			updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.OrganizationID, params.Company, params.ContactName,
		params.ContactEmail, params.ContactPhone, params.Website, params.ContactTitle,
		params.BuyingRole, params.Industry, params.Status, params.Rating, params.Note,
		params.OwnerUserID, params.Latitude, params.Longitude, params.LocationSource,
		params.LocationRaw, params.PrimaryImageURL,
	)

	lead, err := scanLead(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Lead{}, apperr.NotFound("lead not found")
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

func (r *postgresRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM leads WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}

func (r *postgresRepository) AppendHistory(ctx context.Context, params AppendHistoryParams) (Lead, error) {
	callEntry, err := json.Marshal(params.Call)
	if err != nil {
		return Lead{}, fmt.Errorf("encode call entry: %w", err)
	}

	var noteEntry []byte
	if params.Note != nil {
		noteEntry, err = json.Marshal(params.Note)
		if err != nil {
			return Lead{}, fmt.Errorf("encode note entry: %w", err)
		}
	}

	// note_history only grows when a note entry is supplied; an empty
	// jsonb array appended is a no-op either way.
	query := `
		UPDATE leads SET
			call_history = call_history || $3::jsonb,
			note_history = note_history || COALESCE($4::jsonb, '[]'::jsonb),
			status = COALESCE(NULLIF($5, ''), status),
			rating = COALESCE(NULLIF($6, ''), rating),
			updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.OrganizationID,
		wrapJSONArray(callEntry), wrapJSONArrayOrNil(noteEntry),
		params.Status, params.Rating,
	)

	lead, err := scanLead(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Lead{}, apperr.NotFound("lead not found")
		}
		return Lead{}, fmt.Errorf("append lead history: %w", err)
	}
	return lead, nil
}

func (r *postgresRepository) ListRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads WHERE organization_id = $1
		ORDER BY updated_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent leads: %w", err)
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *postgresRepository) Search(ctx context.Context, organizationID uuid.UUID, query string, limit int) ([]Lead, error) {
	pattern := "%" + query + "%"
	sql := `SELECT ` + leadColumns + `
		FROM leads
		WHERE organization_id = $1
			AND (company ILIKE $2 OR contact_name ILIKE $2 OR contact_email ILIKE $2 OR contact_phone ILIKE $2)
		ORDER BY updated_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, sql, organizationID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *postgresRepository) ListWithLocation(ctx context.Context, organizationID uuid.UUID, limit int) ([]Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE organization_id = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY updated_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads with location: %w", err)
	}
	defer rows.Close()

	return collectLeads(rows)
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var callHistory, noteHistory []byte

	err := row.Scan(
		&lead.ID, &lead.OrganizationID, &lead.Company, &lead.ContactName,
		&lead.ContactEmail, &lead.ContactPhone, &lead.Website, &lead.ContactTitle,
		&lead.BuyingRole, &lead.Industry, &lead.Status, &lead.Rating, &lead.Source,
		&lead.Note, &lead.OwnerUserID, &lead.CreatedByUserID, &lead.Latitude,
		&lead.Longitude, &lead.LocationSource, &lead.LocationRaw, &lead.PrimaryImageURL,
		&callHistory, &noteHistory, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	lead.CallHistory = make([]domain.CallEntry, 0)
	if len(callHistory) > 0 {
		if err := json.Unmarshal(callHistory, &lead.CallHistory); err != nil {
			return Lead{}, fmt.Errorf("decode call history: %w", err)
		}
	}
	lead.NoteHistory = make([]domain.NoteEntry, 0)
	if len(noteHistory) > 0 {
		if err := json.Unmarshal(noteHistory, &lead.NoteHistory); err != nil {
			return Lead{}, fmt.Errorf("decode note history: %w", err)
		}
	}

	return lead, nil
}

func collectLeads(rows pgx.Rows) ([]Lead, error) {
	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func historyJSON[T any](entries []T) ([]byte, error) {
	if entries == nil {
		entries = make([]T, 0)
	}
	return json.Marshal(entries)
}

func wrapJSONArray(entry []byte) string {
	return "[" + string(entry) + "]"
}

func wrapJSONArrayOrNil(entry []byte) *string {
	if entry == nil {
		return nil
	}
	wrapped := wrapJSONArray(entry)
	return &wrapped
}
