package repository

import (
	"context"

	"staffing_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Lead is the persisted lead row, histories included.
type Lead struct {
	ID              uuid.UUID          `json:"id"`
	OrganizationID  uuid.UUID          `json:"organizationId"`
	Company         string             `json:"company"`
	ContactName     string             `json:"contactName"`
	ContactEmail    string             `json:"contactEmail"`
	ContactPhone    string             `json:"contactPhone"`
	Website         string             `json:"website"`
	ContactTitle    string             `json:"contactTitle"`
	BuyingRole      string             `json:"buyingRole"`
	Industry        string             `json:"industry"`
	Status          string             `json:"status"`
	Rating          string             `json:"rating"`
	Source          string             `json:"source"`
	Note            string             `json:"note"`
	OwnerUserID     *uuid.UUID         `json:"ownerUserId"`
	CreatedByUserID uuid.UUID          `json:"createdByUserId"`
	Latitude        *float64           `json:"latitude"`
	Longitude       *float64           `json:"longitude"`
	LocationSource  string             `json:"locationSource"`
	LocationRaw     string             `json:"locationRaw"`
	PrimaryImageURL string             `json:"primaryImageUrl"`
	CallHistory     []domain.CallEntry `json:"callHistory"`
	NoteHistory     []domain.NoteEntry `json:"noteHistory"`
	CreatedAt       string             `json:"createdAt"`
	UpdatedAt       string             `json:"updatedAt"`
}

// CreateLeadParams holds the fields for a new lead.
type CreateLeadParams struct {
	OrganizationID  uuid.UUID
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
	OwnerUserID     *uuid.UUID
	CreatedByUserID uuid.UUID
	Latitude        *float64
	Longitude       *float64
	LocationSource  string
	LocationRaw     string
	PrimaryImageURL string
	CallHistory     []domain.CallEntry
	NoteHistory     []domain.NoteEntry
}

// UpdateLeadParams is a partial update of a lead's display fields; nil
// fields are left unchanged. Histories are never rewritten here.
type UpdateLeadParams struct {
	ID              uuid.UUID
	OrganizationID  uuid.UUID
	Company         *string
	ContactName     *string
	ContactEmail    *string
	ContactPhone    *string
	Website         *string
	ContactTitle    *string
	BuyingRole      *string
	Industry        *string
	Status          *string
	Rating          *string
	Note            *string
	OwnerUserID     *uuid.UUID
	Latitude        *float64
	Longitude       *float64
	LocationSource  *string
	LocationRaw     *string
	PrimaryImageURL *string
}

// AppendHistoryParams appends one call entry and one note entry to a lead.
// The entries are appended atomically; past entries are never modified.
type AppendHistoryParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Call           domain.CallEntry
	Note           *domain.NoteEntry
	Status         string
	Rating         string
}

// Repository defines persistence for leads.
type Repository interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (Lead, error)
	Update(ctx context.Context, params UpdateLeadParams) (Lead, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	AppendHistory(ctx context.Context, params AppendHistoryParams) (Lead, error)
	ListRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]Lead, error)
	Search(ctx context.Context, organizationID uuid.UUID, query string, limit int) ([]Lead, error)
	ListWithLocation(ctx context.Context, organizationID uuid.UUID, limit int) ([]Lead, error)
}
