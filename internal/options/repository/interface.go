package repository

import (
	"context"

	"github.com/google/uuid"
)

// Kind selects one of the per-organization dropdown option tables.
type Kind string

const (
	KindCallStatus Kind = "call_status"
	KindRating     Kind = "rating"
	KindIndustry   Kind = "industry"
	KindCallType   Kind = "call_type"
)

// Kinds lists every option kind in display order.
var Kinds = []Kind{KindCallStatus, KindRating, KindIndustry, KindCallType}

// Valid reports whether the kind names a real option table.
func (k Kind) Valid() bool {
	switch k {
	case KindCallStatus, KindRating, KindIndustry, KindCallType:
		return true
	}
	return false
}

// Option is one dropdown entry.
type Option struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Label          string    `json:"label"`
	Active         bool      `json:"active"`
	SortOrder      int       `json:"sortOrder"`
	CreatedAt      string    `json:"createdAt"`
	UpdatedAt      string    `json:"updatedAt"`
}

// ListParams filters an option list query.
type ListParams struct {
	OrganizationID uuid.UUID
	Kind           Kind
	ActiveOnly     bool
}

// CreateParams holds the fields for a new option.
type CreateParams struct {
	OrganizationID uuid.UUID
	Kind           Kind
	Label          string
	SortOrder      int
}

// UpdateParams holds a partial option update; nil fields are left unchanged.
type UpdateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Kind           Kind
	Label          *string
	Active         *bool
	SortOrder      *int
}

// Repository defines persistence for dropdown options.
type Repository interface {
	List(ctx context.Context, params ListParams) ([]Option, error)
	Create(ctx context.Context, params CreateParams) (Option, error)
	Update(ctx context.Context, params UpdateParams) (Option, error)
	Delete(ctx context.Context, organizationID uuid.UUID, kind Kind, id uuid.UUID) error
	Reorder(ctx context.Context, organizationID uuid.UUID, kind Kind, orderedIDs []uuid.UUID) error
	SeedDefaults(ctx context.Context, organizationID uuid.UUID, defaults map[Kind][]string) error
}
