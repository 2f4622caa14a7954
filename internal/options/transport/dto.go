// Package transport holds the options module's request DTOs.
package transport

import "github.com/google/uuid"

// CreateOptionRequest is the payload for adding a dropdown option.
type CreateOptionRequest struct {
	Label     string `json:"label" binding:"required,min=1,max=100"`
	SortOrder int    `json:"sortOrder" binding:"min=0"`
}

// UpdateOptionRequest is a partial update; omitted fields stay unchanged.
type UpdateOptionRequest struct {
	Label     *string `json:"label" binding:"omitempty,min=1,max=100"`
	Active    *bool   `json:"active"`
	SortOrder *int    `json:"sortOrder" binding:"omitempty,min=0"`
}

// ReorderRequest carries the full ID sequence in the desired order.
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}
