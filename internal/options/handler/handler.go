// Package handler exposes the options module's HTTP endpoints.
package handler

import (
	"net/http"

	"staffing_crm_backend/internal/options/repository"
	"staffing_crm_backend/internal/options/service"
	"staffing_crm_backend/internal/options/transport"
	"staffing_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request payload"
	msgNoOrganization = "user is not attached to an organization"
)

// Handler holds the options HTTP handlers.
type Handler struct {
	svc *service.Service
}

// New creates a new options handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func organizationID(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return uuid.Nil, false
	}
	orgID := id.OrganizationID()
	if orgID == uuid.Nil {
		httpkit.Error(c, http.StatusForbidden, msgNoOrganization, nil)
		return uuid.Nil, false
	}
	return orgID, true
}

// GetBundle handles GET /api/v1/options
func (h *Handler) GetBundle(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	activeOnly := c.Query("includeInactive") != "true"
	bundle, err := h.svc.GetBundle(c.Request.Context(), orgID, activeOnly)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, bundle)
}

// List handles GET /api/v1/options/:kind
func (h *Handler) List(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	activeOnly := c.Query("includeInactive") != "true"
	items, err := h.svc.List(c.Request.Context(), orgID, repository.Kind(c.Param("kind")), activeOnly)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": items})
}

// Create handles POST /api/v1/admin/options/:kind
func (h *Handler) Create(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	var req transport.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	option, err := h.svc.Create(c.Request.Context(), orgID, repository.Kind(c.Param("kind")), req.Label, req.SortOrder)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, option)
}

// Update handles PUT /api/v1/admin/options/:kind/:id
func (h *Handler) Update(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid option id", nil)
		return
	}

	var req transport.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	option, err := h.svc.Update(c.Request.Context(), repository.UpdateParams{
		ID:             id,
		OrganizationID: orgID,
		Kind:           repository.Kind(c.Param("kind")),
		Label:          req.Label,
		Active:         req.Active,
		SortOrder:      req.SortOrder,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, option)
}

// Delete handles DELETE /api/v1/admin/options/:kind/:id
func (h *Handler) Delete(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid option id", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), orgID, repository.Kind(c.Param("kind")), id)) {
		return
	}

	c.Status(http.StatusNoContent)
}

// Reorder handles PUT /api/v1/admin/options/:kind/reorder
func (h *Handler) Reorder(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	var req transport.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Reorder(c.Request.Context(), orgID, repository.Kind(c.Param("kind")), req.IDs)) {
		return
	}

	c.Status(http.StatusNoContent)
}
