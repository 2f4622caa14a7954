// Package handler exposes the identity module's HTTP endpoints.
package handler

import (
	"net/http"

	"staffing_crm_backend/internal/identity/service"
	"staffing_crm_backend/internal/identity/transport"
	"staffing_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request payload"
	msgNoOrganization = "user is not attached to an organization"
)

// Handler holds the identity HTTP handlers.
type Handler struct {
	svc *service.Service
}

// New creates a new identity handler.
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

// CreateOrganization handles POST /api/v1/organizations
func (h *Handler) CreateOrganization(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	org, err := h.svc.ProvisionOrganization(c.Request.Context(), id.UserID(), req.Name, req.Domain, req.InviteEmails)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, org)
}

// GetOrganization handles GET /api/v1/organizations/me
func (h *Handler) GetOrganization(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	org, err := h.svc.GetOrganization(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	domains, err := h.svc.ListDomains(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"organization": org, "domains": domains})
}

// UpdateOrganization handles PATCH /api/v1/admin/organizations/me
func (h *Handler) UpdateOrganization(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	var req transport.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	org, err := h.svc.UpdateOrganizationName(c.Request.Context(), orgID, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, org)
}

// CreateInvite handles POST /api/v1/admin/invites
func (h *Handler) CreateInvite(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	invite, err := h.svc.CreateInvite(c.Request.Context(), orgID, req.Email, id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, invite)
}

// ListInvites handles GET /api/v1/admin/invites
func (h *Handler) ListInvites(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	invites, err := h.svc.ListInvites(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"invites": invites})
}

// RevokeInvite handles DELETE /api/v1/admin/invites/:id
func (h *Handler) RevokeInvite(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid invite id", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.RevokeInvite(c.Request.Context(), orgID, inviteID)) {
		return
	}

	c.Status(http.StatusNoContent)
}
