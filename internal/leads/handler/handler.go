// Package handler exposes the leads module's HTTP endpoints.
package handler

import (
	"net/http"
	"time"

	"staffing_crm_backend/internal/leads/repository"
	"staffing_crm_backend/internal/leads/service"
	"staffing_crm_backend/internal/leads/transport"
	"staffing_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request payload"
	msgInvalidLeadID  = "invalid lead id"
	msgNoOrganization = "user is not attached to an organization"
)

// Handler holds the leads HTTP handlers.
type Handler struct {
	svc *service.Service
}

// New creates a new leads handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func identityScope(c *gin.Context) (orgID, userID uuid.UUID, ok bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return uuid.Nil, uuid.Nil, false
	}
	if id.OrganizationID() == uuid.Nil {
		httpkit.Error(c, http.StatusForbidden, msgNoOrganization, nil)
		return uuid.Nil, uuid.Nil, false
	}
	return id.OrganizationID(), id.UserID(), true
}

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	orgID, userID, ok := identityScope(c)
	if !ok {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), orgID, userID, service.CreateLeadInput{
		Company:         req.Company,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Website:         req.Website,
		ContactTitle:    req.ContactTitle,
		BuyingRole:      req.BuyingRole,
		Industry:        req.Industry,
		Status:          req.Status,
		Rating:          req.Rating,
		Source:          req.Source,
		Note:            req.Note,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		LocationSource:  req.LocationSource,
		LocationRaw:     req.LocationRaw,
		PrimaryImageURL: req.PrimaryImageURL,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, lead)
}

// List handles GET /api/v1/leads with an optional ?q= search filter.
func (h *Handler) List(c *gin.Context) {
	orgID, _, ok := identityScope(c)
	if !ok {
		return
	}

	var leads []repository.Lead
	var err error
	if query := c.Query("q"); query != "" {
		leads, err = h.svc.Search(c.Request.Context(), orgID, query)
	} else {
		leads, err = h.svc.ListRecent(c.Request.Context(), orgID)
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"leads": leads})
}

// Get handles GET /api/v1/leads/:id
func (h *Handler) Get(c *gin.Context) {
	orgID, _, ok := identityScope(c)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), orgID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

// Update handles PUT /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	orgID, _, ok := identityScope(c)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), repository.UpdateLeadParams{
		ID:              id,
		OrganizationID:  orgID,
		Company:         req.Company,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Website:         req.Website,
		ContactTitle:    req.ContactTitle,
		BuyingRole:      req.BuyingRole,
		Industry:        req.Industry,
		Status:          req.Status,
		Rating:          req.Rating,
		Note:            req.Note,
		OwnerUserID:     req.OwnerUserID,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		LocationSource:  req.LocationSource,
		LocationRaw:     req.LocationRaw,
		PrimaryImageURL: req.PrimaryImageURL,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

// Delete handles DELETE /api/v1/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	orgID, _, ok := identityScope(c)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), orgID, id)) {
		return
	}

	c.Status(http.StatusNoContent)
}

// LogCall handles POST /api/v1/leads/:id/calls
func (h *Handler) LogCall(c *gin.Context) {
	orgID, userID, ok := identityScope(c)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.LogCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	input := service.LogCallInput{
		Status:   req.Status,
		Rating:   req.Rating,
		CallType: req.CallType,
		Note:     req.Note,
	}
	if req.FollowUpDate != "" {
		followUp, err := time.Parse("2006-01-02", req.FollowUpDate)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid follow-up date", nil)
			return
		}
		input.FollowUpDate = &followUp
	}

	lead, err := h.svc.LogCall(c.Request.Context(), orgID, userID, id, input)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

// Nearby handles GET /api/v1/leads/nearby?lat=..&lng=..
func (h *Handler) Nearby(c *gin.Context) {
	orgID, _, ok := identityScope(c)
	if !ok {
		return
	}

	var req transport.NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query params 'lat' and 'lng' are required", nil)
		return
	}

	leads, err := h.svc.NearbyPreviousCalls(c.Request.Context(), orgID, *req.Lat, *req.Lng)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"leads": leads})
}
