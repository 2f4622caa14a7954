package places

import (
	"net/http"

	"staffing_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the nearby business search endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Nearby handles GET /api/v1/places/nearby?lat=&lng=
func (h *Handler) Nearby(c *gin.Context) {
	var req NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query params 'lat' and 'lng' are required", nil)
		return
	}

	businesses, err := h.svc.SearchNearby(c.Request.Context(), *req.Lat, *req.Lng)
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "places lookup service unavailable", nil)
		return
	}

	httpkit.OK(c, gin.H{"businesses": businesses})
}
