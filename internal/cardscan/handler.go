package cardscan

import (
	"net/http"

	"staffing_crm_backend/platform/httpkit"
	"staffing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request payload"

// Handler exposes the card scanning endpoints.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

type scanRequest struct {
	ImageBase64 string `json:"imageBase64" validate:"required"`
}

type parseRequest struct {
	Text string `json:"text" validate:"required"`
}

// Scan handles POST /api/v1/cardscan
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "imageBase64 is required", nil)
		return
	}

	result, err := h.svc.Scan(c.Request.Context(), req.ImageBase64)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Parse handles POST /api/v1/cardscan/parse for text the client already
// OCR'd or typed in.
func (h *Handler) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "text is required", nil)
		return
	}

	httpkit.OK(c, h.svc.Parse(req.Text))
}
