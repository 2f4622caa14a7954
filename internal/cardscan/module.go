package cardscan

import (
	apphttp "staffing_crm_backend/internal/http"
	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"
	"staffing_crm_backend/platform/validator"
)

// Module wires the business-card scanning HTTP routes.
type Module struct {
	handler *Handler
	svc     *Service
}

func NewModule(cfg config.VisionConfig, images ImageStore, val *validator.Validator, log *logger.Logger) *Module {
	client := NewVisionClient(cfg, log)
	svc := NewService(client, images, cfg, log)
	return &Module{
		handler: NewHandler(svc, val),
		svc:     svc,
	}
}

func (m *Module) Name() string {
	return "cardscan"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/cardscan")
	group.POST("", m.handler.Scan)
	group.POST("/parse", m.handler.Parse)
}

var _ apphttp.Module = (*Module)(nil)
