package places

import (
	apphttp "staffing_crm_backend/internal/http"
	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"
)

// Module wires the nearby business lookup HTTP routes.
type Module struct {
	handler *Handler
	cfg     config.PlacesConfig
}

func NewModule(cfg config.PlacesConfig, log *logger.Logger) *Module {
	svc := NewService(cfg, log)
	return &Module{handler: NewHandler(svc), cfg: cfg}
}

func (m *Module) Name() string {
	return "places"
}

// IsEnabled reports whether an API key is configured.
func (m *Module) IsEnabled() bool {
	return m.cfg.IsPlacesEnabled()
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/places")
	group.GET("/nearby", m.handler.Nearby)
}

var _ apphttp.Module = (*Module)(nil)
