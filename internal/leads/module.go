// Package leads provides the lead-management bounded context: intake,
// call logging, search and the nearby-previous-calls geofence lookup.
package leads

import (
	"staffing_crm_backend/internal/events"
	apphttp "staffing_crm_backend/internal/http"
	"staffing_crm_backend/internal/leads/handler"
	"staffing_crm_backend/internal/leads/repository"
	"staffing_crm_backend/internal/leads/service"
	"staffing_crm_backend/platform/config"
	"staffing_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, cfg config.GeofenceConfig, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
// The nearby route is registered before :id so gin matches it first.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/nearby", m.handler.Nearby)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/calls", m.handler.LogCall)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
