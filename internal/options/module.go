// Package options provides the dropdown-option administration bounded context.
package options

import (
	"context"

	"staffing_crm_backend/internal/events"
	apphttp "staffing_crm_backend/internal/http"
	"staffing_crm_backend/internal/options/handler"
	"staffing_crm_backend/internal/options/repository"
	"staffing_crm_backend/internal/options/service"
	"staffing_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the options bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the options module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "options"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts options routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/options", m.handler.GetBundle)
	ctx.Protected.GET("/options/:kind", m.handler.List)

	adminGroup := ctx.Admin.Group("/options")
	adminGroup.POST("/:kind", m.handler.Create)
	adminGroup.PUT("/:kind/reorder", m.handler.Reorder)
	adminGroup.PUT("/:kind/:id", m.handler.Update)
	adminGroup.DELETE("/:kind/:id", m.handler.Delete)
}

// RegisterHandlers subscribes to domain events for seeding tenant defaults.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.OrganizationCreated{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OrganizationCreated:
		return m.service.SeedDefaults(ctx, e.OrganizationID)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
