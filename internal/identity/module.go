// Package identity provides the organization and membership bounded context.
package identity

import (
	"staffing_crm_backend/internal/events"
	apphttp "staffing_crm_backend/internal/http"
	"staffing_crm_backend/internal/identity/handler"
	"staffing_crm_backend/internal/identity/repository"
	"staffing_crm_backend/internal/identity/service"
	"staffing_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the identity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the identity module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "identity"
}

// Service returns the service layer for cross-module wiring, notably the
// auth module's invite redemption.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts identity routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/organizations", m.handler.CreateOrganization)
	ctx.Protected.GET("/organizations/me", m.handler.GetOrganization)

	ctx.Admin.PATCH("/organizations/me", m.handler.UpdateOrganization)
	ctx.Admin.POST("/invites", m.handler.CreateInvite)
	ctx.Admin.GET("/invites", m.handler.ListInvites)
	ctx.Admin.DELETE("/invites/:id", m.handler.RevokeInvite)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
