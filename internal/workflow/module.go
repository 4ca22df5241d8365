// Package workflow provides the repair request workflow bounded context module.
package workflow

import (
	"repairshop_backend/internal/events"
	apphttp "repairshop_backend/internal/http"
	"repairshop_backend/internal/workflow/handler"
	"repairshop_backend/internal/workflow/ports"
	"repairshop_backend/internal/workflow/repository"
	"repairshop_backend/internal/workflow/service"
	"repairshop_backend/platform/logger"
	"repairshop_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, actors ports.ActorResolver, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	return newModule(repository.New(pool), actors, eventBus, val, log)
}

func newModule(repo repository.Transactor, actors ports.ActorResolver, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, actors, eventBus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "workflow"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/repair-requests"))
}

var _ apphttp.Module = (*Module)(nil)
