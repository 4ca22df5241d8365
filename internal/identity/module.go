// Package identity provides the identity bounded context module.
package identity

import (
	apphttp "repairshop_backend/internal/http"
	"repairshop_backend/internal/identity/handler"
	"repairshop_backend/internal/identity/repository"
	"repairshop_backend/internal/identity/service"
	"repairshop_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "identity"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

var (
	_ apphttp.Module = (*Module)(nil)
	_ Service        = (*service.Service)(nil)
)
