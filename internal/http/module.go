// Package http holds the contracts between the composition root, the router
// and the bounded-context modules.
package http

import (
	"context"

	"repairshop_backend/internal/events"
	"repairshop_backend/platform/config"
	"repairshop_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context with an HTTP surface.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// EventSubscriber is implemented by modules that react to domain events.
type EventSubscriber interface {
	RegisterHandlers(bus *events.InMemoryBus)
}

// RouterContext is what a module gets to mount its routes.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is /api/v1 without authentication.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind AuthRequired.
	Protected      *gin.RouterGroup
	Config         config.JWTConfig
	AuthMiddleware gin.HandlerFunc
}

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs the readiness endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled by main and handed to the router.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus *events.InMemoryBus
	Modules  []Module
}

// Subscribe registers every module that listens to domain events.
func (a *App) Subscribe(extra ...EventSubscriber) {
	if a.EventBus == nil {
		return
	}
	for _, m := range a.Modules {
		if s, ok := m.(EventSubscriber); ok {
			s.RegisterHandlers(a.EventBus)
		}
	}
	for _, s := range extra {
		s.RegisterHandlers(a.EventBus)
	}
}
