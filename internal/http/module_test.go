package http

import (
	"testing"

	"repairshop_backend/internal/events"
	"repairshop_backend/platform/logger"
)

type subscribingModule struct {
	registered int
}

func (m *subscribingModule) Name() string                         { return "subscribing" }
func (m *subscribingModule) RegisterRoutes(*RouterContext)        {}
func (m *subscribingModule) RegisterHandlers(*events.InMemoryBus) { m.registered++ }

type routesOnlyModule struct{}

func (routesOnlyModule) Name() string                  { return "routes-only" }
func (routesOnlyModule) RegisterRoutes(*RouterContext) {}

func TestSubscribeRegistersEventModules(t *testing.T) {
	mod := &subscribingModule{}
	extra := &subscribingModule{}
	app := &App{
		EventBus: events.NewInMemoryBus(logger.Discard()),
		Modules:  []Module{mod, routesOnlyModule{}},
	}

	app.Subscribe(extra)

	if mod.registered != 1 || extra.registered != 1 {
		t.Fatalf("expected each subscriber registered once, got module=%d extra=%d", mod.registered, extra.registered)
	}
}

func TestSubscribeWithoutBusIsNoop(t *testing.T) {
	mod := &subscribingModule{}
	(&App{Modules: []Module{mod}}).Subscribe()

	if mod.registered != 0 {
		t.Fatal("nothing should register without a bus")
	}
}
