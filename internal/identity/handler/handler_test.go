package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"repairshop_backend/internal/identity/repository"
	"repairshop_backend/internal/identity/service"
	"repairshop_backend/internal/identity/transport"
	"repairshop_backend/platform/httpkit"
	"repairshop_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type memoryUsers map[uuid.UUID]repository.User

func (m memoryUsers) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := m[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m memoryUsers) ListUsersByRole(_ context.Context, role string) ([]repository.User, error) {
	var out []repository.User
	for _, u := range m {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func newEngine(users memoryUsers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User"); raw != "" {
			c.Set(httpkit.ContextUserIDKey, uuid.MustParse(raw))
			c.Set(httpkit.ContextRolesKey, []string{c.GetHeader("X-Test-Role")})
		}
		c.Next()
	})
	New(service.New(users), validator.New()).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func get(engine *gin.Engine, path string, user uuid.UUID, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != uuid.Nil {
		req.Header.Set("X-Test-User", user.String())
		req.Header.Set("X-Test-Role", role)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestGetMe(t *testing.T) {
	id := uuid.New()
	engine := newEngine(memoryUsers{id: {ID: id, Role: "employee", DisplayName: "Sam"}})

	rec := get(engine, "/api/v1/users/me", id, "employee")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != id || resp.DisplayName != "Sam" {
		t.Fatalf("unexpected user: %+v", resp)
	}

	if rec := get(engine, "/api/v1/users/me", uuid.New(), "employee"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown caller, got %d", rec.Code)
	}
	if rec := get(engine, "/api/v1/users/me", uuid.Nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without caller, got %d", rec.Code)
	}
}

func TestListUsersIsStaffOnly(t *testing.T) {
	manager := uuid.New()
	engine := newEngine(memoryUsers{
		manager:    {ID: manager, Role: "store_manager"},
		uuid.New(): {ID: uuid.New(), Role: "employee"},
	})

	if rec := get(engine, "/api/v1/users?role=employee", uuid.New(), "customer"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customers, got %d", rec.Code)
	}

	rec := get(engine, "/api/v1/users?role=employee", manager, "store_manager")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp transport.ListUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Users) != 1 {
		t.Fatalf("expected one employee, got %d", len(resp.Users))
	}

	if rec := get(engine, "/api/v1/users?role=courier", manager, "store_manager"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
	}
}
