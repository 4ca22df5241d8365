package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string { return "test-secret" }

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/me", AuthRequired(testJWTConfig{}), func(c *gin.Context) {
		caller, ok := RequireCaller(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, caller.UserID.String())
	})
	return engine
}

func TestAuthRequiredAcceptsAccessToken(t *testing.T) {
	userID := uuid.New()
	raw := signToken(t, jwt.MapClaims{
		"sub":   userID.String(),
		"type":  "access",
		"roles": []string{"store_manager"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	newAuthEngine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != userID.String() {
		t.Fatalf("expected user id in body, got %q", rec.Body.String())
	}
}

func TestAuthRequiredRejectsRefreshToken(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"type": "refresh",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	newAuthEngine().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	newAuthEngine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAnyRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/staff", AuthRequired(testJWTConfig{}), RequireAnyRole("store_manager", "admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	call := func(roles []string) int {
		raw := signToken(t, jwt.MapClaims{
			"sub":   uuid.NewString(),
			"type":  "access",
			"roles": roles,
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call([]string{"admin"}); code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin, got %d", code)
	}
	if code := call([]string{"customer"}); code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", code)
	}
}
