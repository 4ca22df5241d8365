package httpkit

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Caller is the authenticated user behind a request, as set by AuthRequired.
// Token roles only gate routes coarsely; workflow decisions resolve the
// caller's role from the user store.
type Caller struct {
	UserID uuid.UUID
	Roles  []string
}

func (c Caller) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if slices.Contains(c.Roles, role) {
			return true
		}
	}
	return false
}

// CallerFrom reads the caller from the gin context.
func CallerFrom(c *gin.Context) (Caller, bool) {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return Caller{}, false
	}
	userID, ok := raw.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return Caller{}, false
	}

	caller := Caller{UserID: userID}
	if roles, ok := c.Get(ContextRolesKey); ok {
		caller.Roles, _ = roles.([]string)
	}
	return caller, true
}

// RequireCaller is CallerFrom that answers 401 and aborts when nobody is
// authenticated.
func RequireCaller(c *gin.Context) (Caller, bool) {
	caller, ok := CallerFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return Caller{}, false
	}
	return caller, true
}
