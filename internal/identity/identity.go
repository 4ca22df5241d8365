// Package identity provides the identity bounded context API.
package identity

import (
	"context"

	"repairshop_backend/internal/identity/repository"

	"github.com/google/uuid"
)

// Service defines the public interface for user lookups.
// Other domains should depend on this interface, not on concrete implementations.
type Service interface {
	// GetUser returns a user or an apperr NotFound error.
	GetUser(ctx context.Context, userID uuid.UUID) (repository.User, error)
}
