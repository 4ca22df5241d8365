// Package ports declares what the workflow needs from other bounded contexts.
package ports

import (
	"context"

	"repairshop_backend/internal/workflow/domain"

	"github.com/google/uuid"
)

// ActorResolver resolves an actor id to its identity and role. Implementations
// return a domain.UnknownActor rejection when the id does not exist.
type ActorResolver interface {
	ResolveActor(ctx context.Context, id uuid.UUID) (domain.Actor, error)
}
