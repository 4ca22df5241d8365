package adapters

import (
	"context"
	"errors"
	"fmt"

	"repairshop_backend/internal/identity"
	"repairshop_backend/internal/workflow/domain"
	"repairshop_backend/internal/workflow/ports"
	"repairshop_backend/platform/apperr"

	"github.com/google/uuid"
)

// WorkflowActorResolver adapts the identity service to the workflow's
// ActorResolver port. The workflow only sees ids and roles.
type WorkflowActorResolver struct {
	users identity.Service
}

func NewWorkflowActorResolver(users identity.Service) *WorkflowActorResolver {
	return &WorkflowActorResolver{users: users}
}

func (a *WorkflowActorResolver) ResolveActor(ctx context.Context, id uuid.UUID) (domain.Actor, error) {
	user, err := a.users.GetUser(ctx, id)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
			return domain.Actor{}, domain.UnknownActor(id)
		}
		return domain.Actor{}, fmt.Errorf("resolve actor %s: %w", id, err)
	}

	role, ok := domain.ParseRole(user.Role)
	if !ok {
		return domain.Actor{}, domain.InvalidRole(fmt.Sprintf("actor %s has unsupported role %q", id, user.Role))
	}

	return domain.Actor{ID: user.ID, Role: role, Name: user.DisplayName}, nil
}

var _ ports.ActorResolver = (*WorkflowActorResolver)(nil)
