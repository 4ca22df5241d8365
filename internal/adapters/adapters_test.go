package adapters

import (
	"context"
	"errors"
	"testing"

	"repairshop_backend/internal/identity/repository"
	"repairshop_backend/internal/workflow/domain"
	"repairshop_backend/platform/apperr"

	"github.com/google/uuid"
)

type stubIdentity struct {
	users map[uuid.UUID]repository.User
	err   error
}

func (s stubIdentity) GetUser(_ context.Context, id uuid.UUID) (repository.User, error) {
	if s.err != nil {
		return repository.User{}, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func TestWorkflowActorResolverMapsRole(t *testing.T) {
	id := uuid.New()
	resolver := NewWorkflowActorResolver(stubIdentity{users: map[uuid.UUID]repository.User{
		id: {ID: id, Role: "store_manager", DisplayName: "Morgan"},
	}})

	actor, err := resolver.ResolveActor(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.Role != domain.RoleStoreManager || actor.Name != "Morgan" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestWorkflowActorResolverUnknownActor(t *testing.T) {
	resolver := NewWorkflowActorResolver(stubIdentity{})

	_, err := resolver.ResolveActor(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != domain.CodeUnknownActor {
		t.Fatalf("expected unknown_actor, got %v", err)
	}
}

func TestWorkflowActorResolverUnsupportedRole(t *testing.T) {
	id := uuid.New()
	resolver := NewWorkflowActorResolver(stubIdentity{users: map[uuid.UUID]repository.User{
		id: {ID: id, Role: "courier"},
	}})

	_, err := resolver.ResolveActor(context.Background(), id)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != domain.CodeInvalidRole {
		t.Fatalf("expected invalid_role, got %v", err)
	}
}

func TestWorkflowActorResolverInfrastructureError(t *testing.T) {
	resolver := NewWorkflowActorResolver(stubIdentity{err: errors.New("connection reset")})

	_, err := resolver.ResolveActor(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		t.Fatalf("infrastructure failures must not become rejections, got %v", appErr)
	}
}

func TestNotificationContactReader(t *testing.T) {
	id := uuid.New()
	phone := "+16502530000"
	reader := NewNotificationContactReader(stubIdentity{users: map[uuid.UUID]repository.User{
		id: {ID: id, Role: "customer", DisplayName: "Dana", Email: "dana@example.com", Phone: &phone},
	}})

	contact, err := reader.GetContact(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contact.Name != "Dana" || contact.Email != "dana@example.com" || contact.Phone != phone {
		t.Fatalf("unexpected contact: %+v", contact)
	}
}
