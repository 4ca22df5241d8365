package service

import (
	"context"
	"errors"
	"fmt"

	"repairshop_backend/internal/identity/repository"
	"repairshop_backend/platform/apperr"

	"github.com/google/uuid"
)

const msgUserNotFound = "user not found"

var knownRoles = map[string]struct{}{
	"customer":      {},
	"employee":      {},
	"store_manager": {},
	"admin":         {},
}

type Service struct {
	repo repository.UserReader
}

func New(repo repository.UserReader) *Service {
	return &Service{repo: repo}
}

// GetUser looks up a user. A missing user is reported as apperr NotFound.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.NotFound(msgUserNotFound)
		}
		return repository.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Service) ListByRole(ctx context.Context, role string) ([]repository.User, error) {
	if _, ok := knownRoles[role]; !ok {
		return nil, apperr.BadRequest("unknown role " + role)
	}
	users, err := s.repo.ListUsersByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}
