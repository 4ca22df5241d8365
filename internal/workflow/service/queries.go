package service

import (
	"context"

	"repairshop_backend/internal/workflow/domain"
	"repairshop_backend/internal/workflow/repository"

	"github.com/google/uuid"
)

// GetRequest returns a service request.
func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (domain.ServiceRequest, error) {
	return s.repo.GetRequest(ctx, id)
}

// ListActivities returns a request's ledger in creation order.
func (s *Service) ListActivities(ctx context.Context, requestID uuid.UUID) ([]domain.Activity, error) {
	if _, err := s.repo.GetRequest(ctx, requestID); err != nil {
		return nil, err
	}
	return NewLedger(s.repo, s.now).ListForRequest(ctx, requestID)
}

// GetActivity returns one ledger entry.
func (s *Service) GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return NewLedger(s.repo, s.now).GetByID(ctx, id)
}

// Handoff returns the activity actorID currently works on for a request and
// the hand-off that preceded it.
func (s *Service) Handoff(ctx context.Context, requestID, actorID uuid.UUID) (domain.Handoff, error) {
	if _, err := s.actors.ResolveActor(ctx, actorID); err != nil {
		return domain.Handoff{}, err
	}
	if _, err := s.repo.GetRequest(ctx, requestID); err != nil {
		return domain.Handoff{}, err
	}

	ledger := NewLedger(s.repo, s.now)
	inProgress := domain.ActivityInProgress
	open, err := ledger.Find(ctx, repository.ActivityFilter{
		ServiceRequestID:     requestID,
		ProcessingEmployeeID: &actorID,
		Status:               &inProgress,
	})
	if err != nil {
		return domain.Handoff{}, err
	}

	handoffType := domain.ActivityAssignSubmit
	handoffs, err := ledger.Find(ctx, repository.ActivityFilter{
		ServiceRequestID: requestID,
		AssignedTo:       &actorID,
		Type:             &handoffType,
	})
	if err != nil {
		return domain.Handoff{}, err
	}

	return domain.BuildHandoff(open, handoffs), nil
}

// CheckConsistency compares the stored status of a request with the statuses
// its ledger can explain.
func (s *Service) CheckConsistency(ctx context.Context, requestID uuid.UUID) (domain.ConsistencyReport, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return domain.ConsistencyReport{}, err
	}
	activities, err := NewLedger(s.repo, s.now).ListForRequest(ctx, requestID)
	if err != nil {
		return domain.ConsistencyReport{}, err
	}

	report := domain.CheckConsistency(req, activities)
	if !report.Consistent {
		s.log.WithContext(ctx).Warn("workflow_inconsistent",
			"request_id", requestID.String(),
			"stored_status", string(report.Stored),
			"activities", len(activities),
		)
	}
	return report, nil
}
