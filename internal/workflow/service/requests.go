package service

import (
	"context"

	"repairshop_backend/internal/events"
	"repairshop_backend/internal/workflow/domain"
	"repairshop_backend/internal/workflow/repository"

	"github.com/google/uuid"
)

// PaymentInput is one payment attempt reported by the payment collaborator.
type PaymentInput struct {
	TransactionID string
	AmountCents   int64
	Status        domain.PaymentStatus
	Mode          domain.PaymentMode
}

// OpenRequestInput describes a new repair request.
type OpenRequestInput struct {
	CustomerID     uuid.UUID
	StoreID        uuid.UUID
	Priority       string
	CatalogEntryID *uuid.UUID
	Payment        PaymentInput
}

// OpenRequest creates a request in waiting_for_dropoff once the customer has paid.
func (s *Service) OpenRequest(ctx context.Context, in OpenRequestInput) (domain.ServiceRequest, error) {
	const op = "open_request"

	req, err := s.buildRequest(ctx, in)
	if err != nil {
		return domain.ServiceRequest{}, s.rejected(ctx, op, uuid.Nil, err)
	}
	if err := s.repo.InsertRequest(ctx, req); err != nil {
		return domain.ServiceRequest{}, s.rejected(ctx, op, req.ID, err)
	}

	s.log.WithContext(ctx).WorkflowTransition(req.ID.String(), op, "", string(req.Status), in.CustomerID.String())
	s.publish(ctx, events.RepairRequestOpened{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  req.ID,
		CustomerID: req.CustomerID,
		StoreID:    req.StoreID,
		Priority:   string(req.Priority),
	})
	return req, nil
}

func (s *Service) buildRequest(ctx context.Context, in OpenRequestInput) (domain.ServiceRequest, error) {
	customer, err := s.actors.ResolveActor(ctx, in.CustomerID)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if customer.Role != domain.RoleCustomer {
		return domain.ServiceRequest{}, domain.InvalidRole("only customers can open repair requests")
	}
	if in.StoreID == uuid.Nil {
		return domain.ServiceRequest{}, domain.InvalidField("store is required")
	}
	priority, ok := domain.ParsePriority(in.Priority)
	if !ok {
		return domain.ServiceRequest{}, domain.InvalidField("priority must be regular or fast_service")
	}

	now := s.now()
	attempt, err := domain.NewPaymentAttempt(in.Payment.TransactionID, in.Payment.AmountCents, in.Payment.Status, in.Payment.Mode, now)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if attempt.Status != domain.PaymentSucceeded {
		return domain.ServiceRequest{}, domain.InvalidField("a successful payment is required to open a repair request")
	}

	return domain.ServiceRequest{
		ID:             uuid.New(),
		CustomerID:     in.CustomerID,
		StoreID:        in.StoreID,
		CatalogEntryID: in.CatalogEntryID,
		Status:         domain.StatusWaitingForDropoff,
		Priority:       priority,
		Payments:       []domain.PaymentAttempt{attempt},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// RecordPayment appends a payment attempt. The customer on record, store
// managers and admins may record payments while the request is open.
func (s *Service) RecordPayment(ctx context.Context, requestID, actorID uuid.UUID, in PaymentInput) (domain.ServiceRequest, error) {
	const op = "record_payment"

	actor, err := s.actors.ResolveActor(ctx, actorID)
	if err != nil {
		return domain.ServiceRequest{}, s.rejected(ctx, op, requestID, err)
	}

	var out domain.ServiceRequest
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		req, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if !actor.Role.In(domain.RoleStoreManager, domain.RoleAdmin) && actor.ID != req.CustomerID {
			return domain.InvalidRole("only the customer on record or staff can record payments")
		}
		if req.Status.IsTerminal() {
			return domain.InvalidTransition("cannot record a payment on a " + string(req.Status) + " request")
		}

		now := s.now()
		attempt, err := domain.NewPaymentAttempt(in.TransactionID, in.AmountCents, in.Status, in.Mode, now)
		if err != nil {
			return err
		}
		payments, err := domain.AppendPayment(req.Payments, attempt)
		if err != nil {
			return err
		}
		req.Payments = payments
		req.UpdatedAt = now
		if err := tx.UpdateRequest(ctx, req, req.Status); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, s.rejected(ctx, op, requestID, err)
	}
	return out, nil
}

// SubmitFeedback stores the customer's rating. It is accepted once, while
// the device waits for pickup, and unlocks the hand-over.
func (s *Service) SubmitFeedback(ctx context.Context, requestID, customerID uuid.UUID, rating int, comment string) (domain.ServiceRequest, error) {
	const op = "submit_feedback"

	actor, err := s.actors.ResolveActor(ctx, customerID)
	if err != nil {
		return domain.ServiceRequest{}, s.rejected(ctx, op, requestID, err)
	}

	var out domain.ServiceRequest
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		req, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != domain.StatusReadyForPickup {
			return domain.InvalidTransition("feedback can only be given while the device is ready for pickup")
		}
		if actor.Role != domain.RoleCustomer || actor.ID != req.CustomerID {
			return domain.InvalidRole("only the customer on record can give feedback")
		}
		if req.Feedback != nil {
			return domain.InvalidTransition("feedback was already submitted")
		}

		fb, err := domain.NewFeedback(rating, comment, s.now())
		if err != nil {
			return err
		}
		req.Feedback = &fb
		req.UpdatedAt = fb.SubmittedAt
		if err := tx.UpdateRequest(ctx, req, req.Status); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return domain.ServiceRequest{}, s.rejected(ctx, op, requestID, err)
	}
	return out, nil
}
