package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"repairshop_backend/internal/events"
	"repairshop_backend/internal/workflow/domain"
	"repairshop_backend/internal/workflow/ports"
	"repairshop_backend/internal/workflow/repository"
	"repairshop_backend/platform/apperr"
	"repairshop_backend/platform/logger"
	"repairshop_backend/platform/metrics"

	"github.com/google/uuid"
)

// Service coordinates the ledger and the status transition rules into the
// named workflow operations. Each operation commits a consistent
// (status, activities) pair or nothing.
type Service struct {
	repo     repository.Transactor
	actors   ports.ActorResolver
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new workflow service
func New(repo repository.Transactor, actors ports.ActorResolver, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		actors:   actors,
		eventBus: eventBus,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Result is the outcome of a workflow operation: the request as committed,
// the activities it created and the activities it completed.
type Result struct {
	Request    domain.ServiceRequest
	Activities []domain.Activity
	Completed  []domain.Activity
}

// unitOfWork is the state of one operation inside its transaction.
type unitOfWork struct {
	svc       *Service
	ledger    *Ledger
	roles     domain.ActorRoles
	req       domain.ServiceRequest
	created   []domain.Activity
	completed []domain.Activity
}

func (w *unitOfWork) create(ctx context.Context, d domain.ActivityDraft) error {
	d.ServiceRequestID = w.req.ID
	a, err := w.ledger.Create(ctx, d, w.roles)
	if err != nil {
		return err
	}
	w.created = append(w.created, a)
	return nil
}

func (w *unitOfWork) complete(ctx context.Context, id uuid.UUID) error {
	a, err := w.ledger.SetCompleted(ctx, id)
	if err != nil {
		return err
	}
	w.completed = append(w.completed, a)
	return nil
}

// resolve adds id to the role map if it is not there yet.
func (w *unitOfWork) resolve(ctx context.Context, id uuid.UUID) error {
	if _, ok := w.roles[id]; ok {
		return nil
	}
	actor, err := w.svc.actors.ResolveActor(ctx, id)
	if err != nil {
		return err
	}
	w.roles[id] = actor.Role
	return nil
}

type transitionCommand struct {
	op           string
	requestID    uuid.UUID
	action       domain.Action
	actorID      uuid.UUID
	participants []uuid.UUID
	steps        func(ctx context.Context, w *unitOfWork) error
	mutate       func(req *domain.ServiceRequest)
}

// transition runs resolve, pre-check, ledger writes and the guarded status
// update in one transaction.
func (s *Service) transition(ctx context.Context, cmd transitionCommand) (Result, error) {
	roles, err := s.resolveRoles(ctx, append([]uuid.UUID{cmd.actorID}, cmd.participants...)...)
	if err != nil {
		return Result{}, s.rejected(ctx, cmd.op, cmd.requestID, err)
	}

	var (
		w    *unitOfWork
		plan domain.Transition
	)
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		req, err := tx.LockRequest(ctx, cmd.requestID)
		if err != nil {
			return err
		}
		plan, err = domain.PlanTransition(req, cmd.action, roles[cmd.actorID])
		if err != nil {
			return err
		}

		w = &unitOfWork{svc: s, ledger: NewLedger(tx, s.now), roles: roles, req: req}
		if cmd.steps != nil {
			if err := cmd.steps(ctx, w); err != nil {
				return err
			}
		}

		updated := domain.ApplyTransition(req, plan, s.now())
		if cmd.mutate != nil {
			cmd.mutate(&updated)
		}
		if err := tx.UpdateRequest(ctx, updated, plan.From); err != nil {
			return err
		}
		w.req = updated
		return nil
	})
	if err != nil {
		return Result{}, s.rejected(ctx, cmd.op, cmd.requestID, err)
	}

	s.recordCommit(ctx, cmd, plan, w)
	return Result{Request: w.req, Activities: w.created, Completed: w.completed}, nil
}

func (s *Service) resolveRoles(ctx context.Context, ids ...uuid.UUID) (domain.ActorRoles, error) {
	roles := make(domain.ActorRoles, len(ids))
	for _, id := range ids {
		if _, seen := roles[id]; seen {
			continue
		}
		actor, err := s.actors.ResolveActor(ctx, id)
		if err != nil {
			return nil, err
		}
		roles[id] = actor.Role
	}
	return roles, nil
}

// rejected logs err and records it. Business rejections are counted by code;
// anything else is an infrastructure failure.
func (s *Service) rejected(ctx context.Context, op string, requestID uuid.UUID, err error) error {
	log := s.log.WithContext(ctx)
	if domain.IsRejection(err) {
		code := apperr.GetCode(err)
		metrics.WorkflowRejectionsTotal.WithLabelValues(op, code).Inc()
		log.WorkflowRejected(op, requestID.String(), code, err.Error())
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.DatabaseError(op, err)
	return err
}

func (s *Service) recordCommit(ctx context.Context, cmd transitionCommand, plan domain.Transition, w *unitOfWork) {
	log := s.log.WithContext(ctx)
	from := plan.From
	for _, to := range plan.Path {
		metrics.WorkflowTransitionsTotal.WithLabelValues(string(plan.Action), string(from), string(to)).Inc()
		log.WorkflowTransition(cmd.requestID.String(), string(plan.Action), string(from), string(to), cmd.actorID.String())
		from = to
	}
	for _, a := range w.created {
		metrics.ActivitiesCreatedTotal.WithLabelValues(string(a.Type)).Inc()
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, event)
	}
}

func optionalComment(comment *string) *domain.Comment {
	if comment == nil {
		return nil
	}
	// Blank text is passed through so the validator rejects it.
	return &domain.Comment{Text: *comment}
}

// AssignEmployee hands a dropped-off device to an employee.
func (s *Service) AssignEmployee(ctx context.Context, requestID, managerID, employeeID uuid.UUID, comment *string) (Result, error) {
	res, err := s.transition(ctx, transitionCommand{
		op:           "assign_employee",
		requestID:    requestID,
		action:       domain.ActionAssign,
		actorID:      managerID,
		participants: []uuid.UUID{employeeID},
		steps: func(ctx context.Context, w *unitOfWork) error {
			// The hand-off is recorded as authorized by the customer on record.
			if err := w.resolve(ctx, w.req.CustomerID); err != nil {
				return err
			}
			to := employeeID
			if err := w.create(ctx, domain.ActivityDraft{
				Type:                 domain.ActivityAssignSubmit,
				ProcessingEmployeeID: managerID,
				AssignedBy:           w.req.CustomerID,
				AssignedTo:           &to,
				Comments:             optionalComment(comment),
			}); err != nil {
				return err
			}
			return w.create(ctx, domain.ActivityDraft{
				Type:                 domain.ActivityRepair,
				ProcessingEmployeeID: employeeID,
				AssignedBy:           managerID,
			})
		},
		mutate: func(req *domain.ServiceRequest) {
			assigned := employeeID
			req.AssignedEmployeeID = &assigned
		},
	})
	if err != nil {
		return Result{}, err
	}

	s.publish(ctx, events.RepairAssigned{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  requestID,
		ManagerID:  managerID,
		EmployeeID: employeeID,
	})
	return res, nil
}

// SubmitForApproval closes the employee's repair and opens an approval for
// the manager.
func (s *Service) SubmitForApproval(ctx context.Context, requestID, employeeID, managerID uuid.UUID, comment *string) (Result, error) {
	res, err := s.transition(ctx, transitionCommand{
		op:           "submit_for_approval",
		requestID:    requestID,
		action:       domain.ActionSubmit,
		actorID:      employeeID,
		participants: []uuid.UUID{managerID},
		steps: func(ctx context.Context, w *unitOfWork) error {
			if w.roles[managerID] != domain.RoleStoreManager {
				return domain.InvalidRole("approval must be addressed to a store_manager")
			}
			owner := employeeID
			open, err := w.ledger.openOfType(ctx, requestID, domain.ActivityRepair, &owner)
			if err != nil {
				return err
			}
			if len(open) == 0 {
				return domain.InvalidTransition("employee " + employeeID.String() + " has no open repair on this request")
			}
			for _, a := range open {
				if err := w.complete(ctx, a.ID); err != nil {
					return err
				}
			}
			to := managerID
			if err := w.create(ctx, domain.ActivityDraft{
				Type:                 domain.ActivityAssignSubmit,
				ProcessingEmployeeID: employeeID,
				AssignedBy:           employeeID,
				AssignedTo:           &to,
				Comments:             optionalComment(comment),
			}); err != nil {
				return err
			}
			return w.create(ctx, domain.ActivityDraft{
				Type:                 domain.ActivityApproval,
				ProcessingEmployeeID: managerID,
				AssignedBy:           employeeID,
			})
		},
	})
	if err != nil {
		return Result{}, err
	}

	s.publish(ctx, events.RepairSubmitted{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  requestID,
		EmployeeID: employeeID,
		ManagerID:  managerID,
	})
	return res, nil
}

// closeOwnedApproval completes the open approval that managerID owns.
func closeOwnedApproval(ctx context.Context, w *unitOfWork, requestID, managerID uuid.UUID) error {
	open, err := w.ledger.openOfType(ctx, requestID, domain.ActivityApproval, nil)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		return domain.InvalidTransition("request has no open approval")
	}
	for _, a := range open {
		if a.ProcessingEmployeeID == managerID {
			return w.complete(ctx, a.ID)
		}
	}
	return domain.InvalidRole("the open approval is owned by another manager")
}

// Approve marks the repair ready for pickup.
func (s *Service) Approve(ctx context.Context, requestID, managerID uuid.UUID) (Result, error) {
	res, err := s.transition(ctx, transitionCommand{
		op:        "approve",
		requestID: requestID,
		action:    domain.ActionApprove,
		actorID:   managerID,
		steps: func(ctx context.Context, w *unitOfWork) error {
			return closeOwnedApproval(ctx, w, requestID, managerID)
		},
	})
	if err != nil {
		return Result{}, err
	}

	s.publish(ctx, events.RepairApproved{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  requestID,
		CustomerID: res.Request.CustomerID,
		ManagerID:  managerID,
	})
	return res, nil
}

// Reassign sends the repair back to the workshop with a new employee.
func (s *Service) Reassign(ctx context.Context, requestID, managerID, newEmployeeID uuid.UUID, comment *string) (Result, error) {
	res, err := s.transition(ctx, transitionCommand{
		op:           "reassign",
		requestID:    requestID,
		action:       domain.ActionReassign,
		actorID:      managerID,
		participants: []uuid.UUID{newEmployeeID},
		steps: func(ctx context.Context, w *unitOfWork) error {
			if err := closeOwnedApproval(ctx, w, requestID, managerID); err != nil {
				return err
			}
			to := newEmployeeID
			if err := w.create(ctx, domain.ActivityDraft{
				Type:                 domain.ActivityAssignSubmit,
				ProcessingEmployeeID: managerID,
				AssignedBy:           managerID,
				AssignedTo:           &to,
				Comments:             optionalComment(comment),
			}); err != nil {
				return err
			}
			return w.create(ctx, domain.ActivityDraft{
				Type:                 domain.ActivityRepair,
				ProcessingEmployeeID: newEmployeeID,
				AssignedBy:           managerID,
			})
		},
		mutate: func(req *domain.ServiceRequest) {
			assigned := newEmployeeID
			req.AssignedEmployeeID = &assigned
		},
	})
	if err != nil {
		return Result{}, err
	}

	s.publish(ctx, events.RepairReassigned{
		BaseEvent:     events.NewBaseEvent(),
		RequestID:     requestID,
		ManagerID:     managerID,
		NewEmployeeID: newEmployeeID,
	})
	return res, nil
}

// HandOver returns the device to the customer and closes the request.
func (s *Service) HandOver(ctx context.Context, requestID, managerID uuid.UUID) (Result, error) {
	res, err := s.transition(ctx, transitionCommand{
		op:        "hand_over",
		requestID: requestID,
		action:    domain.ActionHandOver,
		actorID:   managerID,
	})
	if err != nil {
		return Result{}, err
	}

	rating := 0
	if res.Request.Feedback != nil {
		rating = res.Request.Feedback.Rating
	}
	s.publish(ctx, events.RepairCompleted{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  requestID,
		CustomerID: res.Request.CustomerID,
		ManagerID:  managerID,
		Rating:     rating,
	})
	return res, nil
}

// Reject closes a request without a repair. Open repair and approval
// activities are completed so the ledger explains the final status.
func (s *Service) Reject(ctx context.Context, requestID, actorID uuid.UUID, reason string) (Result, error) {
	res, err := s.transition(ctx, transitionCommand{
		op:        "reject",
		requestID: requestID,
		action:    domain.ActionReject,
		actorID:   actorID,
		steps: func(ctx context.Context, w *unitOfWork) error {
			for _, typ := range []domain.ActivityType{domain.ActivityRepair, domain.ActivityApproval} {
				open, err := w.ledger.openOfType(ctx, requestID, typ, nil)
				if err != nil {
					return err
				}
				for _, a := range open {
					if err := w.complete(ctx, a.ID); err != nil {
						return err
					}
				}
			}
			return nil
		},
	})
	if err != nil {
		return Result{}, err
	}

	s.publish(ctx, events.RepairRejected{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  requestID,
		CustomerID: res.Request.CustomerID,
		ActorID:    actorID,
		Reason:     strings.TrimSpace(reason),
	})
	return res, nil
}
