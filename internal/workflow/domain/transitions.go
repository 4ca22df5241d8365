package domain

import (
	"fmt"
	"sort"
	"time"
)

// Action is a business action that moves a service request between statuses.
type Action string

const (
	ActionAssign   Action = "assign"
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReassign Action = "reassign"
	ActionHandOver Action = "hand_over"
	ActionReject   Action = "reject"
)

// transitionRule declares one edge of the request state machine. An empty
// from accepts any non-terminal status. via is a transient status the
// request passes through on the way to to.
type transitionRule struct {
	from  RequestStatus
	via   RequestStatus
	to    RequestStatus
	roles []Role
}

var transitionTable = map[Action]transitionRule{
	ActionAssign:   {from: StatusWaitingForDropoff, to: StatusInProcess, roles: []Role{RoleStoreManager}},
	ActionSubmit:   {from: StatusInProcess, to: StatusPendingForApproval, roles: []Role{RoleEmployee}},
	ActionApprove:  {from: StatusPendingForApproval, via: StatusApproved, to: StatusReadyForPickup, roles: []Role{RoleStoreManager}},
	ActionReassign: {from: StatusPendingForApproval, via: StatusReassigned, to: StatusInProcess, roles: []Role{RoleStoreManager}},
	ActionHandOver: {from: StatusReadyForPickup, to: StatusComplete, roles: []Role{RoleStoreManager}},
	ActionReject:   {to: StatusRejected, roles: []Role{RoleStoreManager, RoleAdmin}},
}

// Transition is a validated, not yet applied, status change.
type Transition struct {
	Action Action
	From   RequestStatus
	To     RequestStatus
	// Path lists every status visited after From, ending with To.
	Path []RequestStatus
}

// PlanTransition checks that action may be performed on req by an actor with
// actorRole. The stored status is checked before the role so a stale caller
// always sees InvalidTransition.
func PlanTransition(req ServiceRequest, action Action, actorRole Role) (Transition, error) {
	rule, ok := transitionTable[action]
	if !ok {
		return Transition{}, InvalidTransition(fmt.Sprintf("unknown action %q", action))
	}

	if rule.from == "" {
		if req.Status.IsTerminal() {
			return Transition{}, InvalidTransition(fmt.Sprintf("cannot %s a request that is already %s", action, req.Status))
		}
	} else if req.Status != rule.from {
		return Transition{}, InvalidTransition(fmt.Sprintf("cannot %s a request in status %s; it must be %s", action, req.Status, rule.from))
	}

	if !actorRole.In(rule.roles...) {
		return Transition{}, InvalidRole(fmt.Sprintf("%s requires role %s, actor is %s", action, joinRoles(rule.roles), actorRole))
	}

	if action == ActionHandOver && req.Feedback == nil {
		return Transition{}, InvalidTransition("customer feedback is required before the device can be handed over")
	}

	path := make([]RequestStatus, 0, 2)
	if rule.via != "" {
		path = append(path, rule.via)
	}
	path = append(path, rule.to)

	return Transition{Action: action, From: req.Status, To: rule.to, Path: path}, nil
}

// ApplyTransition returns req moved to t.To. The caller persists the result
// guarded on t.From.
func ApplyTransition(req ServiceRequest, t Transition, now time.Time) ServiceRequest {
	req.Status = t.To
	if t.Action == ActionReassign {
		req.Reassigned = true
	}
	// Only an in-process request has an assigned employee; assign and
	// reassign set the new one after the transition is applied.
	if t.To != StatusInProcess {
		req.AssignedEmployeeID = nil
	}
	req.UpdatedAt = now
	return req
}

// AllowedActions lists the actions an actor with role may perform on a
// request in status, ignoring preconditions that depend on request data.
func AllowedActions(status RequestStatus, role Role) []Action {
	actions := make([]Action, 0, 2)
	for action, rule := range transitionTable {
		if rule.from == "" && status.IsTerminal() {
			continue
		}
		if rule.from != "" && rule.from != status {
			continue
		}
		if role.In(rule.roles...) {
			actions = append(actions, action)
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
