package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestPlanTransitionTable(t *testing.T) {
	tests := []struct {
		from   RequestStatus
		action Action
		role   Role
		to     RequestStatus
		path   []RequestStatus
	}{
		{StatusWaitingForDropoff, ActionAssign, RoleStoreManager, StatusInProcess, []RequestStatus{StatusInProcess}},
		{StatusInProcess, ActionSubmit, RoleEmployee, StatusPendingForApproval, []RequestStatus{StatusPendingForApproval}},
		{StatusPendingForApproval, ActionApprove, RoleStoreManager, StatusReadyForPickup, []RequestStatus{StatusApproved, StatusReadyForPickup}},
		{StatusPendingForApproval, ActionReassign, RoleStoreManager, StatusInProcess, []RequestStatus{StatusReassigned, StatusInProcess}},
		{StatusInProcess, ActionReject, RoleAdmin, StatusRejected, []RequestStatus{StatusRejected}},
	}

	for _, tc := range tests {
		req := ServiceRequest{ID: uuid.New(), Status: tc.from}
		tr, err := PlanTransition(req, tc.action, tc.role)
		if err != nil {
			t.Fatalf("%s from %s: unexpected error %v", tc.action, tc.from, err)
		}
		if tr.From != tc.from || tr.To != tc.to {
			t.Fatalf("%s: expected %s -> %s, got %s -> %s", tc.action, tc.from, tc.to, tr.From, tr.To)
		}
		if len(tr.Path) != len(tc.path) {
			t.Fatalf("%s: expected path %v, got %v", tc.action, tc.path, tr.Path)
		}
		for i := range tc.path {
			if tr.Path[i] != tc.path[i] {
				t.Fatalf("%s: expected path %v, got %v", tc.action, tc.path, tr.Path)
			}
		}
	}
}

func TestPlanTransitionWrongSourceStatus(t *testing.T) {
	req := ServiceRequest{Status: StatusPendingForApproval}
	_, err := PlanTransition(req, ActionSubmit, RoleEmployee)
	expectCode(t, err, CodeInvalidTransition)

	// Status is checked before role.
	_, err = PlanTransition(req, ActionAssign, RoleCustomer)
	expectCode(t, err, CodeInvalidTransition)
}

func TestPlanTransitionWrongRole(t *testing.T) {
	req := ServiceRequest{Status: StatusPendingForApproval}
	_, err := PlanTransition(req, ActionApprove, RoleEmployee)
	expectCode(t, err, CodeInvalidRole)

	_, err = PlanTransition(ServiceRequest{Status: StatusInProcess}, ActionReject, RoleCustomer)
	expectCode(t, err, CodeInvalidRole)
}

func TestPlanTransitionTerminalStates(t *testing.T) {
	for _, status := range []RequestStatus{StatusComplete, StatusRejected} {
		_, err := PlanTransition(ServiceRequest{Status: status}, ActionReject, RoleStoreManager)
		expectCode(t, err, CodeInvalidTransition)
	}
}

func TestHandOverRequiresFeedback(t *testing.T) {
	req := ServiceRequest{Status: StatusReadyForPickup}
	_, err := PlanTransition(req, ActionHandOver, RoleStoreManager)
	expectCode(t, err, CodeInvalidTransition)

	req.Feedback = &Feedback{Rating: 5}
	tr, err := PlanTransition(req, ActionHandOver, RoleStoreManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.To != StatusComplete {
		t.Fatalf("expected complete, got %s", tr.To)
	}
}

func TestApplyTransition(t *testing.T) {
	emp := uuid.New()
	req := ServiceRequest{Status: StatusPendingForApproval, AssignedEmployeeID: &emp}

	tr, err := PlanTransition(req, ActionReassign, RoleStoreManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := ApplyTransition(req, tr, testNow)
	if out.Status != StatusInProcess || !out.Reassigned {
		t.Fatalf("expected in_process and reassigned, got %s reassigned=%v", out.Status, out.Reassigned)
	}
	if req.Reassigned {
		t.Fatal("ApplyTransition must not mutate its input")
	}

	tr, _ = PlanTransition(req, ActionApprove, RoleStoreManager)
	out = ApplyTransition(req, tr, testNow)
	if out.AssignedEmployeeID != nil {
		t.Fatal("expected assigned employee to be cleared once ready for pickup")
	}
	if !out.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected updated_at %v, got %v", testNow, out.UpdatedAt)
	}
}

func TestApplyTransitionSubmitClearsAssignee(t *testing.T) {
	emp := uuid.New()
	req := ServiceRequest{Status: StatusInProcess, AssignedEmployeeID: &emp}

	tr, err := PlanTransition(req, ActionSubmit, RoleEmployee)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := ApplyTransition(req, tr, testNow)
	if out.Status != StatusPendingForApproval {
		t.Fatalf("expected pending_for_approval, got %s", out.Status)
	}
	if out.AssignedEmployeeID != nil {
		t.Fatal("expected assigned employee to be cleared while pending approval")
	}
	if req.AssignedEmployeeID == nil {
		t.Fatal("ApplyTransition must not mutate its input")
	}
}

func TestAllowedActions(t *testing.T) {
	got := AllowedActions(StatusPendingForApproval, RoleStoreManager)
	want := []Action{ActionApprove, ActionReassign, ActionReject}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if got := AllowedActions(StatusComplete, RoleAdmin); len(got) != 0 {
		t.Fatalf("expected no actions on a complete request, got %v", got)
	}
}
