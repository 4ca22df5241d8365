package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestCompatibleStatuses(t *testing.T) {
	to := uuid.New()
	handoff := Activity{Type: ActivityAssignSubmit, Status: ActivityCompleted, AssignedTo: &to, EndTime: &testNow}
	openRepair := Activity{Type: ActivityRepair, Status: ActivityInProgress}
	doneRepair := Activity{Type: ActivityRepair, Status: ActivityCompleted, EndTime: &testNow}
	openApproval := Activity{Type: ActivityApproval, Status: ActivityInProgress}
	doneApproval := Activity{Type: ActivityApproval, Status: ActivityCompleted, EndTime: &testNow}

	tests := []struct {
		name   string
		ledger []Activity
		status RequestStatus
		ok     bool
	}{
		{"empty ledger waiting", nil, StatusWaitingForDropoff, true},
		{"empty ledger in process", nil, StatusInProcess, false},
		{"assigned", []Activity{handoff, openRepair}, StatusInProcess, true},
		{"submitted", []Activity{handoff, doneRepair, handoff, openApproval}, StatusPendingForApproval, true},
		{"submitted but stored in process", []Activity{handoff, doneRepair, handoff, openApproval}, StatusInProcess, false},
		{"approved", []Activity{handoff, doneRepair, handoff, doneApproval}, StatusReadyForPickup, true},
		{"reassigned", []Activity{handoff, doneRepair, handoff, doneApproval, handoff, openRepair}, StatusInProcess, true},
		{"both open is drift", []Activity{openRepair, openApproval}, StatusInProcess, false},
	}

	for _, tc := range tests {
		report := CheckConsistency(ServiceRequest{Status: tc.status}, tc.ledger)
		if report.Consistent != tc.ok {
			t.Fatalf("%s: expected consistent=%v, got %v (compatible %v)", tc.name, tc.ok, report.Consistent, report.Compatible)
		}
	}
}

func TestBuildHandoff(t *testing.T) {
	emp := uuid.New()
	first := Activity{ID: uuid.New(), Type: ActivityAssignSubmit, AssignedTo: &emp, Seq: 1}
	repair := Activity{ID: uuid.New(), Type: ActivityRepair, Status: ActivityInProgress, Seq: 2}
	later := Activity{ID: uuid.New(), Type: ActivityAssignSubmit, AssignedTo: &emp, Seq: 5}

	h := BuildHandoff([]Activity{repair}, []Activity{first, later})
	if h.Current == nil || h.Current.ID != repair.ID {
		t.Fatalf("expected current repair, got %+v", h.Current)
	}
	if h.Preceding == nil || h.Preceding.ID != first.ID {
		t.Fatalf("expected the hand-off before the current activity, got %+v", h.Preceding)
	}

	h = BuildHandoff(nil, []Activity{first, later})
	if h.Current != nil {
		t.Fatal("expected no current activity")
	}
	if h.Preceding == nil || h.Preceding.ID != later.ID {
		t.Fatalf("expected latest hand-off without a current activity, got %+v", h.Preceding)
	}
}
