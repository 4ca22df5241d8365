package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActivityDraft is a proposed ledger entry before validation. Status may be
// left empty to take the type's default.
type ActivityDraft struct {
	ServiceRequestID     uuid.UUID
	Type                 ActivityType
	ProcessingEmployeeID uuid.UUID
	AssignedBy           uuid.UUID
	AssignedTo           *uuid.UUID
	Comments             *Comment
	Status               ActivityStatus
	StartTime            time.Time
	EndTime              *time.Time
}

// ValidationContext carries what the validator needs to know about the world:
// whether the owning request exists and the resolved role of every actor the
// draft references.
type ValidationContext struct {
	RequestExists bool
	Roles         ActorRoles
	Now           time.Time
}

var (
	assignerRoles  = []Role{RoleCustomer, RoleEmployee, RoleStoreManager}
	processorRoles = []Role{RoleEmployee, RoleStoreManager}
	handoffeeRoles = []Role{RoleCustomer, RoleEmployee, RoleStoreManager}
)

func (vc ValidationContext) requireRole(id uuid.UUID, field string, allowed []Role) error {
	role, ok := vc.Roles[id]
	if !ok {
		return UnknownActor(id)
	}
	if !role.In(allowed...) {
		return InvalidRole(field + " must be one of " + joinRoles(allowed) + ", got " + string(role))
	}
	return nil
}

// ValidateNewActivity checks a draft against the creation rules and returns
// the normalized activity with defaults applied. The returned activity has no
// id or sequence yet; the ledger assigns them on insert.
func ValidateNewActivity(d ActivityDraft, vc ValidationContext) (Activity, error) {
	if d.ServiceRequestID == uuid.Nil || !vc.RequestExists {
		return Activity{}, InvalidReference("service request " + d.ServiceRequestID.String() + " does not exist")
	}
	if _, ok := ParseActivityType(string(d.Type)); !ok {
		return Activity{}, InvalidField("activity_type must be repair, approval or assign_submit")
	}
	if err := vc.requireRole(d.AssignedBy, "assigned_by", assignerRoles); err != nil {
		return Activity{}, err
	}
	if err := vc.requireRole(d.ProcessingEmployeeID, "processing_employee_id", processorRoles); err != nil {
		return Activity{}, err
	}

	now := vc.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	start := d.StartTime
	if start.IsZero() {
		start = now
	}

	out := Activity{
		ServiceRequestID:     d.ServiceRequestID,
		Type:                 d.Type,
		ProcessingEmployeeID: d.ProcessingEmployeeID,
		AssignedBy:           d.AssignedBy,
		StartTime:            start,
	}

	if d.Type == ActivityAssignSubmit {
		if d.AssignedTo == nil {
			return Activity{}, InvalidField("assigned_to is required for assign_submit")
		}
		if err := vc.requireRole(*d.AssignedTo, "assigned_to", handoffeeRoles); err != nil {
			return Activity{}, err
		}
		if d.Comments != nil {
			text := strings.TrimSpace(d.Comments.Text)
			if text == "" {
				return Activity{}, InvalidField("comment must not be empty")
			}
			date := d.Comments.Date
			if date.IsZero() {
				date = now
			}
			out.Comments = &Comment{Date: date, Text: text}
		}
		if d.Status == ActivityInProgress {
			return Activity{}, InvalidStateForType("assign_submit activities are created completed")
		}
		if d.Status != "" && d.Status != ActivityCompleted {
			return Activity{}, InvalidStateForType("unknown activity status " + string(d.Status))
		}
		assignedTo := *d.AssignedTo
		out.AssignedTo = &assignedTo
		out.Status = ActivityCompleted
		end := now
		if d.EndTime != nil {
			end = *d.EndTime
		}
		out.EndTime = &end
		return out, nil
	}

	if d.AssignedTo != nil {
		return Activity{}, InvalidField("assigned_to is only allowed for assign_submit")
	}
	if d.Comments != nil {
		return Activity{}, InvalidField("comments are only allowed for assign_submit")
	}
	if d.Status != "" && d.Status != ActivityInProgress {
		return Activity{}, InvalidStateForType(string(d.Type) + " activities must be created in_progress")
	}
	if d.EndTime != nil {
		return Activity{}, InvalidField("end_time is set on completion, not at creation")
	}
	out.Status = ActivityInProgress
	return out, nil
}

// ValidateCompletion checks the single legal status change of a repair or
// approval activity and returns the completed activity.
func ValidateCompletion(a Activity, target ActivityStatus, now time.Time) (Activity, error) {
	if a.Type == ActivityAssignSubmit {
		return Activity{}, InvalidStateForType("assign_submit activities are immutable")
	}
	if target != ActivityCompleted {
		return Activity{}, InvalidStateForType("activity status may only change to completed")
	}
	if a.Status != ActivityInProgress {
		return Activity{}, InvalidStateForType("activity " + a.ID.String() + " is not in progress")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	a.Status = ActivityCompleted
	if a.EndTime == nil {
		end := now
		a.EndTime = &end
	}
	return a, nil
}

func joinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
