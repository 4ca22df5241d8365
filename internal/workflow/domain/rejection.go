package domain

import (
	"fmt"

	"repairshop_backend/platform/apperr"

	"github.com/google/uuid"
)

// Rejection codes returned in apperr.Error.Code for workflow rule violations.
const (
	CodeUnknownActor        = "unknown_actor"
	CodeInvalidReference    = "invalid_reference"
	CodeInvalidRole         = "invalid_role"
	CodeInvalidField        = "invalid_field"
	CodeInvalidStateForType = "invalid_state_for_type"
	CodeInvalidTransition   = "invalid_transition"
)

// UnknownActor rejects a reference to an actor id that does not resolve.
func UnknownActor(id uuid.UUID) *apperr.Error {
	return apperr.NotFound(fmt.Sprintf("actor %s does not exist", id)).WithCode(CodeUnknownActor)
}

// InvalidReference rejects a reference to a record that does not resolve.
func InvalidReference(message string) *apperr.Error {
	return apperr.NotFound(message).WithCode(CodeInvalidReference)
}

// InvalidRole rejects an actor whose role does not permit the activity or transition.
func InvalidRole(message string) *apperr.Error {
	return apperr.Forbidden(message).WithCode(CodeInvalidRole)
}

// InvalidField rejects structurally malformed input.
func InvalidField(message string) *apperr.Error {
	return apperr.Validation(message).WithCode(CodeInvalidField)
}

// InvalidStateForType rejects a status that the activity type does not allow.
func InvalidStateForType(message string) *apperr.Error {
	return apperr.Conflict(message).WithCode(CodeInvalidStateForType)
}

// InvalidTransition rejects a request status change that does not match the
// stored status or an unmet precondition of the transition.
func InvalidTransition(message string) *apperr.Error {
	return apperr.Conflict(message).WithCode(CodeInvalidTransition)
}

// IsRejection reports whether err is a workflow business-rule rejection, as
// opposed to an infrastructure failure.
func IsRejection(err error) bool {
	switch apperr.GetCode(err) {
	case CodeUnknownActor, CodeInvalidReference, CodeInvalidRole,
		CodeInvalidField, CodeInvalidStateForType, CodeInvalidTransition:
		return true
	default:
		return false
	}
}
