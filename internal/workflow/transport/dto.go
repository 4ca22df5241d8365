package transport

import (
	"time"

	"repairshop_backend/internal/workflow/domain"

	"github.com/google/uuid"
)

// PaymentRequest is one payment attempt reported by the payment provider.
type PaymentRequest struct {
	TransactionID string `json:"transactionId" validate:"required,notblank,max=128"`
	AmountCents   int64  `json:"amountCents" validate:"required,gt=0"`
	Status        string `json:"status" validate:"required,oneof=pending succeeded failed"`
	Mode          string `json:"mode" validate:"required,oneof=card cash online"`
}

// OpenRequestRequest is the request body for opening a repair request.
type OpenRequestRequest struct {
	StoreID        uuid.UUID      `json:"storeId" validate:"required"`
	Priority       string         `json:"priority,omitempty" validate:"omitempty,oneof=regular fast_service"`
	CatalogEntryID *uuid.UUID     `json:"catalogEntryId,omitempty"`
	Payment        PaymentRequest `json:"payment"`
}

// AssignEmployeeRequest is the request body for assigning an employee.
type AssignEmployeeRequest struct {
	EmployeeID uuid.UUID `json:"employeeId" validate:"required"`
	Comment    *string   `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// SubmitForApprovalRequest is the request body for submitting a repair.
type SubmitForApprovalRequest struct {
	ManagerID uuid.UUID `json:"managerId" validate:"required"`
	Comment   *string   `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// ReassignRequest is the request body for reassigning a repair.
type ReassignRequest struct {
	EmployeeID uuid.UUID `json:"employeeId" validate:"required"`
	Comment    *string   `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// RejectRequest is the request body for rejecting a repair request.
type RejectRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// FeedbackRequest is the request body for customer feedback.
type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// HandoffQuery selects whose hand-off context to return.
type HandoffQuery struct {
	ActorID string `form:"actorId"`
}

// PaymentResponse is a recorded payment attempt.
type PaymentResponse struct {
	TransactionID string    `json:"transactionId"`
	AmountCents   int64     `json:"amountCents"`
	Status        string    `json:"status"`
	Mode          string    `json:"mode"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// FeedbackResponse is the customer's rating.
type FeedbackResponse struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ServiceRequestResponse is the API view of a service request.
type ServiceRequestResponse struct {
	ID                 uuid.UUID         `json:"id"`
	CustomerID         uuid.UUID         `json:"customerId"`
	StoreID            uuid.UUID         `json:"storeId"`
	AssignedEmployeeID *uuid.UUID        `json:"assignedEmployeeId,omitempty"`
	CatalogEntryID     *uuid.UUID        `json:"catalogEntryId,omitempty"`
	Status             string            `json:"status"`
	Reassigned         bool              `json:"reassigned"`
	Priority           string            `json:"priority"`
	Payments           []PaymentResponse `json:"payments"`
	Feedback           *FeedbackResponse `json:"feedback,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// CommentResponse is a hand-off note.
type CommentResponse struct {
	Date time.Time `json:"date"`
	Text string    `json:"comment"`
}

// ActivityResponse is the API view of a ledger entry.
type ActivityResponse struct {
	ID                   uuid.UUID        `json:"id"`
	ServiceRequestID     uuid.UUID        `json:"serviceRequestId"`
	ActivityType         string           `json:"activityType"`
	ProcessingEmployeeID uuid.UUID        `json:"processingEmployeeId"`
	AssignedBy           uuid.UUID        `json:"assignedBy"`
	AssignedTo           *uuid.UUID       `json:"assignedTo,omitempty"`
	Comments             *CommentResponse `json:"comments,omitempty"`
	Status               string           `json:"status"`
	StartTime            time.Time        `json:"startTime"`
	EndTime              *time.Time       `json:"endTime,omitempty"`
}

// WorkflowResultResponse is returned by every workflow action.
type WorkflowResultResponse struct {
	Request    ServiceRequestResponse `json:"request"`
	Activities []ActivityResponse     `json:"activities"`
	Completed  []ActivityResponse     `json:"completed"`
}

// HandoffResponse is the hand-off context for one actor.
type HandoffResponse struct {
	Current   *ActivityResponse `json:"current"`
	Preceding *ActivityResponse `json:"preceding"`
}

// ConsistencyResponse reports whether the stored status matches the ledger.
type ConsistencyResponse struct {
	Status     string   `json:"status"`
	Compatible []string `json:"compatibleStatuses"`
	Consistent bool     `json:"consistent"`
}

// ToServiceRequestResponse maps a domain request to its API view.
func ToServiceRequestResponse(req domain.ServiceRequest) ServiceRequestResponse {
	payments := make([]PaymentResponse, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, PaymentResponse{
			TransactionID: p.TransactionID,
			AmountCents:   p.AmountCents,
			Status:        string(p.Status),
			Mode:          string(p.Mode),
			RecordedAt:    p.RecordedAt,
		})
	}

	resp := ServiceRequestResponse{
		ID:                 req.ID,
		CustomerID:         req.CustomerID,
		StoreID:            req.StoreID,
		AssignedEmployeeID: req.AssignedEmployeeID,
		CatalogEntryID:     req.CatalogEntryID,
		Status:             string(req.Status),
		Reassigned:         req.Reassigned,
		Priority:           string(req.Priority),
		Payments:           payments,
		CreatedAt:          req.CreatedAt,
		UpdatedAt:          req.UpdatedAt,
	}
	if req.Feedback != nil {
		resp.Feedback = &FeedbackResponse{
			Rating:      req.Feedback.Rating,
			Comment:     req.Feedback.Comment,
			SubmittedAt: req.Feedback.SubmittedAt,
		}
	}
	return resp
}

// ToActivityResponse maps a ledger entry to its API view.
func ToActivityResponse(a domain.Activity) ActivityResponse {
	resp := ActivityResponse{
		ID:                   a.ID,
		ServiceRequestID:     a.ServiceRequestID,
		ActivityType:         string(a.Type),
		ProcessingEmployeeID: a.ProcessingEmployeeID,
		AssignedBy:           a.AssignedBy,
		AssignedTo:           a.AssignedTo,
		Status:               string(a.Status),
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
	}
	if a.Comments != nil {
		resp.Comments = &CommentResponse{Date: a.Comments.Date, Text: a.Comments.Text}
	}
	return resp
}

// ToActivityResponses maps a slice of ledger entries.
func ToActivityResponses(list []domain.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToActivityResponse(a))
	}
	return out
}

func optionalActivity(a *domain.Activity) *ActivityResponse {
	if a == nil {
		return nil
	}
	resp := ToActivityResponse(*a)
	return &resp
}

// ToHandoffResponse maps a hand-off context.
func ToHandoffResponse(h domain.Handoff) HandoffResponse {
	return HandoffResponse{Current: optionalActivity(h.Current), Preceding: optionalActivity(h.Preceding)}
}

// ToConsistencyResponse maps a consistency report.
func ToConsistencyResponse(r domain.ConsistencyReport) ConsistencyResponse {
	compatible := make([]string, 0, len(r.Compatible))
	for _, s := range r.Compatible {
		compatible = append(compatible, string(s))
	}
	return ConsistencyResponse{Status: string(r.Stored), Compatible: compatible, Consistent: r.Consistent}
}
