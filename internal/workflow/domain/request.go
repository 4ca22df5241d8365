package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle status of a service request.
type RequestStatus string

const (
	StatusWaitingForDropoff  RequestStatus = "waiting_for_dropoff"
	StatusInProcess          RequestStatus = "in_process"
	StatusPendingForApproval RequestStatus = "pending_for_approval"
	StatusApproved           RequestStatus = "approved"
	StatusReassigned         RequestStatus = "reassigned"
	StatusReadyForPickup     RequestStatus = "ready_for_pickup"
	StatusRejected           RequestStatus = "rejected"
	StatusComplete           RequestStatus = "complete"
)

// ParseRequestStatus validates a stored status value.
func ParseRequestStatus(value string) (RequestStatus, bool) {
	switch RequestStatus(value) {
	case StatusWaitingForDropoff, StatusInProcess, StatusPendingForApproval, StatusApproved,
		StatusReassigned, StatusReadyForPickup, StatusRejected, StatusComplete:
		return RequestStatus(value), true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transitions may leave s.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusRejected
}

// IsTransient reports whether s is only ever passed through, never persisted.
func (s RequestStatus) IsTransient() bool {
	return s == StatusApproved || s == StatusReassigned
}

// Priority is the service level paid for by the customer.
type Priority string

const (
	PriorityRegular     Priority = "regular"
	PriorityFastService Priority = "fast_service"
)

// ParsePriority validates a priority value; empty defaults to regular.
func ParsePriority(value string) (Priority, bool) {
	switch Priority(value) {
	case "":
		return PriorityRegular, true
	case PriorityRegular, PriorityFastService:
		return Priority(value), true
	default:
		return "", false
	}
}

// PaymentStatus is the outcome of one payment attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentMode is how the customer paid.
type PaymentMode string

const (
	PaymentModeCard   PaymentMode = "card"
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeOnline PaymentMode = "online"
)

// PaymentAttempt is one recorded payment. Attempts are append-only.
type PaymentAttempt struct {
	TransactionID string        `json:"transactionId"`
	AmountCents   int64         `json:"amountCents"`
	Status        PaymentStatus `json:"status"`
	Mode          PaymentMode   `json:"mode"`
	RecordedAt    time.Time     `json:"recordedAt"`
}

// Feedback is the customer's rating of a finished repair.
type Feedback struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ServiceRequest is a customer's repair request and its lifecycle status.
type ServiceRequest struct {
	ID                 uuid.UUID
	CustomerID         uuid.UUID
	StoreID            uuid.UUID
	AssignedEmployeeID *uuid.UUID
	CatalogEntryID     *uuid.UUID
	Status             RequestStatus
	Reassigned         bool
	Priority           Priority
	Payments           []PaymentAttempt
	Feedback           *Feedback
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasSuccessfulPayment reports whether any recorded attempt succeeded.
func (r ServiceRequest) HasSuccessfulPayment() bool {
	for _, p := range r.Payments {
		if p.Status == PaymentSucceeded {
			return true
		}
	}
	return false
}

// NewPaymentAttempt validates and normalizes a payment attempt.
func NewPaymentAttempt(transactionID string, amountCents int64, status PaymentStatus, mode PaymentMode, now time.Time) (PaymentAttempt, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return PaymentAttempt{}, InvalidField("payment transaction id is required")
	}
	if amountCents <= 0 {
		return PaymentAttempt{}, InvalidField("payment amount must be positive")
	}
	switch status {
	case PaymentPending, PaymentSucceeded, PaymentFailed:
	default:
		return PaymentAttempt{}, InvalidField("unknown payment status " + string(status))
	}
	switch mode {
	case PaymentModeCard, PaymentModeCash, PaymentModeOnline:
	default:
		return PaymentAttempt{}, InvalidField("unknown payment mode " + string(mode))
	}
	return PaymentAttempt{
		TransactionID: transactionID,
		AmountCents:   amountCents,
		Status:        status,
		Mode:          mode,
		RecordedAt:    now,
	}, nil
}

// AppendPayment returns payments with attempt appended. Transaction ids must
// be unique across the request; existing attempts are never modified.
func AppendPayment(payments []PaymentAttempt, attempt PaymentAttempt) ([]PaymentAttempt, error) {
	for _, existing := range payments {
		if existing.TransactionID == attempt.TransactionID {
			return nil, InvalidField("payment transaction " + attempt.TransactionID + " is already recorded")
		}
	}
	out := make([]PaymentAttempt, 0, len(payments)+1)
	out = append(out, payments...)
	return append(out, attempt), nil
}

// NewFeedback validates a customer rating.
func NewFeedback(rating int, comment string, now time.Time) (Feedback, error) {
	if rating < 1 || rating > 5 {
		return Feedback{}, InvalidField("feedback rating must be between 1 and 5")
	}
	return Feedback{Rating: rating, Comment: strings.TrimSpace(comment), SubmittedAt: now}, nil
}
