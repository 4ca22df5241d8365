package service

import (
	"context"
	"testing"

	"repairshop_backend/internal/workflow/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRequestRequiresSuccessfulPayment(t *testing.T) {
	f := newFixture(t)
	in := OpenRequestInput{
		CustomerID: f.customer,
		StoreID:    uuid.New(),
		Priority:   "fast_service",
		Payment:    PaymentInput{TransactionID: "tx-1", AmountCents: 1500, Status: domain.PaymentPending, Mode: domain.PaymentModeOnline},
	}

	_, err := f.svc.OpenRequest(context.Background(), in)
	requireCode(t, err, domain.CodeInvalidField)

	in.Payment.Status = domain.PaymentSucceeded
	req, err := f.svc.OpenRequest(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityFastService, req.Priority)
	assert.Equal(t, domain.StatusWaitingForDropoff, req.Status)
	assert.True(t, req.HasSuccessfulPayment())
}

func TestOpenRequestOnlyByCustomer(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.OpenRequest(context.Background(), OpenRequestInput{
		CustomerID: f.employeeA,
		StoreID:    uuid.New(),
		Payment:    PaymentInput{TransactionID: "tx-1", AmountCents: 1500, Status: domain.PaymentSucceeded, Mode: domain.PaymentModeCash},
	})
	requireCode(t, err, domain.CodeInvalidRole)
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	req := f.open(t)
	ctx := context.Background()

	updated, err := f.svc.RecordPayment(ctx, req.ID, f.customer, PaymentInput{TransactionID: "tx-extra", AmountCents: 2500, Status: domain.PaymentSucceeded, Mode: domain.PaymentModeCard})
	require.NoError(t, err)
	require.Len(t, updated.Payments, 2)
	assert.Equal(t, req.Payments[0].TransactionID, updated.Payments[0].TransactionID)

	_, err = f.svc.RecordPayment(ctx, req.ID, f.manager1, PaymentInput{TransactionID: "tx-extra", AmountCents: 2500, Status: domain.PaymentSucceeded, Mode: domain.PaymentModeCard})
	requireCode(t, err, domain.CodeInvalidField)

	_, err = f.svc.RecordPayment(ctx, req.ID, f.employeeA, PaymentInput{TransactionID: "tx-other", AmountCents: 100, Status: domain.PaymentSucceeded, Mode: domain.PaymentModeCash})
	requireCode(t, err, domain.CodeInvalidRole)
}

func TestSubmitFeedbackRules(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)
	ctx := context.Background()

	_, err := f.svc.SubmitFeedback(ctx, req.ID, f.customer, 4, "")
	requireCode(t, err, domain.CodeInvalidTransition)

	_, err = f.svc.Approve(ctx, req.ID, f.manager1)
	require.NoError(t, err)

	_, err = f.svc.SubmitFeedback(ctx, req.ID, f.manager1, 4, "")
	requireCode(t, err, domain.CodeInvalidRole)

	_, err = f.svc.SubmitFeedback(ctx, req.ID, f.customer, 9, "")
	requireCode(t, err, domain.CodeInvalidField)

	updated, err := f.svc.SubmitFeedback(ctx, req.ID, f.customer, 4, " good ")
	require.NoError(t, err)
	require.NotNil(t, updated.Feedback)
	assert.Equal(t, "good", updated.Feedback.Comment)

	_, err = f.svc.SubmitFeedback(ctx, req.ID, f.customer, 5, "")
	requireCode(t, err, domain.CodeInvalidTransition)
}

func TestHandoffQuery(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)
	ctx := context.Background()

	h, err := f.svc.Handoff(ctx, req.ID, f.manager1)
	require.NoError(t, err)
	require.NotNil(t, h.Current)
	assert.Equal(t, domain.ActivityApproval, h.Current.Type)
	require.NotNil(t, h.Preceding)
	assert.Equal(t, domain.ActivityAssignSubmit, h.Preceding.Type)
	assert.Equal(t, f.employeeA, h.Preceding.ProcessingEmployeeID)

	h, err = f.svc.Handoff(ctx, req.ID, f.employeeA)
	require.NoError(t, err)
	assert.Nil(t, h.Current, "employee's repair is completed")
	require.NotNil(t, h.Preceding)
	assert.Equal(t, f.manager1, h.Preceding.ProcessingEmployeeID)

	_, err = f.svc.Handoff(ctx, req.ID, uuid.New())
	requireCode(t, err, domain.CodeUnknownActor)
}

func TestCheckConsistencyDetectsDrift(t *testing.T) {
	f := newFixture(t)
	req := f.assigned(t)
	ctx := context.Background()

	drifted := req
	drifted.Status = domain.StatusReadyForPickup
	require.NoError(t, f.repo.UpdateRequest(ctx, drifted, domain.StatusInProcess))

	report, err := f.svc.CheckConsistency(ctx, req.ID)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, []domain.RequestStatus{domain.StatusInProcess}, report.Compatible)
}
