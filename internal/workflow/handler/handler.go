package handler

import (
	"net/http"

	"repairshop_backend/internal/workflow/domain"
	"repairshop_backend/internal/workflow/service"
	"repairshop_backend/internal/workflow/transport"
	"repairshop_backend/platform/httpkit"
	"repairshop_backend/platform/sanitize"
	"repairshop_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for the repair workflow
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new workflow handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the repair request routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Open)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/activities", h.ListActivities)
	rg.GET("/:id/handoff", h.Handoff)
	rg.GET("/:id/consistency", h.Consistency)
	rg.POST("/:id/payments", h.RecordPayment)
	rg.POST("/:id/assign", h.Assign)
	rg.POST("/:id/submit", h.Submit)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reassign", h.Reassign)
	rg.POST("/:id/hand-over", h.HandOver)
	rg.POST("/:id/reject", h.Reject)
	rg.POST("/:id/feedback", h.Feedback)
}

func parseRequestID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// bind decodes and validates a JSON body. It writes the error response
// itself and reports whether the handler may continue.
func (h *Handler) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(dst); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

// actionTarget resolves the authenticated actor and the request id.
func actionTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	caller, ok := httpkit.RequireCaller(c)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	requestID, ok := parseRequestID(c)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return caller.UserID, requestID, true
}

func writeResult(c *gin.Context, res service.Result) {
	httpkit.OK(c, transport.WorkflowResultResponse{
		Request:    transport.ToServiceRequestResponse(res.Request),
		Activities: transport.ToActivityResponses(res.Activities),
		Completed:  transport.ToActivityResponses(res.Completed),
	})
}

func toPaymentInput(p transport.PaymentRequest) service.PaymentInput {
	return service.PaymentInput{
		TransactionID: p.TransactionID,
		AmountCents:   p.AmountCents,
		Status:        domain.PaymentStatus(p.Status),
		Mode:          domain.PaymentMode(p.Mode),
	}
}

// Open handles POST /api/v1/repair-requests
func (h *Handler) Open(c *gin.Context) {
	var req transport.OpenRequestRequest
	if !h.bind(c, &req) {
		return
	}
	caller, ok := httpkit.RequireCaller(c)
	if !ok {
		return
	}

	created, err := h.svc.OpenRequest(c.Request.Context(), service.OpenRequestInput{
		CustomerID:     caller.UserID,
		StoreID:        req.StoreID,
		Priority:       req.Priority,
		CatalogEntryID: req.CatalogEntryID,
		Payment:        toPaymentInput(req.Payment),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToServiceRequestResponse(created))
}

// Get handles GET /api/v1/repair-requests/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}
	req, err := h.svc.GetRequest(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToServiceRequestResponse(req))
}

// ListActivities handles GET /api/v1/repair-requests/:id/activities
func (h *Handler) ListActivities(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}
	list, err := h.svc.ListActivities(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": transport.ToActivityResponses(list)})
}

// Handoff handles GET /api/v1/repair-requests/:id/handoff
func (h *Handler) Handoff(c *gin.Context) {
	var query transport.HandoffQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	userID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}
	actorID := userID
	if query.ActorID != "" {
		parsed, err := uuid.Parse(query.ActorID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidID, "actorId must be a uuid")
			return
		}
		actorID = parsed
	}

	handoff, err := h.svc.Handoff(c.Request.Context(), requestID, actorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToHandoffResponse(handoff))
}

// Consistency handles GET /api/v1/repair-requests/:id/consistency
func (h *Handler) Consistency(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}
	report, err := h.svc.CheckConsistency(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToConsistencyResponse(report))
}

// RecordPayment handles POST /api/v1/repair-requests/:id/payments
func (h *Handler) RecordPayment(c *gin.Context) {
	var req transport.PaymentRequest
	if !h.bind(c, &req) {
		return
	}
	actorID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}

	updated, err := h.svc.RecordPayment(c.Request.Context(), requestID, actorID, toPaymentInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToServiceRequestResponse(updated))
}

// Assign handles POST /api/v1/repair-requests/:id/assign
func (h *Handler) Assign(c *gin.Context) {
	var req transport.AssignEmployeeRequest
	if !h.bind(c, &req) {
		return
	}
	managerID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}

	res, err := h.svc.AssignEmployee(c.Request.Context(), requestID, managerID, req.EmployeeID, sanitize.TextPtr(req.Comment))
	if httpkit.HandleError(c, err) {
		return
	}
	writeResult(c, res)
}

// Submit handles POST /api/v1/repair-requests/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitForApprovalRequest
	if !h.bind(c, &req) {
		return
	}
	employeeID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}

	res, err := h.svc.SubmitForApproval(c.Request.Context(), requestID, employeeID, req.ManagerID, sanitize.TextPtr(req.Comment))
	if httpkit.HandleError(c, err) {
		return
	}
	writeResult(c, res)
}

// Approve handles POST /api/v1/repair-requests/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	managerID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}
	res, err := h.svc.Approve(c.Request.Context(), requestID, managerID)
	if httpkit.HandleError(c, err) {
		return
	}
	writeResult(c, res)
}

// Reassign handles POST /api/v1/repair-requests/:id/reassign
func (h *Handler) Reassign(c *gin.Context) {
	var req transport.ReassignRequest
	if !h.bind(c, &req) {
		return
	}
	managerID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}

	res, err := h.svc.Reassign(c.Request.Context(), requestID, managerID, req.EmployeeID, sanitize.TextPtr(req.Comment))
	if httpkit.HandleError(c, err) {
		return
	}
	writeResult(c, res)
}

// HandOver handles POST /api/v1/repair-requests/:id/hand-over
func (h *Handler) HandOver(c *gin.Context) {
	managerID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}
	res, err := h.svc.HandOver(c.Request.Context(), requestID, managerID)
	if httpkit.HandleError(c, err) {
		return
	}
	writeResult(c, res)
}

// Reject handles POST /api/v1/repair-requests/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	var req transport.RejectRequest
	if c.Request.ContentLength > 0 && !h.bind(c, &req) {
		return
	}
	actorID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}

	res, err := h.svc.Reject(c.Request.Context(), requestID, actorID, sanitize.Text(req.Reason))
	if httpkit.HandleError(c, err) {
		return
	}
	writeResult(c, res)
}

// Feedback handles POST /api/v1/repair-requests/:id/feedback
func (h *Handler) Feedback(c *gin.Context) {
	var req transport.FeedbackRequest
	if !h.bind(c, &req) {
		return
	}
	customerID, requestID, ok := actionTarget(c)
	if !ok {
		return
	}

	updated, err := h.svc.SubmitFeedback(c.Request.Context(), requestID, customerID, req.Rating, sanitize.Text(req.Comment))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToServiceRequestResponse(updated))
}
