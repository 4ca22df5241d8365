package handler

import (
	"net/http"

	"repairshop_backend/internal/identity/repository"
	"repairshop_backend/internal/identity/service"
	"repairshop_backend/internal/identity/transport"
	"repairshop_backend/platform/httpkit"
	"repairshop_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.GetMe)
	rg.GET("/users", httpkit.RequireAnyRole("store_manager", "admin"), h.ListUsers)
}

func (h *Handler) GetMe(c *gin.Context) {
	caller, ok := httpkit.RequireCaller(c)
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), caller.UserID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toUserResponse(user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	var req transport.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	users, err := h.svc.ListByRole(c.Request.Context(), req.Role)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ListUsersResponse{Users: make([]transport.UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	httpkit.OK(c, resp)
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:          u.ID,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Phone:       u.Phone,
		CreatedAt:   u.CreatedAt,
	}
}
