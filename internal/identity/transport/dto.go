package transport

import (
	"time"

	"github.com/google/uuid"
)

type ListUsersRequest struct {
	Role string `form:"role" validate:"required,oneof=customer employee store_manager admin"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}
