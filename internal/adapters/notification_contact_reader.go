package adapters

import (
	"context"

	"repairshop_backend/internal/identity"
	"repairshop_backend/internal/notification"

	"github.com/google/uuid"
)

// NotificationContactReader supplies customer contact details to the
// notification module from the identity context.
type NotificationContactReader struct {
	users identity.Service
}

func NewNotificationContactReader(users identity.Service) *NotificationContactReader {
	return &NotificationContactReader{users: users}
}

func (a *NotificationContactReader) GetContact(ctx context.Context, customerID uuid.UUID) (notification.Contact, error) {
	user, err := a.users.GetUser(ctx, customerID)
	if err != nil {
		return notification.Contact{}, err
	}

	contact := notification.Contact{Name: user.DisplayName, Email: user.Email}
	if user.Phone != nil {
		contact.Phone = *user.Phone
	}
	return contact, nil
}

var _ notification.ContactReader = (*NotificationContactReader)(nil)
