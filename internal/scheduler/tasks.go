package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCustomerNotification = "notification.customer"

// Notification kinds carried by TaskCustomerNotification.
const (
	NotificationReadyForPickup = "ready_for_pickup"
	NotificationRepairComplete = "repair_completed"
)

type CustomerNotificationPayload struct {
	Kind       string `json:"kind"`
	RequestID  string `json:"requestId"`
	CustomerID string `json:"customerId"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Key identifies one notification per request and kind.
func (p CustomerNotificationPayload) Key() string {
	return p.Kind + ":" + p.RequestID
}

func NewCustomerNotificationTask(payload CustomerNotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCustomerNotification, data), nil
}

func ParseCustomerNotificationPayload(task *asynq.Task) (CustomerNotificationPayload, error) {
	var payload CustomerNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CustomerNotificationPayload{}, err
	}
	return payload, nil
}
