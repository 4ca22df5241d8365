// Package notification turns workflow events into customer notification tasks.
// The workflow engine publishes events after commit; this module subscribes and
// enqueues background jobs, so the engine never knows about delivery channels.
package notification

import (
	"context"
	"errors"
	"fmt"

	"repairshop_backend/internal/events"
	"repairshop_backend/internal/scheduler"
	"repairshop_backend/platform/config"
	"repairshop_backend/platform/logger"
	"repairshop_backend/platform/metrics"
	"repairshop_backend/platform/phone"

	"github.com/google/uuid"
)

// Contact is what the notification module needs to reach a customer.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// ContactReader looks up customer contact details.
type ContactReader interface {
	GetContact(ctx context.Context, customerID uuid.UUID) (Contact, error)
}

type Module struct {
	enqueuer scheduler.NotificationEnqueuer
	dedupe   Deduper
	contacts ContactReader
	region   string
	log      *logger.Logger
}

func New(enqueuer scheduler.NotificationEnqueuer, dedupe Deduper, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		enqueuer: enqueuer,
		dedupe:   dedupe,
		region:   cfg.GetPhoneDefaultRegion(),
		log:      log,
	}
}

// SetContactReader wires the customer contact lookup.
func (m *Module) SetContactReader(r ContactReader) {
	m.contacts = r
}

func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.RepairApproved{}.EventName(), m)
	bus.Subscribe(events.RepairCompleted{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.RepairApproved:
		return m.notify(ctx, scheduler.NotificationReadyForPickup, e.RequestID, e.CustomerID)
	case events.RepairCompleted:
		return m.notify(ctx, scheduler.NotificationRepairComplete, e.RequestID, e.CustomerID)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) notify(ctx context.Context, kind string, requestID, customerID uuid.UUID) error {
	log := m.log.WithContext(ctx).With("kind", kind, "request_id", requestID.String())

	if m.enqueuer == nil {
		log.Debug("notification enqueuer not configured, skipping")
		return nil
	}

	payload := scheduler.CustomerNotificationPayload{
		Kind:       kind,
		RequestID:  requestID.String(),
		CustomerID: customerID.String(),
	}

	if m.dedupe != nil {
		claimed, err := m.dedupe.Claim(ctx, payload.Key())
		if err != nil {
			metrics.NotificationsEnqueuedTotal.WithLabelValues(kind, "error").Inc()
			return fmt.Errorf("claim notification: %w", err)
		}
		if !claimed {
			metrics.NotificationsEnqueuedTotal.WithLabelValues(kind, "duplicate").Inc()
			log.Debug("notification already sent")
			return nil
		}
	}

	if m.contacts != nil {
		contact, err := m.contacts.GetContact(ctx, customerID)
		if err != nil {
			log.Warn("customer contact lookup failed", "error", err)
		} else {
			payload.Name = contact.Name
			payload.Email = contact.Email
			if contact.Phone != "" {
				payload.Phone = phone.NormalizeE164(contact.Phone, m.region)
			}
		}
	}

	if err := m.enqueuer.EnqueueCustomerNotification(ctx, payload); err != nil {
		metrics.NotificationsEnqueuedTotal.WithLabelValues(kind, "error").Inc()
		if m.dedupe != nil {
			if releaseErr := m.dedupe.Release(ctx, payload.Key()); releaseErr != nil {
				err = errors.Join(err, releaseErr)
			}
		}
		log.Error("failed to enqueue customer notification", "error", err)
		return err
	}

	metrics.NotificationsEnqueuedTotal.WithLabelValues(kind, "enqueued").Inc()
	log.Info("customer notification enqueued")
	return nil
}
