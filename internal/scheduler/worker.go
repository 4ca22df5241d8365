package scheduler

import (
	"context"
	"fmt"

	"repairshop_backend/platform/config"
	"repairshop_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NotificationDeliverer hands a customer notification to a delivery channel.
type NotificationDeliverer interface {
	DeliverCustomerNotification(ctx context.Context, payload CustomerNotificationPayload) error
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	deliver NotificationDeliverer
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		deliver: logDeliverer{log: log},
		log:     log,
	}

	mux.HandleFunc(TaskCustomerNotification, w.handleCustomerNotification)

	return w, nil
}

// SetDeliverer replaces the default deliverer, which only logs.
func (w *Worker) SetDeliverer(d NotificationDeliverer) {
	w.deliver = d
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleCustomerNotification(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCustomerNotificationPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if _, err := uuid.Parse(payload.RequestID); err != nil {
		return fmt.Errorf("invalid request id %q: %w", payload.RequestID, asynq.SkipRetry)
	}
	switch payload.Kind {
	case NotificationReadyForPickup, NotificationRepairComplete:
	default:
		return fmt.Errorf("unknown notification kind %q: %w", payload.Kind, asynq.SkipRetry)
	}

	return w.deliver.DeliverCustomerNotification(ctx, payload)
}

type logDeliverer struct {
	log *logger.Logger
}

func (d logDeliverer) DeliverCustomerNotification(ctx context.Context, payload CustomerNotificationPayload) error {
	d.log.WithContext(ctx).Info("customer notification ready for delivery",
		"kind", payload.Kind,
		"request_id", payload.RequestID,
		"customer_id", payload.CustomerID,
		"has_email", payload.Email != "",
		"has_phone", payload.Phone != "",
	)
	return nil
}
