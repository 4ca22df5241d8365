package scheduler

import (
	"context"
	"errors"
	"testing"

	"repairshop_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	url string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.url }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 0 }

type recordingDeliverer struct {
	got []CustomerNotificationPayload
}

func (r *recordingDeliverer) DeliverCustomerNotification(_ context.Context, p CustomerNotificationPayload) error {
	r.got = append(r.got, p)
	return nil
}

func newTestWorker(t *testing.T) (*Worker, *recordingDeliverer) {
	t.Helper()
	mr := miniredis.RunT(t)
	w, err := NewWorker(testSchedulerConfig{url: "redis://" + mr.Addr()}, logger.Discard())
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}
	rec := &recordingDeliverer{}
	w.SetDeliverer(rec)
	return w, rec
}

func TestHandleCustomerNotificationDelivers(t *testing.T) {
	w, rec := newTestWorker(t)
	task, err := NewCustomerNotificationTask(CustomerNotificationPayload{
		Kind:      NotificationReadyForPickup,
		RequestID: uuid.NewString(),
		Phone:     "+14155550123",
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	if err := w.handleCustomerNotification(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.got) != 1 || rec.got[0].Phone != "+14155550123" {
		t.Fatalf("expected one delivery, got %+v", rec.got)
	}
}

func TestHandleCustomerNotificationSkipsRetryOnBadPayload(t *testing.T) {
	w, rec := newTestWorker(t)

	err := w.handleCustomerNotification(context.Background(), asynq.NewTask(TaskCustomerNotification, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for malformed payload, got %v", err)
	}

	task, _ := NewCustomerNotificationTask(CustomerNotificationPayload{Kind: "birthday", RequestID: uuid.NewString()})
	err = w.handleCustomerNotification(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for unknown kind, got %v", err)
	}
	if len(rec.got) != 0 {
		t.Fatal("nothing should have been delivered")
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestRedisClientOptParsesURL(t *testing.T) {
	opt, err := redisClientOpt("rediss://:secret@cache.internal:6380/2", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "cache.internal:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected options: %+v", opt)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config for rediss url")
	}
}

func TestNilClientEnqueueIsNoop(t *testing.T) {
	var c *Client
	if err := c.EnqueueCustomerNotification(context.Background(), CustomerNotificationPayload{}); err != nil {
		t.Fatalf("expected nil client to be a no-op, got %v", err)
	}
}
