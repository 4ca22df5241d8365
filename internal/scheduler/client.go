package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"repairshop_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const notificationMaxRetry = 5

type Client struct {
	client *asynq.Client
	queue  string
}

type NotificationEnqueuer interface {
	EnqueueCustomerNotification(ctx context.Context, payload CustomerNotificationPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueCustomerNotification(ctx context.Context, payload CustomerNotificationPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewCustomerNotificationTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(notificationMaxRetry),
		asynq.TaskID(payload.Key()),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// NewRedisClient opens a go-redis client on the same Redis the queue uses.
func NewRedisClient(cfg config.SchedulerConfig) (*redis.Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opt.TLSConfig = tlsConfigFor(opt.TLSConfig, cfg.GetRedisTLSInsecure())
	return redis.NewClient(opt), nil
}

func queueName(cfg config.SchedulerConfig) string {
	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	return queue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfigFor(opt.TLSConfig, tlsInsecure),
	}, nil
}

func tlsConfigFor(parsed *tls.Config, tlsInsecure bool) *tls.Config {
	if parsed != nil {
		clone := parsed.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		return clone
	}
	if tlsInsecure {
		return &tls.Config{InsecureSkipVerify: true}
	}
	return nil
}
