package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	recentNotificationsKey = "dashboard:notifications:recent"
	notificationsChannel   = "dashboard:notifications"
)

// Client keeps the notification feed in Redis: a capped list of recent
// notifications plus a pub/sub channel for live listeners.
type Client struct {
	rdb      *redis.Client
	feedSize int64
	logger   *zap.Logger
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int, feedSize int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newClient(rdb, feedSize), nil
}

func newClient(rdb *redis.Client, feedSize int) *Client {
	if feedSize <= 0 {
		feedSize = 50
	}
	return &Client{
		rdb:      rdb,
		feedSize: int64(feedSize),
		logger:   util.GetLogger(),
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// PushNotification stores n at the head of the recent list, trims the list
// and publishes n to live subscribers
func (c *Client) PushNotification(ctx context.Context, n models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, recentNotificationsKey, payload)
	pipe.LTrim(ctx, recentNotificationsKey, 0, c.feedSize-1)
	pipe.Publish(ctx, notificationsChannel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	return nil
}

// Notify implements notify.Notifier; failures are logged only
func (c *Client) Notify(ctx context.Context, n models.Notification) {
	if err := c.PushNotification(ctx, n); err != nil {
		c.logger.Error("Failed to push notification to Redis", zap.Error(err))
	}
}

// RecentNotifications returns up to limit notifications, newest first
func (c *Client) RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 || int64(limit) > c.feedSize {
		limit = int(c.feedSize)
	}

	raw, err := c.rdb.LRange(ctx, recentNotificationsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	out := make([]models.Notification, 0, len(raw))
	for _, item := range raw {
		var n models.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			c.logger.Warn("Skipping malformed notification", zap.Error(err))
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Subscribe returns a channel of live notifications until ctx is cancelled
func (c *Client) Subscribe(ctx context.Context) <-chan models.Notification {
	sub := c.rdb.Subscribe(ctx, notificationsChannel)
	out := make(chan models.Notification)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var n models.Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
