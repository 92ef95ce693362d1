package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lindasales/salespro/internal/core"
)

// DefaultNotificationTTL is how long an undelivered notification stays pending
// before it is dropped, matching the on-screen auto-dismiss window.
const DefaultNotificationTTL = 5 * time.Second

// NotificationStore keeps pending notifications per user in a Redis sorted set
// scored by expiry. Stale entries are pruned on every read and write, so a
// notification the client never fetched simply disappears.
type NotificationStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewNotificationStore creates a notification store with the default TTL.
func NewNotificationStore(client redis.UniversalClient) *NotificationStore {
	return &NotificationStore{
		client: client,
		prefix: "notify:",
		ttl:    DefaultNotificationTTL,
		now:    time.Now,
	}
}

// NewNotificationStoreWithTTL creates a notification store with a custom TTL.
func NewNotificationStoreWithTTL(client redis.UniversalClient, ttl time.Duration) *NotificationStore {
	s := NewNotificationStore(client)
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

func (s *NotificationStore) key(userID string) string {
	return s.prefix + userID
}

// Push appends a notification for the user, expiring it after the TTL.
func (s *NotificationStore) Push(ctx context.Context, userID string, n core.Notification) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	now := s.now()
	key := s.key(userID)
	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", now.UnixMilli()))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.Add(s.ttl).UnixMilli()),
		Member: data,
	})
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

// Drain returns the user's pending notifications in arrival order and removes
// them. Notifications past their TTL are dropped without being returned.
func (s *NotificationStore) Drain(ctx context.Context, userID string) ([]core.Notification, error) {
	if userID == "" {
		return nil, nil
	}

	key := s.key(userID)
	cutoff := fmt.Sprintf("%d", s.now().UnixMilli())

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", cutoff)
	pending := pipe.ZRangeByScore(ctx, key, &redis.ZRangeBy{Min: "(" + cutoff, Max: "+inf"})
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("drain notifications: %w", err)
	}

	raw, err := pending.Result()
	if err != nil {
		return nil, fmt.Errorf("drain notifications: %w", err)
	}

	out := make([]core.Notification, 0, len(raw))
	for _, item := range raw {
		var n core.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return nil, fmt.Errorf("unmarshal notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
