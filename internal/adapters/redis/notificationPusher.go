package redis

import (
	"context"
	"encoding/json"
	"time"

	"campusblog/internal/core/notification"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// ChannelFor returns the pub/sub channel a recipient's live events travel on.
func ChannelFor(username string) string {
	return "notification:" + username
}

// NotificationPusherRedis publishes each persisted notification on the
// recipient's channel. Subscribers of the stream hub pick it up; nobody
// listening is fine, the polling read path covers it.
type NotificationPusherRedis struct {
	Client *redis.Client
}

func NewNotificationPusherRedis(client *redis.Client) *NotificationPusherRedis {
	return &NotificationPusherRedis{Client: client}
}

func (p *NotificationPusherRedis) Push(ctx context.Context, n *notification.Notification) error {
	payload, err := json.Marshal(map[string]interface{}{
		"id":        n.ID.String(),
		"username":  n.Recipient,
		"topic":     n.Topic,
		"title":     n.PostTitle,
		"message":   n.Message,
		"isRead":    n.IsRead,
		"createdAt": n.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return errors.Wrap(err, "encoding notification")
	}
	if err := p.Client.Publish(ctx, ChannelFor(n.Recipient), payload).Err(); err != nil {
		return errors.Wrap(err, "publishing notification")
	}
	return nil
}
