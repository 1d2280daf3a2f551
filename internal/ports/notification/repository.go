package notification

import (
	"context"

	"campusblog/internal/core/notification"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	// FindByRecipient returns notifications in a stable order (creation time
	// ascending, id as tiebreak) so repeated polls see the same sequence.
	FindByRecipient(ctx context.Context, username string) ([]*notification.Notification, error)
	// MarkRead fails with NotFound when no notification with that id belongs
	// to the recipient.
	MarkRead(ctx context.Context, id, recipient string) error
	DeleteByRecipientAndTopic(ctx context.Context, username, topic string) error
}

// NotificationPusher delivers a freshly persisted notification over the
// real-time channel. Best effort: a push failure never touches the record.
type NotificationPusher interface {
	Push(ctx context.Context, n *notification.Notification) error
}

type NotificationDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Topic     string `json:"topic"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}
