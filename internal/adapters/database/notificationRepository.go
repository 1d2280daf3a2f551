package database

import (
	"context"

	"campusblog/internal/apperr"
	"campusblog/internal/core/notification"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepositoryDatabase struct {
	db *gorm.DB
}

func NewNotificationRepositoryDatabase(db *gorm.DB) *NotificationRepositoryDatabase {
	return &NotificationRepositoryDatabase{db: db}
}

// Create inserts the (recipient, post) notification. A duplicate pair means
// an earlier run of the same fan-out already delivered it; that comes back as
// Conflict so the caller can skip instead of double-notifying.
func (repo *NotificationRepositoryDatabase) Create(ctx context.Context, n *notification.Notification) error {
	err := repo.db.WithContext(ctx).Create(n).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("notification for post %s already delivered to %s", n.PostID, n.Recipient)
	}
	if err != nil {
		return errors.Wrap(err, "inserting notification")
	}
	return nil
}

func (repo *NotificationRepositoryDatabase) FindByRecipient(ctx context.Context, username string) ([]*notification.Notification, error) {
	var notifications []*notification.Notification
	err := repo.db.WithContext(ctx).
		Where("recipient = ?", username).
		Order("created_at ASC, id ASC").
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	return notifications, nil
}

// MarkRead loads first instead of issuing a blind UPDATE: the ownership check
// needs the row, and MySQL reports zero affected rows for a same-value
// update, which would be indistinguishable from a miss.
func (repo *NotificationRepositoryDatabase) MarkRead(ctx context.Context, id, recipient string) error {
	var n notification.Notification
	err := repo.db.WithContext(ctx).
		Where("id = ? AND recipient = ?", id, recipient).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("notification with id %s not found", id)
	}
	if err != nil {
		return errors.Wrap(err, "loading notification")
	}
	if n.IsRead {
		return nil
	}
	if err := repo.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return nil
}

func (repo *NotificationRepositoryDatabase) DeleteByRecipientAndTopic(ctx context.Context, username, topic string) error {
	err := repo.db.WithContext(ctx).
		Where("recipient = ? AND topic = ?", username, topic).
		Delete(&notification.Notification{}).Error
	if err != nil {
		return errors.Wrap(err, "deleting notifications")
	}
	return nil
}
