package database

import (
	"context"

	"campusblog/internal/apperr"
	"campusblog/internal/core/subscription"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SubscriptionRepositoryDatabase struct {
	db *gorm.DB
}

func NewSubscriptionRepositoryDatabase(db *gorm.DB) *SubscriptionRepositoryDatabase {
	return &SubscriptionRepositoryDatabase{db: db}
}

// Create relies on the composite unique index: of two racing subscribes for
// the same pair exactly one insert lands, the other comes back as
// AlreadySubscribed.
func (repo *SubscriptionRepositoryDatabase) Create(ctx context.Context, sub *subscription.Subscription) error {
	err := repo.db.WithContext(ctx).Create(sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.AlreadySubscribed(sub.Username, sub.Topic)
	}
	if err != nil {
		return errors.Wrap(err, "inserting subscription")
	}
	return nil
}

func (repo *SubscriptionRepositoryDatabase) Delete(ctx context.Context, username, topic string) error {
	res := repo.db.WithContext(ctx).
		Where("username = ? AND topic = ?", username, topic).
		Delete(&subscription.Subscription{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting subscription")
	}
	if res.RowsAffected == 0 {
		return apperr.NotSubscribed(username, topic)
	}
	return nil
}

func (repo *SubscriptionRepositoryDatabase) TopicsByUsername(ctx context.Context, username string) ([]string, error) {
	var topics []string
	err := repo.db.WithContext(ctx).
		Model(&subscription.Subscription{}).
		Where("username = ?", username).
		Pluck("topic", &topics).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing subscriptions")
	}
	return topics, nil
}

func (repo *SubscriptionRepositoryDatabase) UsernamesByTopic(ctx context.Context, topic string) ([]string, error) {
	var usernames []string
	err := repo.db.WithContext(ctx).
		Model(&subscription.Subscription{}).
		Where("topic = ?", topic).
		Pluck("username", &usernames).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing subscribers")
	}
	return usernames, nil
}
