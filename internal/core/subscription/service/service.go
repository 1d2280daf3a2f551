package subscriptionapp

import (
	"context"
	"strings"

	"campusblog/internal/apperr"
	subEntity "campusblog/internal/core/subscription"
	notifPort "campusblog/internal/ports/notification"
	subPort "campusblog/internal/ports/subscription"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// SubscriptionService is the topic registry. Pair uniqueness is enforced by
// the repository (composite unique index), which also serializes racing
// subscribes for the same user.
type SubscriptionService struct {
	SubscriptionRepository subPort.SubscriptionRepository
	NotificationRepository notifPort.NotificationRepository
	Logger                 *zap.Logger
}

func NewSubscriptionService(subRepo subPort.SubscriptionRepository, notifRepo notifPort.NotificationRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		SubscriptionRepository: subRepo,
		NotificationRepository: notifRepo,
		Logger:                 logger,
	}
}

// Subscribe fails with AlreadySubscribed when the pair exists. Failing
// loudly (rather than a silent no-op) matches the API surface, which reports
// the duplicate to the caller.
func (s *SubscriptionService) Subscribe(ctx context.Context, username, topic string) error {
	username, topic, err := normalize(username, topic)
	if err != nil {
		return err
	}
	sub := &subEntity.Subscription{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Topic:    topic,
	}
	return s.SubscriptionRepository.Create(ctx, sub)
}

// Unsubscribe removes the pair and cascades: every notification held by the
// user for that topic is deleted, read or not. A failed cascade is logged and
// tolerated; the leftover notifications stay eligible for cleanup.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, username, topic string) error {
	username, topic, err := normalize(username, topic)
	if err != nil {
		return err
	}
	if err := s.SubscriptionRepository.Delete(ctx, username, topic); err != nil {
		return err
	}
	if err := s.NotificationRepository.DeleteByRecipientAndTopic(ctx, username, topic); err != nil {
		s.Logger.Warn("could not delete notifications after unsubscribe",
			zap.String("username", username), zap.String("topic", topic), zap.Error(err))
	}
	return nil
}

func (s *SubscriptionService) ListSubscriptions(ctx context.Context, username string) ([]string, error) {
	topics, err := s.SubscriptionRepository.TopicsByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []string{}
	}
	return topics, nil
}

func (s *SubscriptionService) ListSubscribers(ctx context.Context, topic string) ([]string, error) {
	usernames, err := s.SubscriptionRepository.UsernamesByTopic(ctx, strings.ToLower(strings.TrimSpace(topic)))
	if err != nil {
		return nil, err
	}
	if usernames == nil {
		usernames = []string{}
	}
	return usernames, nil
}

func normalize(username, topic string) (string, string, error) {
	username = strings.TrimSpace(username)
	topic = strings.ToLower(strings.TrimSpace(topic))
	if username == "" || topic == "" {
		return "", "", apperr.Validation("username and topic are required")
	}
	return username, topic, nil
}
