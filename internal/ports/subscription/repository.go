package subscription

import (
	"context"

	"campusblog/internal/core/subscription"
)

// SubscriptionRepository is the outbound port of the subscription registry.
type SubscriptionRepository interface {
	// Create fails with AlreadySubscribed when the (username, topic) pair
	// already exists, including when a concurrent subscribe won the race.
	Create(ctx context.Context, sub *subscription.Subscription) error
	// Delete fails with NotSubscribed when the pair is absent.
	Delete(ctx context.Context, username, topic string) error
	TopicsByUsername(ctx context.Context, username string) ([]string, error)
	UsernamesByTopic(ctx context.Context, topic string) ([]string, error)
}
