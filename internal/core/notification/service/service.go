package notificationapp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campusblog/internal/apperr"
	"campusblog/internal/core/fanoutqueue"
	notifEntity "campusblog/internal/core/notification"
	notifPort "campusblog/internal/ports/notification"
	subPort "campusblog/internal/ports/subscription"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const defaultPushTimeout = 3 * time.Second

// NotificationService is the fan-out engine plus the notification read
// lifecycle. Fan-out persists one record per subscriber first, then delivers
// over the push channel; delivery is best effort and the polling read path is
// the durability fallback.
type NotificationService struct {
	NotificationRepository notifPort.NotificationRepository
	SubscriptionRepository subPort.SubscriptionRepository
	Pusher                 notifPort.NotificationPusher
	PushTimeout            time.Duration
	Logger                 *zap.Logger
}

func NewNotificationService(
	notifRepo notifPort.NotificationRepository,
	subRepo subPort.SubscriptionRepository,
	pusher notifPort.NotificationPusher,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		NotificationRepository: notifRepo,
		SubscriptionRepository: subRepo,
		Pusher:                 pusher,
		PushTimeout:            defaultPushTimeout,
		Logger:                 logger,
	}
}

// FanOut turns one published post into one notification per subscriber of its
// topic, skipping the author. Per-recipient failures are isolated: a failed
// write or push for one subscriber never blocks the rest, and a push failure
// never rolls back the persisted record. The run is idempotent: a recipient
// already notified for this post (a previous run that never got marked done)
// is skipped, record and push both. The returned error only reflects failure
// to resolve the subscriber list.
func (s *NotificationService) FanOut(ctx context.Context, task *fanoutqueue.FanoutTask) error {
	subscribers, err := s.SubscriptionRepository.UsernamesByTopic(ctx, task.Topic)
	if err != nil {
		return err
	}

	persisted := make([]*notifEntity.Notification, 0, len(subscribers))
	for _, username := range subscribers {
		if username == task.Author {
			continue
		}
		n := &notifEntity.Notification{
			ID:        uuid.Must(uuid.NewV4()),
			Recipient: username,
			PostID:    task.PostID,
			Topic:     task.Topic,
			PostTitle: task.PostTitle,
			Message:   fmt.Sprintf("New post in %s: %s", task.Topic, task.PostTitle),
			IsRead:    false,
		}
		if err := s.NotificationRepository.Create(ctx, n); err != nil {
			if apperr.IsKind(err, apperr.KindConflict) {
				// Delivered by an earlier run of this task.
				continue
			}
			s.Logger.Error("could not persist notification",
				zap.String("recipient", username), zap.String("postID", task.PostID.String()), zap.Error(err))
			continue
		}
		persisted = append(persisted, n)
	}

	// Push after persistence, one goroutine per recipient, each bounded by
	// its own timeout. Detached from the incoming context so a finished
	// request cannot cancel delivery mid-flight.
	var wg sync.WaitGroup
	for _, n := range persisted {
		wg.Add(1)
		go func(n *notifEntity.Notification) {
			defer wg.Done()
			pushCtx, cancel := context.WithTimeout(context.Background(), s.PushTimeout)
			defer cancel()
			if err := s.Pusher.Push(pushCtx, n); err != nil {
				s.Logger.Warn("push delivery failed, notification remains pollable",
					zap.String("recipient", n.Recipient), zap.String("notificationID", n.ID.String()), zap.Error(err))
			}
		}(n)
	}
	wg.Wait()

	return nil
}

func (s *NotificationService) List(ctx context.Context, recipient string) ([]*notifPort.NotificationDTO, error) {
	notifications, err := s.NotificationRepository.FindByRecipient(ctx, recipient)
	if err != nil {
		return nil, err
	}
	dtos := make([]*notifPort.NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, toDTO(n))
	}
	return dtos, nil
}

// MarkRead sets isRead on the recipient's own notification. Marking an
// already-read notification is a no-op; marking someone else's is NotFound.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipient string) error {
	return s.NotificationRepository.MarkRead(ctx, id, recipient)
}

func toDTO(n *notifEntity.Notification) *notifPort.NotificationDTO {
	return &notifPort.NotificationDTO{
		ID:        n.ID.String(),
		Username:  n.Recipient,
		Topic:     n.Topic,
		Title:     n.PostTitle,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
