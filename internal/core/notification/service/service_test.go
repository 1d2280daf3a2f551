package notificationapp

import (
	"context"
	"sort"
	"sync"
	"testing"

	"campusblog/internal/apperr"
	"campusblog/internal/core/fanoutqueue"
	notifEntity "campusblog/internal/core/notification"
	subEntity "campusblog/internal/core/subscription"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNotifRepo struct {
	mu            sync.Mutex
	notifications []*notifEntity.Notification
	failFor       string
}

func (r *fakeNotifRepo) Create(_ context.Context, n *notifEntity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor != "" && n.Recipient == r.failFor {
		return errors.New("insert failed")
	}
	for _, existing := range r.notifications {
		if existing.Recipient == n.Recipient && existing.PostID == n.PostID {
			return apperr.Conflict("notification for post %s already delivered to %s", n.PostID, n.Recipient)
		}
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotifRepo) FindByRecipient(_ context.Context, username string) ([]*notifEntity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notifEntity.Notification
	for _, n := range r.notifications {
		if n.Recipient == username {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) MarkRead(_ context.Context, id, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID.String() == id && n.Recipient == recipient {
			n.IsRead = true
			return nil
		}
	}
	return apperr.NotFound("notification %s not found", id)
}

func (r *fakeNotifRepo) DeleteByRecipientAndTopic(_ context.Context, username, topic string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.Recipient != username || n.Topic != topic {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

type fakeSubRepo struct {
	subscribers map[string][]string
}

func (r *fakeSubRepo) Create(_ context.Context, _ *subEntity.Subscription) error { return nil }
func (r *fakeSubRepo) Delete(_ context.Context, _, _ string) error               { return nil }
func (r *fakeSubRepo) TopicsByUsername(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (r *fakeSubRepo) UsernamesByTopic(_ context.Context, topic string) ([]string, error) {
	return r.subscribers[topic], nil
}

type fakePusher struct {
	mu     sync.Mutex
	pushed []*notifEntity.Notification
	err    error
}

func (p *fakePusher) Push(_ context.Context, n *notifEntity.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.pushed = append(p.pushed, n)
	return nil
}

func sportsTask() *fanoutqueue.FanoutTask {
	return &fanoutqueue.FanoutTask{
		ID:        uuid.Must(uuid.NewV4()),
		PostID:    uuid.Must(uuid.NewV4()),
		Topic:     "sports",
		Author:    "bob",
		PostTitle: "Game Day",
		Status:    fanoutqueue.StatusPending,
	}
}

func TestFanOutNotifiesSubscribersExceptAuthor(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	subRepo := &fakeSubRepo{subscribers: map[string][]string{"sports": {"alice", "bob"}}}
	pusher := &fakePusher{}
	svc := NewNotificationService(notifRepo, subRepo, pusher, zap.NewNop())

	require.NoError(t, svc.FanOut(context.Background(), sportsTask()))

	forAlice, err := notifRepo.FindByRecipient(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.Equal(t, "New post in sports: Game Day", forAlice[0].Message)
	assert.Equal(t, "sports", forAlice[0].Topic)
	assert.Equal(t, "Game Day", forAlice[0].PostTitle)
	assert.False(t, forAlice[0].IsRead)

	forBob, err := notifRepo.FindByRecipient(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, forBob, "the author never hears about their own post")

	assert.Len(t, pusher.pushed, 1)
	assert.Equal(t, "alice", pusher.pushed[0].Recipient)
}

func TestFanOutRerunDoesNotDuplicate(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	subRepo := &fakeSubRepo{subscribers: map[string][]string{"sports": {"alice"}}}
	pusher := &fakePusher{}
	svc := NewNotificationService(notifRepo, subRepo, pusher, zap.NewNop())

	task := sportsTask()
	require.NoError(t, svc.FanOut(context.Background(), task))
	// If marking the task done fails, the worker sees it pending again on the
	// next tick and re-runs it in full.
	require.NoError(t, svc.FanOut(context.Background(), task))

	forAlice, err := notifRepo.FindByRecipient(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, forAlice, 1, "a re-run must not duplicate the record")
	assert.Len(t, pusher.pushed, 1, "nor push it twice")
}

func TestFanOutWithNoSubscribers(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	subRepo := &fakeSubRepo{subscribers: map[string][]string{}}
	pusher := &fakePusher{}
	svc := NewNotificationService(notifRepo, subRepo, pusher, zap.NewNop())

	require.NoError(t, svc.FanOut(context.Background(), sportsTask()))
	assert.Empty(t, notifRepo.notifications)
	assert.Empty(t, pusher.pushed)
}

func TestFanOutPushFailureKeepsRecords(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	subRepo := &fakeSubRepo{subscribers: map[string][]string{"sports": {"alice", "carol"}}}
	pusher := &fakePusher{err: errors.New("redis down")}
	svc := NewNotificationService(notifRepo, subRepo, pusher, zap.NewNop())

	require.NoError(t, svc.FanOut(context.Background(), sportsTask()))

	// Push failed for everyone; the persisted records still serve polling.
	var recipients []string
	for _, n := range notifRepo.notifications {
		recipients = append(recipients, n.Recipient)
	}
	sort.Strings(recipients)
	assert.Equal(t, []string{"alice", "carol"}, recipients)
}

func TestFanOutIsolatesPerRecipientWriteFailures(t *testing.T) {
	notifRepo := &fakeNotifRepo{failFor: "alice"}
	subRepo := &fakeSubRepo{subscribers: map[string][]string{"sports": {"alice", "carol"}}}
	pusher := &fakePusher{}
	svc := NewNotificationService(notifRepo, subRepo, pusher, zap.NewNop())

	require.NoError(t, svc.FanOut(context.Background(), sportsTask()))

	forCarol, err := notifRepo.FindByRecipient(context.Background(), "carol")
	require.NoError(t, err)
	require.Len(t, forCarol, 1, "one failing recipient must not block the rest")

	// Only the persisted notification is pushed.
	require.Len(t, pusher.pushed, 1)
	assert.Equal(t, "carol", pusher.pushed[0].Recipient)
}

func TestListMapsToDTOs(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	subRepo := &fakeSubRepo{subscribers: map[string][]string{"sports": {"alice"}}}
	svc := NewNotificationService(notifRepo, subRepo, &fakePusher{}, zap.NewNop())

	require.NoError(t, svc.FanOut(context.Background(), sportsTask()))

	dtos, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "alice", dtos[0].Username)
	assert.Equal(t, "sports", dtos[0].Topic)
	assert.Equal(t, "Game Day", dtos[0].Title)
	assert.Equal(t, "New post in sports: Game Day", dtos[0].Message)
	assert.False(t, dtos[0].IsRead)
}

func TestMarkReadOwnershipAndIdempotence(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	subRepo := &fakeSubRepo{subscribers: map[string][]string{"sports": {"alice"}}}
	svc := NewNotificationService(notifRepo, subRepo, &fakePusher{}, zap.NewNop())

	require.NoError(t, svc.FanOut(context.Background(), sportsTask()))
	id := notifRepo.notifications[0].ID.String()

	// Someone else's id is indistinguishable from a missing one.
	err := svc.MarkRead(context.Background(), id, "mallory")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, svc.MarkRead(context.Background(), id, "alice"))
	assert.True(t, notifRepo.notifications[0].IsRead)

	// Marking again is a no-op, not an error.
	require.NoError(t, svc.MarkRead(context.Background(), id, "alice"))
}
