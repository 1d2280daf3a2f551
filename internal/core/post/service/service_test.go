package postapp

import (
	"context"
	"testing"

	"campusblog/internal/apperr"
	"campusblog/internal/core/fanoutqueue"
	"campusblog/internal/core/identity"
	postEntity "campusblog/internal/core/post"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePostRepo struct {
	posts map[string]*postEntity.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*postEntity.Post{}}
}

func (r *fakePostRepo) Create(_ context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	r.posts[p.ID.String()] = p
	return p, nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id string) (*postEntity.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, apperr.NotFound("post %s not found", id)
	}
	return p, nil
}

func (r *fakePostRepo) FindAll(_ context.Context, topic string) ([]*postEntity.Post, error) {
	var out []*postEntity.Post
	for _, p := range r.posts {
		if topic == "" || p.Topic == topic {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) FindReported(_ context.Context) ([]*postEntity.Post, error) {
	var out []*postEntity.Post
	for _, p := range r.posts {
		if p.IsUnderReview() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return apperr.NotFound("post %s not found", id)
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) DeleteVersioned(_ context.Context, id string, fromVersion int64) error {
	p, ok := r.posts[id]
	if !ok {
		return apperr.NotFound("post %s not found", id)
	}
	if p.Version != fromVersion {
		return apperr.Conflict("post %s was modified concurrently", id)
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) AddReply(_ context.Context, reply *postEntity.Reply) error {
	p, ok := r.posts[reply.PostID.String()]
	if !ok {
		return apperr.NotFound("post %s not found", reply.PostID)
	}
	p.Replies = append(p.Replies, *reply)
	return nil
}

func (r *fakePostRepo) UpdateModeration(_ context.Context, postID string, fromVersion int64, newState postEntity.ModerationState, report *postEntity.Report, clearReports bool) error {
	p, ok := r.posts[postID]
	if !ok {
		return apperr.NotFound("post %s not found", postID)
	}
	if p.Version != fromVersion {
		return apperr.Conflict("post %s was modified concurrently", postID)
	}
	p.State = newState
	p.Version++
	if report != nil {
		p.Reports = append(p.Reports, *report)
	}
	if clearReports {
		p.Reports = nil
	}
	return nil
}

type fakeFanoutRepo struct {
	tasks []*fanoutqueue.FanoutTask
	err   error
}

func (r *fakeFanoutRepo) Create(_ context.Context, task *fanoutqueue.FanoutTask) (*fanoutqueue.FanoutTask, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return task, nil
}

func (r *fakeFanoutRepo) Pending(_ context.Context, limit int64) ([]*fanoutqueue.FanoutTask, error) {
	if int64(len(r.tasks)) < limit {
		return r.tasks, nil
	}
	return r.tasks[:limit], nil
}

func (r *fakeFanoutRepo) MarkDone(_ context.Context, _ uuid.UUID) error   { return nil }
func (r *fakeFanoutRepo) MarkFailed(_ context.Context, _ uuid.UUID) error { return nil }

type fakeIndexer struct {
	indexed []string
	deleted []string
	hits    []string
	err     error
}

func (f *fakeIndexer) IndexPost(_ context.Context, p *postEntity.Post) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, p.ID.String())
	return nil
}

func (f *fakeIndexer) DeletePost(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, _ string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) GenerateReply(_ context.Context, _, _ string) (string, error) {
	return f.text, f.err
}

func newService(repo *fakePostRepo, fanout *fakeFanoutRepo, indexer *fakeIndexer, gen *fakeGenerator) *PostService {
	return NewPostService(repo, fanout, indexer, gen, zap.NewNop())
}

func TestCreatePostRejectsMissingFields(t *testing.T) {
	svc := newService(newFakePostRepo(), &fakeFanoutRepo{}, &fakeIndexer{}, &fakeGenerator{})

	for _, tc := range []struct{ author, topic, title, content string }{
		{"bob", "sports", "", "body"},
		{"bob", "sports", "title", "   "},
		{"bob", "", "title", "body"},
		{"", "sports", "title", "body"},
	} {
		_, err := svc.CreatePost(context.Background(), tc.author, tc.topic, tc.title, tc.content, "", "")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	}
}

func TestCreatePostPublishesAndEnqueuesFanout(t *testing.T) {
	repo := newFakePostRepo()
	fanout := &fakeFanoutRepo{}
	indexer := &fakeIndexer{}
	svc := newService(repo, fanout, indexer, &fakeGenerator{})

	dto, err := svc.CreatePost(context.Background(), "bob", "  Sports ", "Game Day", "Kickoff at noon", "", "")
	require.NoError(t, err)

	assert.Equal(t, "Game Day", dto.Title)
	assert.Equal(t, "sports", dto.Topic, "topic must be normalized")
	assert.False(t, dto.IsUnderReview)
	assert.False(t, dto.IsReported)

	require.Len(t, fanout.tasks, 1)
	task := fanout.tasks[0]
	assert.Equal(t, fanoutqueue.StatusPending, task.Status)
	assert.Equal(t, "sports", task.Topic)
	assert.Equal(t, "bob", task.Author)
	assert.Equal(t, "Game Day", task.PostTitle)

	assert.Len(t, indexer.indexed, 1)
}

func TestCreatePostSurvivesFanoutEnqueueFailure(t *testing.T) {
	repo := newFakePostRepo()
	fanout := &fakeFanoutRepo{err: errors.New("queue down")}
	svc := newService(repo, fanout, &fakeIndexer{}, &fakeGenerator{})

	dto, err := svc.CreatePost(context.Background(), "bob", "sports", "Game Day", "Kickoff", "", "")
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), dto.ID)
	assert.NoError(t, err, "post must exist even when fanout enqueue fails")
}

func TestAddReplyToMissingPost(t *testing.T) {
	svc := newService(newFakePostRepo(), &fakeFanoutRepo{}, &fakeIndexer{}, &fakeGenerator{})

	_, err := svc.AddReply(context.Background(), uuid.Must(uuid.NewV4()).String(), "hello", "alice")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAddReplyValidation(t *testing.T) {
	svc := newService(newFakePostRepo(), &fakeFanoutRepo{}, &fakeIndexer{}, &fakeGenerator{})

	_, err := svc.AddReply(context.Background(), "any", "  ", "alice")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSearchRequiresTerm(t *testing.T) {
	svc := newService(newFakePostRepo(), &fakeFanoutRepo{}, &fakeIndexer{}, &fakeGenerator{})

	_, err := svc.Search(context.Background(), "   ", identity.PersonaStudent)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSearchIndexFailureIsUpstream(t *testing.T) {
	indexer := &fakeIndexer{err: errors.New("connection refused")}
	svc := newService(newFakePostRepo(), &fakeFanoutRepo{}, indexer, &fakeGenerator{})

	_, err := svc.Search(context.Background(), "game", identity.PersonaStudent)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
}

func TestSearchSkipsDeletedHits(t *testing.T) {
	repo := newFakePostRepo()
	indexer := &fakeIndexer{}
	svc := newService(repo, &fakeFanoutRepo{}, indexer, &fakeGenerator{})

	dto, err := svc.CreatePost(context.Background(), "bob", "sports", "Game Day", "Kickoff", "", "")
	require.NoError(t, err)

	// One live hit and one stale id the store no longer knows.
	indexer.hits = []string{dto.ID, uuid.Must(uuid.NewV4()).String()}

	results, err := svc.Search(context.Background(), "game", identity.PersonaStudent)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, dto.ID, results[0].ID)
}

func TestGenerateReplyRequiresExistingPost(t *testing.T) {
	svc := newService(newFakePostRepo(), &fakeFanoutRepo{}, &fakeIndexer{}, &fakeGenerator{text: "sure"})

	_, err := svc.GenerateReply(context.Background(), "missing", "say hi", "friendly")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGenerateReplyUpstreamFailure(t *testing.T) {
	repo := newFakePostRepo()
	svc := newService(repo, &fakeFanoutRepo{}, &fakeIndexer{}, &fakeGenerator{err: errors.New("rate limited")})

	dto, err := svc.CreatePost(context.Background(), "bob", "sports", "Game Day", "Kickoff", "", "")
	require.NoError(t, err)

	_, err = svc.GenerateReply(context.Background(), dto.ID, "say hi", "")
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
}

func TestDeletePostRemovesFromIndex(t *testing.T) {
	repo := newFakePostRepo()
	indexer := &fakeIndexer{}
	svc := newService(repo, &fakeFanoutRepo{}, indexer, &fakeGenerator{})

	dto, err := svc.CreatePost(context.Background(), "bob", "sports", "Game Day", "Kickoff", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(context.Background(), dto.ID))
	assert.Contains(t, indexer.deleted, dto.ID)

	err = svc.DeletePost(context.Background(), dto.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
