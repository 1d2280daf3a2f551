package postapp

import (
	"context"
	"strings"

	"campusblog/internal/apperr"
	"campusblog/internal/core/fanoutqueue"
	"campusblog/internal/core/identity"
	postEntity "campusblog/internal/core/post"
	"campusblog/internal/core/visibility"
	aiPort "campusblog/internal/ports/ai"
	fanoutPort "campusblog/internal/ports/fanoutqueue"
	postPort "campusblog/internal/ports/post"
	searchPort "campusblog/internal/ports/search"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PostService is the content store use-case layer. Fan-out and search
// indexing are side effects of creation and are isolated: the post is
// readable even when either of them fails.
type PostService struct {
	PostRepository   postPort.PostRepository
	FanoutRepository fanoutPort.FanoutRepository
	SearchIndexer    searchPort.SearchIndexer
	ReplyGenerator   aiPort.ReplyGenerator
	Logger           *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	fanoutRepo fanoutPort.FanoutRepository,
	indexer searchPort.SearchIndexer,
	generator aiPort.ReplyGenerator,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository:   postRepo,
		FanoutRepository: fanoutRepo,
		SearchIndexer:    indexer,
		ReplyGenerator:   generator,
		Logger:           logger,
	}
}

func (s *PostService) CreatePost(ctx context.Context, author, topic, title, content, imageURL, externalLink string) (*postPort.PostDTO, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	topic = strings.ToLower(strings.TrimSpace(topic))
	author = strings.TrimSpace(author)
	if title == "" || content == "" || topic == "" || author == "" {
		return nil, apperr.Validation("missing required fields (title, content, topic, author)")
	}

	p := &postEntity.Post{
		ID:           uuid.Must(uuid.NewV4()),
		Title:        title,
		Content:      content,
		Topic:        topic,
		Author:       author,
		ImageURL:     strings.TrimSpace(imageURL),
		ExternalLink: strings.TrimSpace(externalLink),
		State:        postEntity.StatePublished,
	}

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create post")
	}

	// Durable fan-out intent. An enqueue failure only costs notifications,
	// never the post itself.
	task := &fanoutqueue.FanoutTask{
		ID:        uuid.Must(uuid.NewV4()),
		PostID:    created.ID,
		Topic:     created.Topic,
		Author:    created.Author,
		PostTitle: created.Title,
		Status:    fanoutqueue.StatusPending,
	}
	if _, err := s.FanoutRepository.Create(ctx, task); err != nil {
		s.Logger.Warn("could not enqueue fanout task", zap.String("postID", created.ID.String()), zap.Error(err))
	}

	if err := s.SearchIndexer.IndexPost(ctx, created); err != nil {
		s.Logger.Warn("could not index post", zap.String("postID", created.ID.String()), zap.Error(err))
	}

	// A fresh post is always published, so this renders the full projection.
	return visibility.Render(created, identity.Persona("")), nil
}

func (s *PostService) GetPost(ctx context.Context, id string, viewer identity.Persona) (*postPort.PostDTO, error) {
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return visibility.Render(p, viewer), nil
}

// ListPosts returns posts newest first, optionally filtered by topic, with
// the visibility filter applied for the viewer.
func (s *PostService) ListPosts(ctx context.Context, topic string, viewer identity.Persona) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.FindAll(ctx, strings.ToLower(strings.TrimSpace(topic)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}
	return visibility.RenderAll(posts, viewer), nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.PostRepository.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.SearchIndexer.DeletePost(ctx, id); err != nil {
		s.Logger.Warn("could not remove post from search index", zap.String("postID", id), zap.Error(err))
	}
	return nil
}

func (s *PostService) AddReply(ctx context.Context, postID, text, author string) (*postPort.ReplyDTO, error) {
	text = strings.TrimSpace(text)
	author = strings.TrimSpace(author)
	if text == "" || author == "" {
		return nil, apperr.Validation("reply text and author are required")
	}

	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	reply := &postEntity.Reply{
		ID:     uuid.Must(uuid.NewV4()),
		PostID: p.ID,
		Text:   text,
		Author: author,
	}
	if err := s.PostRepository.AddReply(ctx, reply); err != nil {
		return nil, errors.Wrap(err, "failed to add reply")
	}

	return &postPort.ReplyDTO{
		ID:     reply.ID.String(),
		PostID: reply.PostID.String(),
		Text:   reply.Text,
		Author: reply.Author,
	}, nil
}

// Search delegates relevance to the external index, hydrates the hits from
// the store and applies the visibility filter. Ids the store no longer knows
// (deleted posts still lingering in the index) are skipped.
func (s *PostService) Search(ctx context.Context, query string, viewer identity.Persona) ([]*postPort.PostDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search term 'q' is required")
	}

	ids, err := s.SearchIndexer.Search(ctx, query)
	if err != nil {
		return nil, apperr.Upstream(err, "search index unavailable")
	}

	results := make([]*postPort.PostDTO, 0, len(ids))
	for _, id := range ids {
		p, err := s.PostRepository.FindByID(ctx, id)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				s.Logger.Warn("search hit no longer in store", zap.String("postID", id))
				continue
			}
			return nil, err
		}
		results = append(results, visibility.Render(p, viewer))
	}
	return results, nil
}

// GenerateReply asks the completion-service collaborator for a suggested
// reply to an existing post. The suggestion is returned, never persisted.
func (s *PostService) GenerateReply(ctx context.Context, postID, prompt, tone string) (string, error) {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return "", err
	}
	text, err := s.ReplyGenerator.GenerateReply(ctx, prompt, tone)
	if err != nil {
		return "", apperr.Upstream(err, "completion service unavailable")
	}
	return strings.TrimSpace(text), nil
}
