package moderationapp

import (
	"context"
	"strings"

	"campusblog/internal/apperr"
	"campusblog/internal/core/identity"
	postEntity "campusblog/internal/core/post"
	"campusblog/internal/core/visibility"
	postPort "campusblog/internal/ports/post"
	searchPort "campusblog/internal/ports/search"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ModerationService drives the report/review state machine. Transitions are
// linearized per post by an optimistic version check in the repository; a
// transition that lost the race comes back as Conflict and the caller may
// retry against fresh state.
type ModerationService struct {
	PostRepository postPort.PostRepository
	SearchIndexer  searchPort.SearchIndexer
	Logger         *zap.Logger
}

func NewModerationService(postRepo postPort.PostRepository, indexer searchPort.SearchIndexer, logger *zap.Logger) *ModerationService {
	return &ModerationService{
		PostRepository: postRepo,
		SearchIndexer:  indexer,
		Logger:         logger,
	}
}

// Report appends a report and moves the post under review. Reporting an
// already-under-review post appends another report and leaves the state
// unchanged.
func (s *ModerationService) Report(ctx context.Context, postID, reporter string) error {
	reporter = strings.TrimSpace(reporter)
	if reporter == "" {
		return apperr.Validation("reporter is required")
	}

	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	next, err := p.State.NextOnReport()
	if err != nil {
		return err
	}

	report := &postEntity.Report{
		ID:       uuid.Must(uuid.NewV4()),
		PostID:   p.ID,
		Reporter: reporter,
	}
	return s.PostRepository.UpdateModeration(ctx, postID, p.Version, next, report, false)
}

// Review applies a moderator decision. Authorization is checked before
// anything else so a non-moderator is rejected regardless of post state.
func (s *ModerationService) Review(ctx context.Context, postID string, action postEntity.ReviewAction, reviewer identity.Persona) error {
	if !reviewer.IsModerator() {
		return apperr.Forbidden("only moderators can review posts")
	}

	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	next, err := p.State.NextOnReview(action)
	if err != nil {
		return err
	}

	if next == postEntity.StateRemoved {
		// Approval means the reported content goes away for good. The delete
		// carries the version the decision was made against, so an approve
		// racing a reject loses with Conflict instead of removing a post
		// that is published again.
		if err := s.PostRepository.DeleteVersioned(ctx, postID, p.Version); err != nil {
			return err
		}
		if err := s.SearchIndexer.DeletePost(ctx, postID); err != nil {
			s.Logger.Warn("could not remove post from search index", zap.String("postID", postID), zap.Error(err))
		}
		return nil
	}

	// Rejected review: reports are cleared and the post is published again.
	return s.PostRepository.UpdateModeration(ctx, postID, p.Version, next, nil, true)
}

// ReportedPosts is the moderator queue: every post currently carrying
// reports, rendered unredacted.
func (s *ModerationService) ReportedPosts(ctx context.Context, viewer identity.Persona) ([]*postPort.PostDTO, error) {
	if !viewer.IsModerator() {
		return nil, apperr.Forbidden("only moderators can access reported posts")
	}
	posts, err := s.PostRepository.FindReported(ctx)
	if err != nil {
		return nil, err
	}
	return visibility.RenderAll(posts, viewer), nil
}
