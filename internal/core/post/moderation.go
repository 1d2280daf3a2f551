package post

import "campusblog/internal/apperr"

// ModerationState is the explicit post visibility state. The legal edges are
//
//	published -> under_review   (first report)
//	under_review -> under_review (further reports)
//	under_review -> published   (review rejected, reports cleared)
//	under_review -> removed     (review approved, post deleted)
//
// removed is terminal; the entity no longer exists afterwards.
type ModerationState string

const (
	StatePublished   ModerationState = "published"
	StateUnderReview ModerationState = "under_review"
	StateRemoved     ModerationState = "removed"
)

type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// NextOnReport returns the state a report moves the post into.
func (s ModerationState) NextOnReport() (ModerationState, error) {
	switch s {
	case StatePublished, StateUnderReview:
		return StateUnderReview, nil
	default:
		return s, apperr.NotFound("post no longer exists")
	}
}

// NextOnReview returns the state a moderator decision moves the post into.
// Only a post under review can be decided on.
func (s ModerationState) NextOnReview(action ReviewAction) (ModerationState, error) {
	if s == StateRemoved {
		return s, apperr.NotFound("post no longer exists")
	}
	if s != StateUnderReview {
		return s, apperr.Conflict("post is not under review")
	}
	switch action {
	case ReviewReject:
		return StatePublished, nil
	case ReviewApprove:
		return StateRemoved, nil
	default:
		return s, apperr.Validation("invalid action: %s, must be 'approve' or 'reject'", action)
	}
}
