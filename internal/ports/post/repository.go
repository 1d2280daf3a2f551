package post

import (
	"context"

	"campusblog/internal/core/post"
)

// PostRepository is the outbound port of the content store. FindByID and the
// list methods return posts with replies and reports loaded.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	// FindAll returns posts ordered by creation time descending; an empty
	// topic means all topics.
	FindAll(ctx context.Context, topic string) ([]*post.Post, error)
	FindReported(ctx context.Context) ([]*post.Post, error)
	Delete(ctx context.Context, id string) error
	// DeleteVersioned removes the post only if it still carries fromVersion,
	// under the same guard as UpdateModeration. A lost version check on an
	// existing post yields a Conflict error.
	DeleteVersioned(ctx context.Context, id string, fromVersion int64) error
	AddReply(ctx context.Context, reply *post.Reply) error
	// UpdateModeration applies one moderation transition atomically: the
	// state update is checked against fromVersion and the report append /
	// report clear rides in the same transaction. A lost version check on an
	// existing post yields a Conflict error.
	UpdateModeration(ctx context.Context, postID string, fromVersion int64, newState post.ModerationState, report *post.Report, clearReports bool) error
}

// DTOs for the use-case boundary.

type ReplyDTO struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

type ReportDTO struct {
	Reporter  string `json:"reporter"`
	CreatedAt string `json:"createdAt"`
}

// PostDTO is the rendered projection of a post. The visibility filter decides
// which fields are populated; redacted posts carry placeholder title/content
// and no reply bodies.
type PostDTO struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Topic         string      `json:"topic"`
	Author        string      `json:"author"`
	ImageURL      string      `json:"imageURL,omitempty"`
	ExternalLink  string      `json:"externalLink,omitempty"`
	IsReported    bool        `json:"isReported"`
	IsUnderReview bool        `json:"isUnderReview"`
	ReportCount   int         `json:"reportCount"`
	Reports       []ReportDTO `json:"reports,omitempty"`
	Replies       []ReplyDTO  `json:"replies,omitempty"`
	CreatedAt     string      `json:"createdAt,omitempty"`
}
