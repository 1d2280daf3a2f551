package visibility

import (
	"time"

	"campusblog/internal/core/identity"
	postEntity "campusblog/internal/core/post"
	postPort "campusblog/internal/ports/post"
)

const (
	RedactedTitle   = "[Post Under Review]"
	RedactedContent = "[This post is currently under review by a moderator.]"
)

// Render projects a post for a viewer. A post under review is redacted for
// everyone but moderators: identity fields survive, real title, content,
// links and reply bodies do not. Pure function; every read path (list, get,
// search, moderator queue) must go through it so under-review content cannot
// leak through a side door.
func Render(p *postEntity.Post, viewer identity.Persona) *postPort.PostDTO {
	if p.IsUnderReview() && !viewer.IsModerator() {
		return &postPort.PostDTO{
			ID:            p.ID.String(),
			Title:         RedactedTitle,
			Content:       RedactedContent,
			Topic:         p.Topic,
			Author:        p.Author,
			IsReported:    p.IsReported(),
			IsUnderReview: true,
			ReportCount:   len(p.Reports),
		}
	}
	return full(p)
}

// RenderAll renders a slice, preserving order.
func RenderAll(posts []*postEntity.Post, viewer identity.Persona) []*postPort.PostDTO {
	rendered := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		rendered = append(rendered, Render(p, viewer))
	}
	return rendered
}

func full(p *postEntity.Post) *postPort.PostDTO {
	dto := &postPort.PostDTO{
		ID:            p.ID.String(),
		Title:         p.Title,
		Content:       p.Content,
		Topic:         p.Topic,
		Author:        p.Author,
		ImageURL:      p.ImageURL,
		ExternalLink:  p.ExternalLink,
		IsReported:    p.IsReported(),
		IsUnderReview: p.IsUnderReview(),
		ReportCount:   len(p.Reports),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	for _, r := range p.Reports {
		dto.Reports = append(dto.Reports, postPort.ReportDTO{
			Reporter:  r.Reporter,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	for _, r := range p.Replies {
		dto.Replies = append(dto.Replies, postPort.ReplyDTO{
			ID:        r.ID.String(),
			PostID:    r.PostID.String(),
			Text:      r.Text,
			Author:    r.Author,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return dto
}
