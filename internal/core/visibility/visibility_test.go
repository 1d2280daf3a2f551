package visibility

import (
	"testing"

	"campusblog/internal/core/identity"
	postEntity "campusblog/internal/core/post"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func reportedPost() *postEntity.Post {
	return &postEntity.Post{
		ID:      uuid.Must(uuid.NewV4()),
		Title:   "Game Day",
		Content: "Kickoff at noon",
		Topic:   "sports",
		Author:  "bob",
		State:   postEntity.StateUnderReview,
		Reports: []postEntity.Report{{Reporter: "carol"}},
		Replies: []postEntity.Reply{{Text: "see you there", Author: "dave"}},
	}
}

func TestRenderRedactsForNonModerators(t *testing.T) {
	p := reportedPost()

	for _, persona := range []identity.Persona{identity.PersonaStudent, identity.PersonaFaculty, identity.PersonaStaff, identity.PersonaAdministrator} {
		dto := Render(p, persona)
		assert.Equal(t, RedactedTitle, dto.Title)
		assert.Equal(t, RedactedContent, dto.Content)
		assert.Equal(t, "sports", dto.Topic)
		assert.Equal(t, "bob", dto.Author)
		assert.True(t, dto.IsReported)
		assert.True(t, dto.IsUnderReview)
		assert.Equal(t, 1, dto.ReportCount)
		assert.Empty(t, dto.Replies, "reply bodies must not leak")
		assert.Empty(t, dto.Reports)
		assert.Empty(t, dto.ImageURL)
		assert.Empty(t, dto.ExternalLink)
	}
}

func TestRenderFullForModerator(t *testing.T) {
	dto := Render(reportedPost(), identity.PersonaModerator)

	assert.Equal(t, "Game Day", dto.Title)
	assert.Equal(t, "Kickoff at noon", dto.Content)
	assert.Len(t, dto.Replies, 1)
	assert.Len(t, dto.Reports, 1)
	assert.Equal(t, "carol", dto.Reports[0].Reporter)
}

func TestRenderFullForPublishedPost(t *testing.T) {
	p := reportedPost()
	p.State = postEntity.StatePublished
	p.Reports = nil

	dto := Render(p, identity.PersonaStudent)
	assert.Equal(t, "Game Day", dto.Title)
	assert.False(t, dto.IsReported)
	assert.False(t, dto.IsUnderReview)
	assert.Len(t, dto.Replies, 1)
}

func TestRenderAllKeepsOrder(t *testing.T) {
	a, b := reportedPost(), reportedPost()
	b.State = postEntity.StatePublished

	rendered := RenderAll([]*postEntity.Post{a, b}, identity.PersonaStudent)
	assert.Len(t, rendered, 2)
	assert.Equal(t, RedactedTitle, rendered[0].Title)
	assert.Equal(t, "Game Day", rendered[1].Title)
}
