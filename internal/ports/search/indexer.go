package search

import (
	"context"

	"campusblog/internal/core/post"
)

// SearchIndexer is the boundary to the external full-text search collaborator.
// The core keeps the index in step with the store best-effort and delegates
// relevance entirely; it only ever gets post ids back.
type SearchIndexer interface {
	IndexPost(ctx context.Context, p *post.Post) error
	DeletePost(ctx context.Context, id string) error
	// Search matches the query against title and content and returns post ids.
	Search(ctx context.Context, query string) ([]string, error)
}
