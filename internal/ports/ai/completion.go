package ai

import "context"

// ReplyGenerator is the boundary to the external completion-service
// collaborator that drafts reply text. Nothing it returns is persisted by the
// core.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, prompt, tone string) (string, error)
}
