package fanout

import (
	"context"

	"campusblog/internal/core/fanoutqueue"

	"github.com/gofrs/uuid"
)

type FanoutRepository interface {
	Create(ctx context.Context, task *fanoutqueue.FanoutTask) (*fanoutqueue.FanoutTask, error)
	Pending(ctx context.Context, limit int64) ([]*fanoutqueue.FanoutTask, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}
