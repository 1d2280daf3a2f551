package workers

import (
	"context"
	"time"

	"campusblog/internal/core/fanoutqueue"
	fanoutPort "campusblog/internal/ports/fanoutqueue"

	"go.uber.org/zap"
)

const pollInterval = 1 * time.Second

// Notifier delivers one queued fan-out task to every subscriber.
type Notifier interface {
	FanOut(ctx context.Context, task *fanoutqueue.FanoutTask) error
}

// FanoutWorker drains the fan-out queue in the background so that post
// creation never waits on notification delivery.
type FanoutWorker struct {
	FanoutRepo fanoutPort.FanoutRepository
	Notifier   Notifier
	BatchSize  int
	Logger     *zap.Logger
}

func NewFanoutWorker(repo fanoutPort.FanoutRepository, notifier Notifier, batchSize int, logger *zap.Logger) *FanoutWorker {
	return &FanoutWorker{
		FanoutRepo: repo,
		Notifier:   notifier,
		BatchSize:  batchSize,
		Logger:     logger,
	}
}

func (w *FanoutWorker) Run(ctx context.Context) {
	w.Logger.Info("fanout worker started", zap.Int("batchSize", w.BatchSize))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("fanout worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *FanoutWorker) drain(ctx context.Context) {
	tasks, err := w.FanoutRepo.Pending(ctx, int64(w.BatchSize))
	if err != nil {
		w.Logger.Error("failed to fetch pending fanout tasks", zap.Error(err))
		return
	}

	for _, task := range tasks {
		if err := w.Notifier.FanOut(ctx, task); err != nil {
			w.Logger.Error("fanout task failed",
				zap.String("task", task.ID.String()),
				zap.String("post", task.PostID.String()),
				zap.Error(err))
			if err := w.FanoutRepo.MarkFailed(ctx, task.ID); err != nil {
				w.Logger.Error("failed to mark fanout task failed", zap.String("task", task.ID.String()), zap.Error(err))
			}
			continue
		}
		if err := w.FanoutRepo.MarkDone(ctx, task.ID); err != nil {
			w.Logger.Error("failed to mark fanout task done", zap.String("task", task.ID.String()), zap.Error(err))
		}
	}
}
