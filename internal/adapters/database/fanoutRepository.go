package database

import (
	"context"
	"time"

	"campusblog/internal/core/fanoutqueue"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type FanoutRepositoryDatabase struct {
	db *gorm.DB
}

func NewFanoutRepositoryDatabase(db *gorm.DB) *FanoutRepositoryDatabase {
	return &FanoutRepositoryDatabase{db: db}
}

func (repo *FanoutRepositoryDatabase) Create(ctx context.Context, task *fanoutqueue.FanoutTask) (*fanoutqueue.FanoutTask, error) {
	if err := repo.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, errors.Wrap(err, "inserting fanout task")
	}
	return task, nil
}

func (repo *FanoutRepositoryDatabase) Pending(ctx context.Context, limit int64) ([]*fanoutqueue.FanoutTask, error) {
	var tasks []*fanoutqueue.FanoutTask
	err := repo.db.WithContext(ctx).
		Where("status = ?", fanoutqueue.StatusPending).
		Order("created_at ASC").
		Limit(int(limit)).
		Find(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(err, "fetching pending fanout tasks")
	}
	return tasks, nil
}

func (repo *FanoutRepositoryDatabase) MarkDone(ctx context.Context, id uuid.UUID) error {
	return repo.setStatus(ctx, id, fanoutqueue.StatusDone)
}

func (repo *FanoutRepositoryDatabase) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return repo.setStatus(ctx, id, fanoutqueue.StatusFailed)
}

func (repo *FanoutRepositoryDatabase) setStatus(ctx context.Context, id uuid.UUID, status string) error {
	now := time.Now()
	err := repo.db.WithContext(ctx).
		Model(&fanoutqueue.FanoutTask{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "processed_at": &now}).Error
	if err != nil {
		return errors.Wrapf(err, "marking fanout task %s", status)
	}
	return nil
}
