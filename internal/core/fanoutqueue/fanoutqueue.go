package fanoutqueue

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// FanoutTask is the durable record that a published post still needs its
// notifications delivered. The worker drains pending tasks; a task failing to
// enqueue never fails the post creation that produced it.
type FanoutTask struct {
	ID          uuid.UUID  `gorm:"primary_key;type:char(36)"`
	PostID      uuid.UUID  `gorm:"type:char(36);not null"`
	Topic       string     `gorm:"type:varchar(64);not null"`
	Author      string     `gorm:"type:varchar(64);not null"`
	PostTitle   string     `gorm:"type:varchar(255);not null"`
	Status      string     `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	ProcessedAt *time.Time `gorm:"index"`
}
