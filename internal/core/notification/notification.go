package notification

import (
	"time"

	"github.com/gofrs/uuid"
)

// Notification is created exactly once per (post, subscriber) pair at
// publication time and only ever mutated by its recipient marking it read.
// Unsubscribing from the topic deletes it. The unique (recipient, post_id)
// index is what makes a re-run of the same fan-out task harmless.
type Notification struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Recipient string    `gorm:"type:varchar(64);not null;index:idx_recipient_topic;uniqueIndex:uniq_recipient_post"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_recipient_post"`
	Topic     string    `gorm:"type:varchar(64);not null;index:idx_recipient_topic"`
	PostTitle string    `gorm:"type:varchar(255);not null"`
	Message   string    `gorm:"type:varchar(512);not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
