package subscription

import (
	"time"

	"github.com/gofrs/uuid"
)

// Subscription is a (username, topic) pair. The composite unique index is
// what serializes racing subscribes for the same pair.
type Subscription struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex:uniq_user_topic"`
	Topic     string    `gorm:"type:varchar(64);not null;uniqueIndex:uniq_user_topic"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
