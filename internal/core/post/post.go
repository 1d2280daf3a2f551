package post

import (
	"time"

	"github.com/gofrs/uuid"
)

type Post struct {
	ID           uuid.UUID       `gorm:"primary_key;type:char(36)"`
	Title        string          `gorm:"type:varchar(255);not null"`
	Content      string          `gorm:"type:text;not null"`
	Topic        string          `gorm:"type:varchar(64);not null;index"`
	Author       string          `gorm:"type:varchar(64);not null;index"`
	ImageURL     string          `gorm:"type:varchar(512)"`
	ExternalLink string          `gorm:"type:varchar(512)"`
	State        ModerationState `gorm:"type:varchar(20);not null"`
	// Version guards moderation transitions; a transition carries the version
	// it was decided against and loses if another one landed first.
	Version   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Reports []Report `gorm:"foreignKey:PostID"`
	Replies []Reply  `gorm:"foreignKey:PostID"`
}

// IsReported is derived from the report list, never stored, so a non-empty
// report list and the flag cannot disagree.
func (p *Post) IsReported() bool {
	return len(p.Reports) > 0
}

func (p *Post) IsUnderReview() bool {
	return p.State == StateUnderReview
}

// Reply is append-only; replies are never edited or deleted.
type Reply struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Text      string    `gorm:"type:text;not null"`
	Author    string    `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Report struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Reporter  string    `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
