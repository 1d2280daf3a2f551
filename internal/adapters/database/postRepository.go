package database

import (
	"context"

	"campusblog/internal/apperr"
	"campusblog/internal/core/post"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostRepositoryDatabase implements the content store port on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, errors.Wrap(err, "inserting post")
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	err := repo.db.WithContext(ctx).
		Preload("Reports", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("post with id %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading post")
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindAll(ctx context.Context, topic string) ([]*post.Post, error) {
	var posts []*post.Post
	query := repo.db.WithContext(ctx).
		Preload("Reports", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("created_at DESC")
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "listing posts")
	}
	return posts, nil
}

// FindReported relies on the state machine invariant that a post carries
// reports iff it is under review (a rejected review clears both).
func (repo *PostRepositoryDatabase) FindReported(ctx context.Context) ([]*post.Post, error) {
	var posts []*post.Post
	err := repo.db.WithContext(ctx).
		Preload("Reports", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("state = ?", post.StateUnderReview).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing reported posts")
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&post.Post{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "deleting post")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("post with id %s not found", id)
		}
		if err := tx.Where("post_id = ?", id).Delete(&post.Reply{}).Error; err != nil {
			return errors.Wrap(err, "deleting replies")
		}
		if err := tx.Where("post_id = ?", id).Delete(&post.Report{}).Error; err != nil {
			return errors.Wrap(err, "deleting reports")
		}
		return nil
	})
}

// DeleteVersioned removes the post under the moderation version guard, so an
// approve decided against stale state loses to whichever transition landed
// first instead of deleting a republished post.
func (repo *PostRepositoryDatabase) DeleteVersioned(ctx context.Context, id string, fromVersion int64) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND version = ?", id, fromVersion).Delete(&post.Post{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "deleting post")
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&post.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return errors.Wrap(err, "checking post existence")
			}
			if count == 0 {
				return apperr.NotFound("post with id %s not found", id)
			}
			return apperr.Conflict("post %s was modified concurrently", id)
		}
		if err := tx.Where("post_id = ?", id).Delete(&post.Reply{}).Error; err != nil {
			return errors.Wrap(err, "deleting replies")
		}
		if err := tx.Where("post_id = ?", id).Delete(&post.Report{}).Error; err != nil {
			return errors.Wrap(err, "deleting reports")
		}
		return nil
	})
}

func (repo *PostRepositoryDatabase) AddReply(ctx context.Context, reply *post.Reply) error {
	if err := repo.db.WithContext(ctx).Create(reply).Error; err != nil {
		return errors.Wrap(err, "inserting reply")
	}
	return nil
}

// UpdateModeration applies one state transition guarded by the version
// column. The report append or report clear shares the transaction with the
// state update, so a transition is all-or-nothing.
func (repo *PostRepositoryDatabase) UpdateModeration(ctx context.Context, postID string, fromVersion int64, newState post.ModerationState, report *post.Report, clearReports bool) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&post.Post{}).
			Where("id = ? AND version = ?", postID, fromVersion).
			Updates(map[string]interface{}{
				"state":   newState,
				"version": fromVersion + 1,
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "updating moderation state")
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&post.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
				return errors.Wrap(err, "checking post existence")
			}
			if count == 0 {
				return apperr.NotFound("post with id %s not found", postID)
			}
			return apperr.Conflict("post %s was modified concurrently", postID)
		}
		if report != nil {
			if err := tx.Create(report).Error; err != nil {
				return errors.Wrap(err, "inserting report")
			}
		}
		if clearReports {
			if err := tx.Where("post_id = ?", postID).Delete(&post.Report{}).Error; err != nil {
				return errors.Wrap(err, "clearing reports")
			}
		}
		return nil
	})
}
