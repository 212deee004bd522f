package models

import (
	"context"
	"errors"
	"time"

	"memories/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment replies either to a post, to another comment, or to neither
// (a top-level comment directly under the memory's feed). The reply target
// must belong to the same memory; this is checked at creation time only.
type Comment struct {
	ID               uuid.UUID    `gorm:"type:char(36);primaryKey" json:"id"`
	MemoryID         uuid.UUID    `gorm:"type:char(36);index:comment_memory_order,priority:1" json:"memoryId"`
	Content          string       `gorm:"type:text" json:"content"`
	CreatedAt        time.Time    `gorm:"index:comment_memory_order,priority:2" json:"createdAt"`
	CreatorUserID    uuid.UUID    `gorm:"type:char(36)" json:"creatorUserId"`
	ReplyToPostID    *uuid.UUID   `gorm:"type:char(36);index" json:"replyToPostId,omitempty"`
	ReplyToCommentID *uuid.UUID   `gorm:"type:char(36);index" json:"replyToCommentId,omitempty"`
	Reactions        ReactionList `gorm:"serializer:json;type:text" json:"reactions"`
	Version          int64        `json:"-"`
}

func CommentByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	var c Comment
	err := db.Instance.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CommentsForMemory lists a memory's comments newest first, up to limit
// entries strictly older than the cursor.
func CommentsForMemory(ctx context.Context, memoryID uuid.UUID, limit int, cursor *time.Time) ([]Comment, error) {
	q := db.Instance.WithContext(ctx).Where("memory_id = ?", memoryID)
	if cursor != nil {
		q = q.Where("created_at < ?", *cursor)
	}
	var comments []Comment
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&comments).Error
	return comments, err
}

func CommentsByIDs(ctx context.Context, ids []uuid.UUID) ([]Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var comments []Comment
	err := db.Instance.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error
	return comments, err
}

func InsertComment(ctx context.Context, c *Comment) error {
	return db.Instance.WithContext(ctx).Create(c).Error
}

// ReplaceComment writes back a loaded-and-modified comment, guarded by the
// optimistic version counter.
func ReplaceComment(ctx context.Context, c *Comment) error {
	res := db.Instance.WithContext(ctx).Model(&Comment{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Select("content", "reactions", "version").
		Updates(Comment{
			Content:   c.Content,
			Reactions: c.Reactions,
			Version:   c.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	c.Version++
	return nil
}

// DeleteCommentCascade removes the comment and the replies pointing at it.
func DeleteCommentCascade(ctx context.Context, commentID uuid.UUID) error {
	return db.Instance.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_to_comment_id = ?", commentID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", commentID).Delete(&Comment{}).Error
	})
}

// IsTopLevel reports whether the comment sits directly under the memory.
func (c *Comment) IsTopLevel() bool {
	return c.ReplyToPostID == nil && c.ReplyToCommentID == nil
}
