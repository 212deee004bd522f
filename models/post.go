package models

import (
	"context"
	"errors"
	"time"

	"memories/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Image struct {
	FileID         uuid.UUID   `json:"fileId"`
	ParticipantIDs []uuid.UUID `json:"participantIds"`
}

type ImageList []Image

type Post struct {
	ID            uuid.UUID    `gorm:"type:char(36);primaryKey" json:"id"`
	MemoryID      uuid.UUID    `gorm:"type:char(36);index:post_memory_order,priority:1" json:"memoryId"`
	Content       string       `gorm:"type:text" json:"content"`
	Images        ImageList    `gorm:"serializer:json;type:text" json:"images"`
	CreatedAt     time.Time    `gorm:"index:post_memory_order,priority:2" json:"createdAt"`
	CreatorUserID uuid.UUID    `gorm:"type:char(36)" json:"creatorUserId"`
	Reactions     ReactionList `gorm:"serializer:json;type:text" json:"reactions"`
	Version       int64        `json:"-"`
}

func PostByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	var p Post
	err := db.Instance.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostsForMemory lists a memory's posts newest first, up to limit entries
// strictly older than the cursor. Ties on created_at break on id so
// pagination order stays deterministic.
func PostsForMemory(ctx context.Context, memoryID uuid.UUID, limit int, cursor *time.Time) ([]Post, error) {
	q := db.Instance.WithContext(ctx).Where("memory_id = ?", memoryID)
	if cursor != nil {
		q = q.Where("created_at < ?", *cursor)
	}
	var posts []Post
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func PostsByIDs(ctx context.Context, ids []uuid.UUID) ([]Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []Post
	err := db.Instance.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	return posts, err
}

func InsertPost(ctx context.Context, p *Post) error {
	return db.Instance.WithContext(ctx).Create(p).Error
}

// ReplacePost writes back a loaded-and-modified post. The version check
// turns a lost-update race into ErrConflict instead of silently keeping
// the last writer.
func ReplacePost(ctx context.Context, p *Post) error {
	res := db.Instance.WithContext(ctx).Model(&Post{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Select("content", "images", "reactions", "version").
		Updates(Post{
			Content:   p.Content,
			Images:    p.Images,
			Reactions: p.Reactions,
			Version:   p.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	p.Version++
	return nil
}

// DeletePostCascade removes the post and the comments replying to it.
func DeletePostCascade(ctx context.Context, postID uuid.UUID) error {
	return db.Instance.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_to_post_id = ?", postID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", postID).Delete(&Post{}).Error
	})
}

func (p *Post) Image(fileID uuid.UUID) *Image {
	for i := range p.Images {
		if p.Images[i].FileID == fileID {
			return &p.Images[i]
		}
	}
	return nil
}
