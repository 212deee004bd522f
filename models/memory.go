package models

import (
	"context"
	"errors"
	"time"

	"memories/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UUIDList []uuid.UUID

// Memory is a titled collection of posts belonging to a group, anchored by
// one main post referenced by MainPostID.
type Memory struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	GroupID        uuid.UUID `gorm:"type:char(36);index:memory_group_order,priority:1" json:"groupId"`
	Title          string    `gorm:"type:varchar(300)" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `gorm:"index:memory_group_order,priority:2" json:"createdAt"`
	CreatorUserID  uuid.UUID `gorm:"type:char(36)" json:"creatorUserId"`
	ParticipantIDs UUIDList  `gorm:"serializer:json;type:text" json:"participantsIds"`
	MainPostID     uuid.UUID `gorm:"type:char(36)" json:"mainPostId"`
}

func MemoryByID(ctx context.Context, id uuid.UUID) (*Memory, error) {
	var m Memory
	err := db.Instance.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MemoriesForGroup lists a group's memories newest first, up to limit
// entries strictly older than the cursor.
func MemoriesForGroup(ctx context.Context, groupID uuid.UUID, limit int, cursor *time.Time) ([]Memory, error) {
	q := db.Instance.WithContext(ctx).Where("group_id = ?", groupID)
	if cursor != nil {
		q = q.Where("created_at < ?", *cursor)
	}
	var memories []Memory
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&memories).Error
	return memories, err
}

func MemoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]Memory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var memories []Memory
	err := db.Instance.WithContext(ctx).Where("id IN ?", ids).Find(&memories).Error
	return memories, err
}

// CreateMemoryWithMainPost writes the memory and its main post in one
// transaction, so no memory can ever point at a post that was never written.
func CreateMemoryWithMainPost(ctx context.Context, m *Memory, p *Post) error {
	return db.Instance.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Create(p).Error
	})
}
