package events

import (
	"time"

	"github.com/google/uuid"
)

// NATS subjects. The group and user subjects are owned by the user-groups
// service; we only consume them. PostCreated is published by us for the
// image analysis pipeline.
const (
	SubjectPostCreated       = "memories.post.created"
	SubjectGroupCreated      = "usergroups.group.created"
	SubjectGroupUpdated      = "usergroups.group.updated"
	SubjectUserJoinedGroup   = "usergroups.group.user-joined"
	SubjectUserLeftGroup     = "usergroups.group.user-left"
	SubjectUserNameChanged   = "usergroups.user.name-changed"
	SubjectUserAvatarChanged = "usergroups.user.avatar-changed"
)

type EventUser struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	UserName     string     `json:"userName"`
	AvatarFileID *uuid.UUID `json:"avatarFileId"`
}

type PostCreatedEvent struct {
	MemoryID  uuid.UUID   `json:"memoryId"`
	GroupID   uuid.UUID   `json:"groupId"`
	PostID    uuid.UUID   `json:"postId"`
	UserID    uuid.UUID   `json:"userId"`
	ImageIDs  []uuid.UUID `json:"imageIds"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

type GroupCreatedEvent struct {
	GroupID       uuid.UUID `json:"groupId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatedByUser EventUser `json:"createdByUser"`
}

type GroupUpdatedEvent struct {
	GroupID     uuid.UUID `json:"groupId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type UserJoinedGroupEvent struct {
	GroupID      uuid.UUID  `json:"groupId"`
	UserID       uuid.UUID  `json:"userId"`
	Name         string     `json:"name"`
	UserName     string     `json:"userName"`
	AvatarFileID *uuid.UUID `json:"avatarFileId"`
}

type UserLeftGroupEvent struct {
	GroupID uuid.UUID `json:"groupId"`
	UserID  uuid.UUID `json:"userId"`
}

type UserNameChangedEvent struct {
	UserID  uuid.UUID `json:"userId"`
	NewName string    `json:"newName"`
}

type UserAvatarChangedEvent struct {
	UserID       uuid.UUID  `json:"userId"`
	AvatarFileID *uuid.UUID `json:"avatarFileId"`
}
