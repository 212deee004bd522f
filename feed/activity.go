package feed

import (
	"time"

	"memories/models"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityPost    ActivityType = "post"
	ActivityComment ActivityType = "comment"
)

// Activity is the unified feed projection of a post or a comment. Shared
// fields are lifted out; the variant-specific fields are populated only for
// the matching Type.
type Activity struct {
	ID              uuid.UUID              `json:"id"`
	MemoryID        uuid.UUID              `json:"memoryId"`
	Type            ActivityType           `json:"type"`
	Content         string                 `json:"content"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatorUserID   uuid.UUID              `json:"creatorUserId"`
	Reactions       models.ReactionList    `json:"reactions"`
	ReactionSummary models.ReactionSummary `json:"reactionSummary"`

	// Post variant
	Images models.ImageList `json:"images,omitempty"`

	// Comment variant
	ReplyToPostID    *uuid.UUID `json:"replyToPostId,omitempty"`
	ReplyToCommentID *uuid.UUID `json:"replyToCommentId,omitempty"`
	ReplyToContent   *string    `json:"replyToContent,omitempty"`
}

func PostActivity(p models.Post, userID uuid.UUID) Activity {
	return Activity{
		ID:              p.ID,
		MemoryID:        p.MemoryID,
		Type:            ActivityPost,
		Content:         p.Content,
		CreatedAt:       p.CreatedAt,
		CreatorUserID:   p.CreatorUserID,
		Reactions:       p.Reactions,
		ReactionSummary: p.Reactions.Summary(userID),
		Images:          p.Images,
	}
}

func CommentActivity(c models.Comment, userID uuid.UUID, replyContent map[uuid.UUID]string) Activity {
	a := Activity{
		ID:               c.ID,
		MemoryID:         c.MemoryID,
		Type:             ActivityComment,
		Content:          c.Content,
		CreatedAt:        c.CreatedAt,
		CreatorUserID:    c.CreatorUserID,
		Reactions:        c.Reactions,
		ReactionSummary:  c.Reactions.Summary(userID),
		ReplyToPostID:    c.ReplyToPostID,
		ReplyToCommentID: c.ReplyToCommentID,
	}
	if content, ok := replyContent[c.ID]; ok {
		a.ReplyToContent = &content
	}
	return a
}
