package handlers

import (
	"net/http"
	"time"

	"memories/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentCreateRequest struct {
	Content          string     `json:"content" binding:"required"`
	ReplyToPostID    *uuid.UUID `json:"replyToPostId"`
	ReplyToCommentID *uuid.UUID `json:"replyToCommentId"`
}

type CommentUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentInfo is a comment decorated with the requesting user's reaction
// summary.
type CommentInfo struct {
	models.Comment
	ReactionSummary models.ReactionSummary `json:"reactionSummary"`
}

func commentInfo(cm *models.Comment, userID uuid.UUID) CommentInfo {
	return CommentInfo{Comment: *cm, ReactionSummary: cm.Reactions.Summary(userID)}
}

func guardComment(c *gin.Context, commentID, userID uuid.UUID) (*models.Comment, bool) {
	comment, err := models.CommentByID(c.Request.Context(), commentID)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	memory, err := models.MemoryByID(c.Request.Context(), comment.MemoryID)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	if err = models.AssertGroupMember(c.Request.Context(), memory.GroupID, userID); err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return comment, true
}

// CommentCreate posts a comment into a memory's feed, optionally replying
// to a post or another comment in the same memory.
func CommentCreate(c *gin.Context, userID uuid.UUID) {
	memoryID, ok := pathUUID(c, "memoryId")
	if !ok {
		return
	}
	memory, err := models.MemoryByID(c.Request.Context(), memoryID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err = models.AssertGroupMember(c.Request.Context(), memory.GroupID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	r := CommentCreateRequest{}
	if err = c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.ReplyToPostID != nil && r.ReplyToCommentID != nil {
		c.JSON(http.StatusBadRequest, Response{"reply target must be a post or a comment, not both"})
		return
	}
	if !validateReplyTarget(c, memoryID, r.ReplyToPostID, r.ReplyToCommentID) {
		return
	}
	comment := models.Comment{
		ID:               uuid.New(),
		MemoryID:         memoryID,
		Content:          r.Content,
		CreatedAt:        time.Now().UTC(),
		CreatorUserID:    userID,
		ReplyToPostID:    r.ReplyToPostID,
		ReplyToCommentID: r.ReplyToCommentID,
	}
	if err = models.InsertComment(c.Request.Context(), &comment); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentInfo(&comment, userID))
}

// validateReplyTarget checks the reply target exists and lives in the same
// memory as the new comment.
func validateReplyTarget(c *gin.Context, memoryID uuid.UUID, postID, commentID *uuid.UUID) bool {
	if postID != nil {
		target, err := models.PostByID(c.Request.Context(), *postID)
		if err != nil {
			abortWithError(c, err)
			return false
		}
		if target.MemoryID != memoryID {
			c.JSON(http.StatusBadRequest, Response{"reply target belongs to another memory"})
			return false
		}
	}
	if commentID != nil {
		target, err := models.CommentByID(c.Request.Context(), *commentID)
		if err != nil {
			abortWithError(c, err)
			return false
		}
		if target.MemoryID != memoryID {
			c.JSON(http.StatusBadRequest, Response{"reply target belongs to another memory"})
			return false
		}
	}
	return true
}

// CommentUpdate rewrites the comment content. Only the creator may update.
func CommentUpdate(c *gin.Context, userID uuid.UUID) {
	commentID, ok := pathUUID(c, "commentId")
	if !ok {
		return
	}
	comment, ok := guardComment(c, commentID, userID)
	if !ok {
		return
	}
	if comment.CreatorUserID != userID {
		abortWithError(c, models.ErrNotOwner)
		return
	}
	r := CommentUpdateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	comment.Content = r.Content
	if err := models.ReplaceComment(c.Request.Context(), comment); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentInfo(comment, userID))
}

// CommentDelete removes the comment and the replies pointing at it. Only
// the creator may delete.
func CommentDelete(c *gin.Context, userID uuid.UUID) {
	commentID, ok := pathUUID(c, "commentId")
	if !ok {
		return
	}
	comment, ok := guardComment(c, commentID, userID)
	if !ok {
		return
	}
	if comment.CreatorUserID != userID {
		abortWithError(c, models.ErrNotOwner)
		return
	}
	if err := models.DeleteCommentCascade(c.Request.Context(), commentID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// CommentReactionAdd sets the user's reaction on the comment, replacing a
// previous one.
func CommentReactionAdd(c *gin.Context, userID uuid.UUID) {
	commentID, ok := pathUUID(c, "commentId")
	if !ok {
		return
	}
	comment, ok := guardComment(c, commentID, userID)
	if !ok {
		return
	}
	reactionType, ok := bindReaction(c)
	if !ok {
		return
	}
	comment.Reactions.Upsert(userID, reactionType, time.Now().UTC())
	if err := models.ReplaceComment(c.Request.Context(), comment); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment.Reactions.Summary(userID))
}

// CommentReactionRemove clears the user's reaction, succeeding even when
// none was set.
func CommentReactionRemove(c *gin.Context, userID uuid.UUID) {
	commentID, ok := pathUUID(c, "commentId")
	if !ok {
		return
	}
	comment, ok := guardComment(c, commentID, userID)
	if !ok {
		return
	}
	comment.Reactions.Remove(userID)
	if err := models.ReplaceComment(c.Request.Context(), comment); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment.Reactions.Summary(userID))
}
