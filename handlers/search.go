package handlers

import (
	"net/http"
	"time"

	"memories/feed"
	"memories/models"
	"memories/search"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ParticipantIDs binds as strings: gin's query binder cannot populate
// uuid.UUID slice elements, so they are parsed separately.
type SearchRequest struct {
	Query          string   `form:"query"`
	ParticipantIDs []string `form:"participantIds"`
	Limit          int      `form:"limit"`
	Offset         int      `form:"offset"`
}

// MemoryMatchedPhoto is the photo that matched the search, with the text
// of the post it appears in.
type MemoryMatchedPhoto struct {
	PhotoID       uuid.UUID `json:"photoId"`
	PostID        uuid.UUID `json:"postId"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatorUserID uuid.UUID `json:"creatorUserId"`
}

type SearchMemoryResponse struct {
	MemoryID  uuid.UUID          `json:"memoryId"`
	CreatedAt time.Time          `json:"createdAt"`
	Photo     MemoryMatchedPhoto `json:"photo"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
}

// SearchMemories runs a photo search over the group and joins each hit
// back with its memory and main post.
func SearchMemories(c *gin.Context, userID uuid.UUID) {
	groupID, ok := pathUUID(c, "groupId")
	if !ok {
		return
	}
	if err := models.AssertGroupMember(c.Request.Context(), groupID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	r := SearchRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	participants := make([]uuid.UUID, 0, len(r.ParticipantIDs))
	for _, raw := range r.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{"invalid participantIds"})
			return
		}
		participants = append(participants, id)
	}
	limit := feed.ClampPageSize(r.Limit)
	hits, err := search.Get().SearchImages(c.Request.Context(), groupID, r.Query, participants, limit, r.Offset)
	if err != nil {
		c.JSON(http.StatusBadGateway, Response{"search unavailable"})
		return
	}

	memoryIDs := lo.Uniq(lo.Map(hits, func(h search.PhotoSearchResult, _ int) uuid.UUID { return h.MemoryID }))
	memories, err := models.MemoriesByIDs(c.Request.Context(), memoryIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	infos, err := joinMainPosts(c, memories)
	if err != nil {
		abortWithError(c, err)
		return
	}
	byMemory := lo.SliceToMap(infos, func(i MemoryInfo) (uuid.UUID, MemoryInfo) { return i.Memory.ID, i })

	results := make([]SearchMemoryResponse, 0, len(hits))
	for _, hit := range hits {
		result := SearchMemoryResponse{
			MemoryID:  hit.MemoryID,
			CreatedAt: hit.CreatedAt,
			Photo: MemoryMatchedPhoto{
				PhotoID:       hit.PhotoID,
				PostID:        hit.PostID,
				Title:         hit.Title,
				Content:       hit.Content,
				CreatorUserID: hit.PublisherUserID,
			},
		}
		if info, ok := byMemory[hit.MemoryID]; ok {
			result.Title = info.Memory.Title
			if info.MainPost != nil {
				result.Content = info.MainPost.Content
			} else {
				result.Content = info.Memory.Description
			}
		}
		results = append(results, result)
	}
	c.JSON(http.StatusOK, results)
}
