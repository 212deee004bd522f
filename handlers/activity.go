package handlers

import (
	"net/http"

	"memories/feed"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityList pages through a memory's merged post and comment feed,
// newest first.
func ActivityList(c *gin.Context, userID uuid.UUID) {
	memoryID, ok := pathUUID(c, "memoryId")
	if !ok {
		return
	}
	r := PageRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	page, err := feed.Activities(c.Request.Context(), memoryID, userID, r.PageSize, r.Cursor)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
