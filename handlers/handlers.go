package handlers

import (
	"errors"
	"net/http"
	"time"

	"memories/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Response struct {
	Error string `json:"error"`
}

var OKResponse = Response{}

// abortWithError maps the model sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body so DB details never leak out.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrMemoryNotFound),
		errors.Is(err, models.ErrPostNotFound),
		errors.Is(err, models.ErrCommentNotFound),
		errors.Is(err, models.ErrImageNotFound):
		c.JSON(http.StatusNotFound, Response{err.Error()})
	case errors.Is(err, models.ErrNotGroupMember),
		errors.Is(err, models.ErrNotOwner):
		c.JSON(http.StatusForbidden, Response{err.Error()})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, Response{err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Response{"internal error"})
	}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// PageRequest carries the shared cursor-pagination query parameters.
// The cursor is the createdAt returned as nextCursor by the previous page.
type PageRequest struct {
	PageSize int        `form:"pageSize"`
	Cursor   *time.Time `form:"cursor" time_format:"2006-01-02T15:04:05.999999999Z07:00"`
}
