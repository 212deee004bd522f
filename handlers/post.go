package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"memories/feed"
	"memories/models"
	"memories/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type PostCreateRequest struct {
	Content         string `form:"content"`
	ExistingFileIDs string `form:"existingFileIds"`
}

type PostUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostInfo is a post decorated with the requesting user's reaction summary.
type PostInfo struct {
	models.Post
	ReactionSummary models.ReactionSummary `json:"reactionSummary"`
}

func postInfo(p *models.Post, userID uuid.UUID) PostInfo {
	return PostInfo{Post: *p, ReactionSummary: p.Reactions.Summary(userID)}
}

// guardPost loads the post and checks the user is a member of the owning
// group. Every post operation starts here.
func guardPost(c *gin.Context, postID, userID uuid.UUID) (*models.Post, *models.Memory, bool) {
	post, err := models.PostByID(c.Request.Context(), postID)
	if err != nil {
		abortWithError(c, err)
		return nil, nil, false
	}
	memory, err := models.MemoryByID(c.Request.Context(), post.MemoryID)
	if err != nil {
		abortWithError(c, err)
		return nil, nil, false
	}
	if err = models.AssertGroupMember(c.Request.Context(), memory.GroupID, userID); err != nil {
		abortWithError(c, err)
		return nil, nil, false
	}
	return post, memory, true
}

// PostCreate adds a follow-up post to a memory. Like the main post, images
// arrive as multipart uploads plus optional existing file ids.
func PostCreate(c *gin.Context, userID uuid.UUID) {
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
	r := PostCreateRequest{}
	if err = c.ShouldBindWith(&r, binding.FormMultipart); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	images, ok := collectImages(c, r.ExistingFileIDs)
	if !ok {
		return
	}
	post := models.Post{
		ID:            uuid.New(),
		MemoryID:      memory.ID,
		Content:       r.Content,
		Images:        images,
		CreatedAt:     time.Now().UTC(),
		CreatorUserID: userID,
	}
	if err = models.InsertPost(c.Request.Context(), &post); err != nil {
		abortWithError(c, err)
		return
	}
	publishPostCreated(memory, &post)
	c.JSON(http.StatusOK, postInfo(&post, userID))
}

// PostList pages through a memory's posts newest first.
func PostList(c *gin.Context, userID uuid.UUID) {
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
	r := PageRequest{}
	if err = c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	pageSize := feed.ClampPageSize(r.PageSize)
	posts, err := models.PostsForMemory(c.Request.Context(), memoryID, pageSize+1, r.Cursor)
	if err != nil {
		abortWithError(c, err)
		return
	}
	page := feed.PageOf(posts, pageSize, func(p models.Post) time.Time { return p.CreatedAt })
	infos := make([]PostInfo, 0, len(page.Items))
	for i := range page.Items {
		infos = append(infos, postInfo(&page.Items[i], userID))
	}
	c.JSON(http.StatusOK, feed.Page[PostInfo]{
		Items:      infos,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

func PostGet(c *gin.Context, userID uuid.UUID) {
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	post, _, ok := guardPost(c, postID, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, postInfo(post, userID))
}

// PostUpdate rewrites the post content. Only the creator may update.
func PostUpdate(c *gin.Context, userID uuid.UUID) {
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	post, _, ok := guardPost(c, postID, userID)
	if !ok {
		return
	}
	if post.CreatorUserID != userID {
		abortWithError(c, models.ErrNotOwner)
		return
	}
	r := PostUpdateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	post.Content = r.Content
	if err := models.ReplacePost(c.Request.Context(), post); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, postInfo(post, userID))
}

// PostDelete removes the post and the comments replying to it. Only the
// creator may delete.
func PostDelete(c *gin.Context, userID uuid.UUID) {
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	post, _, ok := guardPost(c, postID, userID)
	if !ok {
		return
	}
	if post.CreatorUserID != userID {
		abortWithError(c, models.ErrNotOwner)
		return
	}
	if err := models.DeletePostCascade(c.Request.Context(), postID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// PostImage streams one of the post's image files.
func PostImage(c *gin.Context, userID uuid.UUID) {
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	fileID, ok := pathUUID(c, "fileId")
	if !ok {
		return
	}
	post, _, ok := guardPost(c, postID, userID)
	if !ok {
		return
	}
	if post.Image(fileID) == nil {
		abortWithError(c, models.ErrImageNotFound)
		return
	}
	reader, contentType, err := storage.Get().Open(c.Request.Context(), fileID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer reader.Close()
	// Uploaded images never change, so they can be cached for a long time.
	c.Header("cache-control", "private, max-age="+strconv.Itoa(30*86400))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

// PostReactionAdd sets the user's reaction on the post, replacing a
// previous one. Responds with the updated summary.
func PostReactionAdd(c *gin.Context, userID uuid.UUID) {
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	post, _, ok := guardPost(c, postID, userID)
	if !ok {
		return
	}
	reactionType, ok := bindReaction(c)
	if !ok {
		return
	}
	post.Reactions.Upsert(userID, reactionType, time.Now().UTC())
	if err := models.ReplacePost(c.Request.Context(), post); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post.Reactions.Summary(userID))
}

// PostReactionRemove clears the user's reaction. Removing a reaction that
// is not there still succeeds.
func PostReactionRemove(c *gin.Context, userID uuid.UUID) {
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	post, _, ok := guardPost(c, postID, userID)
	if !ok {
		return
	}
	post.Reactions.Remove(userID)
	if err := models.ReplacePost(c.Request.Context(), post); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post.Reactions.Summary(userID))
}

type ReactionRequest struct {
	Type models.ReactionType `json:"type" binding:"required"`
}

func bindReaction(c *gin.Context) (models.ReactionType, bool) {
	r := ReactionRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return "", false
	}
	if !r.Type.Valid() {
		c.JSON(http.StatusBadRequest, Response{"unknown reaction type"})
		return "", false
	}
	return r.Type, true
}
