package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"memories/events"
	"memories/feed"
	"memories/models"
	"memories/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type MemoryCreateRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	Content     string `form:"content"`
	// ExistingFileIDs references already-uploaded files to attach to the
	// main post alongside the freshly uploaded ones.
	ExistingFileIDs string `form:"existingFileIds"`
	Participants    string `form:"participantIds"`
}

// MemoryInfo is a memory joined with its main post.
type MemoryInfo struct {
	models.Memory
	MainPost *models.Post `json:"mainPost"`
}

// MemoryCreate makes a new memory in the group together with its main post.
// Images come in as multipart uploads plus optional existing file ids.
func MemoryCreate(c *gin.Context, userID uuid.UUID) {
	groupID, ok := pathUUID(c, "groupId")
	if !ok {
		return
	}
	if err := models.AssertGroupMember(c.Request.Context(), groupID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	r := MemoryCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.FormMultipart); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	participants, ok := parseUUIDListField(c, r.Participants, "participantIds")
	if !ok {
		return
	}
	images, ok := collectImages(c, r.ExistingFileIDs)
	if !ok {
		return
	}

	now := time.Now().UTC()
	memory := models.Memory{
		ID:             uuid.New(),
		GroupID:        groupID,
		Title:          r.Title,
		Description:    r.Description,
		CreatedAt:      now,
		CreatorUserID:  userID,
		ParticipantIDs: participants,
	}
	post := models.Post{
		ID:            uuid.New(),
		MemoryID:      memory.ID,
		Content:       r.Content,
		Images:        images,
		CreatedAt:     now,
		CreatorUserID: userID,
	}
	memory.MainPostID = post.ID
	if err := models.CreateMemoryWithMainPost(c.Request.Context(), &memory, &post); err != nil {
		abortWithError(c, err)
		return
	}
	publishPostCreated(&memory, &post)
	c.JSON(http.StatusOK, MemoryInfo{Memory: memory, MainPost: &post})
}

// MemoryList pages through the group's memories newest first, each joined
// with its main post in a single batched query.
func MemoryList(c *gin.Context, userID uuid.UUID) {
	groupID, ok := pathUUID(c, "groupId")
	if !ok {
		return
	}
	if err := models.AssertGroupMember(c.Request.Context(), groupID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	r := PageRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	pageSize := feed.ClampPageSize(r.PageSize)
	memories, err := models.MemoriesForGroup(c.Request.Context(), groupID, pageSize+1, r.Cursor)
	if err != nil {
		abortWithError(c, err)
		return
	}
	page := feed.PageOf(memories, pageSize, func(m models.Memory) time.Time { return m.CreatedAt })
	infos, err := joinMainPosts(c, page.Items)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed.Page[MemoryInfo]{
		Items:      infos,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

func MemoryGet(c *gin.Context, userID uuid.UUID) {
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
	infos, err := joinMainPosts(c, []models.Memory{*memory})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, infos[0])
}

// joinMainPosts attaches each memory's main post with one IN query.
func joinMainPosts(c *gin.Context, memories []models.Memory) ([]MemoryInfo, error) {
	ids := lo.Uniq(lo.Map(memories, func(m models.Memory, _ int) uuid.UUID { return m.MainPostID }))
	posts, err := models.PostsByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	byID := lo.SliceToMap(posts, func(p models.Post) (uuid.UUID, models.Post) { return p.ID, p })
	infos := make([]MemoryInfo, 0, len(memories))
	for _, m := range memories {
		info := MemoryInfo{Memory: m}
		if p, ok := byID[m.MainPostID]; ok {
			p := p
			info.MainPost = &p
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// collectImages uploads the request's multipart images and merges in the
// referenced pre-existing file ids.
func collectImages(c *gin.Context, existingFileIDs string) (models.ImageList, bool) {
	images := models.ImageList{}
	existing, ok := parseUUIDListField(c, existingFileIDs, "existingFileIds")
	if !ok {
		return nil, false
	}
	for _, id := range existing {
		images = append(images, models.Image{FileID: id})
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return nil, false
	}
	for _, header := range form.File["images"] {
		fileID, err := uploadImage(c, header)
		if err != nil {
			c.JSON(http.StatusInternalServerError, Response{"cannot store image"})
			return nil, false
		}
		images = append(images, models.Image{FileID: fileID})
	}
	return images, true
}

func uploadImage(c *gin.Context, header *multipart.FileHeader) (uuid.UUID, error) {
	file, err := header.Open()
	if err != nil {
		return uuid.Nil, err
	}
	defer file.Close()
	return storage.Get().Upload(c.Request.Context(), file, header.Header.Get("Content-Type"))
}

func parseUUIDListField(c *gin.Context, value, name string) ([]uuid.UUID, bool) {
	if value == "" {
		return nil, true
	}
	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		c.JSON(http.StatusBadRequest, Response{"invalid " + name})
		return nil, false
	}
	return ids, true
}

func publishPostCreated(memory *models.Memory, post *models.Post) {
	events.PublishPostCreated(events.PostCreatedEvent{
		MemoryID:  memory.ID,
		GroupID:   memory.GroupID,
		PostID:    post.ID,
		UserID:    post.CreatorUserID,
		ImageIDs:  lo.Map(post.Images, func(i models.Image, _ int) uuid.UUID { return i.FileID }),
		Title:     memory.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	})
}
