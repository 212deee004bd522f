package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"memories/auth"
	"memories/db"
	"memories/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type env struct {
	router   *gin.Engine
	memberID uuid.UUID
	groupID  uuid.UUID
	memoryID uuid.UUID
	postID   uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	instance, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := instance.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.Instance = instance
	models.Init()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("token", cookie.NewStore([]byte("test key"))))
	authRouter := &auth.Router{Base: router}
	authRouter.GET("/memories/:memoryId", MemoryGet)
	authRouter.GET("/memories/:memoryId/activities", ActivityList)
	authRouter.POST("/memories/:memoryId/activities/comments", CommentCreate)
	authRouter.GET("/posts/:postId", PostGet)
	authRouter.PUT("/posts/:postId", PostUpdate)
	authRouter.DELETE("/posts/:postId", PostDelete)
	authRouter.POST("/posts/:postId/reactions", PostReactionAdd)
	authRouter.DELETE("/posts/:postId/reactions", PostReactionRemove)

	ctx := context.Background()
	e := &env{router: router, memberID: uuid.New()}
	group := &models.Group{
		ID:      uuid.New(),
		Name:    "family",
		Members: models.MemberList{{ID: e.memberID, Name: "member"}},
	}
	require.NoError(t, models.SaveGroup(ctx, group))
	e.groupID = group.ID

	memory := &models.Memory{
		ID:            uuid.New(),
		GroupID:       group.ID,
		Title:         "summer trip",
		CreatedAt:     time.Now().UTC(),
		CreatorUserID: e.memberID,
	}
	post := &models.Post{
		ID:            uuid.New(),
		MemoryID:      memory.ID,
		Content:       "first day",
		CreatedAt:     memory.CreatedAt,
		CreatorUserID: e.memberID,
	}
	memory.MainPostID = post.ID
	require.NoError(t, models.CreateMemoryWithMainPost(ctx, memory, post))
	e.memoryID = memory.ID
	e.postID = post.ID
	return e
}

func (e *env) do(t *testing.T, userID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set(auth.IdentityHeader, userID.String())
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRequestsWithoutIdentityAreRejected(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, uuid.Nil, http.MethodGet, "/memories/"+e.memoryID.String(), nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestErrorMapping(t *testing.T) {
	e := newEnv(t)
	stranger := uuid.New()

	tests := []struct {
		name   string
		userID uuid.UUID
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown memory", e.memberID, http.MethodGet, "/memories/" + uuid.NewString(), nil, http.StatusNotFound},
		{"unknown post", e.memberID, http.MethodGet, "/posts/" + uuid.NewString(), nil, http.StatusNotFound},
		{"malformed id", e.memberID, http.MethodGet, "/memories/not-a-uuid", nil, http.StatusBadRequest},
		{"non-member", stranger, http.MethodGet, "/memories/" + e.memoryID.String(), nil, http.StatusForbidden},
		{"non-member update", stranger, http.MethodPut, "/posts/" + e.postID.String(), PostUpdateRequest{Content: "x"}, http.StatusForbidden},
		{"invalid reaction", e.memberID, http.MethodPost, "/posts/" + e.postID.String() + "/reactions", map[string]string{"type": "thumbsup"}, http.StatusBadRequest},
		{"non-member reaction", stranger, http.MethodPost, "/posts/" + e.postID.String() + "/reactions", ReactionRequest{Type: models.ReactionLove}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, tt.userID, tt.method, tt.path, tt.body)
			require.Equal(t, tt.want, w.Code)
		})
	}
}

func TestErrorMappingNonOwnerForbidden(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// A fellow member who did not write the post must not update it.
	other := uuid.New()
	group, err := models.GroupByID(ctx, e.groupID)
	require.NoError(t, err)
	group.SetMember(models.Member{ID: other, Name: "other"})
	require.NoError(t, models.SaveGroup(ctx, group))

	w := e.do(t, other, http.MethodPut, "/posts/"+e.postID.String(), PostUpdateRequest{Content: "hijack"})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(t, other, http.MethodDelete, "/posts/"+e.postID.String(), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestPostReactionFlow(t *testing.T) {
	e := newEnv(t)
	path := "/posts/" + e.postID.String() + "/reactions"

	w := e.do(t, e.memberID, http.MethodPost, path, ReactionRequest{Type: models.ReactionLove})
	require.Equal(t, http.StatusOK, w.Code)
	var summary models.ReactionSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.TotalCount)
	require.Equal(t, []models.ReactionType{models.ReactionLove}, summary.UserReactions)

	// Reacting again replaces the previous reaction.
	w = e.do(t, e.memberID, http.MethodPost, path, ReactionRequest{Type: models.ReactionLaugh})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.TotalCount)
	require.Equal(t, []models.ReactionType{models.ReactionLaugh}, summary.UserReactions)

	w = e.do(t, e.memberID, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Equal(t, 0, summary.TotalCount)

	// Removing again still succeeds.
	w = e.do(t, e.memberID, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCommentCreateValidation(t *testing.T) {
	e := newEnv(t)
	path := "/memories/" + e.memoryID.String() + "/activities/comments"

	w := e.do(t, e.memberID, http.MethodPost, path, CommentCreateRequest{
		Content:       "great shot",
		ReplyToPostID: &e.postID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var created CommentInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "great shot", created.Content)
	require.NotNil(t, created.ReplyToPostID)

	// Both reply targets at once is rejected.
	w = e.do(t, e.memberID, http.MethodPost, path, CommentCreateRequest{
		Content:          "both",
		ReplyToPostID:    &e.postID,
		ReplyToCommentID: &created.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Reply target in another memory is rejected.
	ctx := context.Background()
	otherMemory := &models.Memory{
		ID:            uuid.New(),
		GroupID:       e.groupID,
		Title:         "other",
		CreatedAt:     time.Now().UTC(),
		CreatorUserID: e.memberID,
	}
	otherPost := &models.Post{
		ID:            uuid.New(),
		MemoryID:      otherMemory.ID,
		CreatedAt:     otherMemory.CreatedAt,
		CreatorUserID: e.memberID,
	}
	otherMemory.MainPostID = otherPost.ID
	require.NoError(t, models.CreateMemoryWithMainPost(ctx, otherMemory, otherPost))

	w = e.do(t, e.memberID, http.MethodPost, path, CommentCreateRequest{
		Content:       "cross memory",
		ReplyToPostID: &otherPost.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Missing reply target is a 404.
	ghost := uuid.New()
	w = e.do(t, e.memberID, http.MethodPost, path, CommentCreateRequest{
		Content:       "ghost",
		ReplyToPostID: &ghost,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}
