package models

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestReplacePostConflict(t *testing.T) {
	testDB(t)
	ctx := context.Background()
	creator := uuid.New()
	group := testGroup(t, creator)
	memory := testMemory(t, group.ID, creator, time.Now().UTC())

	first, err := PostByID(ctx, memory.MainPostID)
	require.NoError(t, err)
	second, err := PostByID(ctx, memory.MainPostID)
	require.NoError(t, err)

	first.Content = "edited once"
	require.NoError(t, ReplacePost(ctx, first))

	// The stale copy must not silently overwrite the first edit.
	second.Content = "edited concurrently"
	require.ErrorIs(t, ReplacePost(ctx, second), ErrConflict)

	loaded, err := PostByID(ctx, memory.MainPostID)
	require.NoError(t, err)
	require.Equal(t, "edited once", loaded.Content)

	// The winner can keep editing with its bumped version.
	first.Content = "edited twice"
	require.NoError(t, ReplacePost(ctx, first))
}

func TestDeletePostCascade(t *testing.T) {
	testDB(t)
	ctx := context.Background()
	creator := uuid.New()
	group := testGroup(t, creator)
	memory := testMemory(t, group.ID, creator, time.Now().UTC())

	post := Post{
		ID:            uuid.New(),
		MemoryID:      memory.ID,
		Content:       "follow-up",
		CreatedAt:     time.Now().UTC(),
		CreatorUserID: creator,
	}
	require.NoError(t, InsertPost(ctx, &post))

	reply := Comment{
		ID:            uuid.New(),
		MemoryID:      memory.ID,
		Content:       "nice one",
		CreatedAt:     time.Now().UTC(),
		CreatorUserID: creator,
		ReplyToPostID: &post.ID,
	}
	require.NoError(t, InsertComment(ctx, &reply))
	unrelated := Comment{
		ID:            uuid.New(),
		MemoryID:      memory.ID,
		Content:       "top level",
		CreatedAt:     time.Now().UTC(),
		CreatorUserID: creator,
	}
	require.NoError(t, InsertComment(ctx, &unrelated))

	require.NoError(t, DeletePostCascade(ctx, post.ID))

	_, err := PostByID(ctx, post.ID)
	require.ErrorIs(t, err, ErrPostNotFound)
	_, err = CommentByID(ctx, reply.ID)
	require.ErrorIs(t, err, ErrCommentNotFound)
	// Comments not replying to the post survive.
	_, err = CommentByID(ctx, unrelated.ID)
	require.NoError(t, err)
}

func TestPostsForMemoryPagination(t *testing.T) {
	testDB(t)
	ctx := context.Background()
	creator := uuid.New()
	group := testGroup(t, creator)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memory := testMemory(t, group.ID, creator, base)

	for i := 1; i <= 5; i++ {
		post := Post{
			ID:            uuid.New(),
			MemoryID:      memory.ID,
			Content:       "post",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
			CreatorUserID: creator,
		}
		require.NoError(t, InsertPost(ctx, &post))
	}

	page, err := PostsForMemory(ctx, memory.ID, 3, nil)
	require.NoError(t, err)
	require.Len(t, page, 3)
	for i := 1; i < len(page); i++ {
		require.True(t, page[i].CreatedAt.Before(page[i-1].CreatedAt))
	}

	// The cursor is exclusive: the page starts strictly after it.
	cursor := page[len(page)-1].CreatedAt
	rest, err := PostsForMemory(ctx, memory.ID, 10, &cursor)
	require.NoError(t, err)
	require.Len(t, rest, 3) // two older posts plus the main post
	for _, p := range rest {
		require.True(t, p.CreatedAt.Before(cursor))
	}
}
