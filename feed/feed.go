// Package feed merges a memory's two independently stored streams, posts
// and comments, into one cursor-paginated reverse-chronological timeline.
package feed

import (
	"context"
	"sort"
	"time"

	"memories/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Activities returns one page of the memory's merged feed. The requesting
// user must be a member of the memory's group.
func Activities(ctx context.Context, memoryID, userID uuid.UUID, pageSize int, cursor *time.Time) (Page[Activity], error) {
	memory, err := models.MemoryByID(ctx, memoryID)
	if err != nil {
		return Page[Activity]{}, err
	}
	if err := models.AssertGroupMember(ctx, memory.GroupID, userID); err != nil {
		return Page[Activity]{}, err
	}

	pageSize = ClampPageSize(pageSize)

	// Over-fetch each stream by one so hasMore can be decided after the merge.
	var posts []models.Post
	var comments []models.Comment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = models.PostsForMemory(gctx, memoryID, pageSize+1, cursor)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = models.CommentsForMemory(gctx, memoryID, pageSize+1, cursor)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page[Activity]{}, err
	}

	replyContent, err := ResolveReplyContent(ctx, comments)
	if err != nil {
		return Page[Activity]{}, err
	}

	activities := make([]Activity, 0, len(posts)+len(comments))
	for _, p := range posts {
		activities = append(activities, PostActivity(p, userID))
	}
	for _, c := range comments {
		activities = append(activities, CommentActivity(c, userID, replyContent))
	}

	// Each stream is correctly ordered on its own, but the union is not:
	// when one stream is much denser near the cursor boundary, truncating
	// before re-sorting would drop items that belong on this page. Sort the
	// combined set, then truncate.
	sortActivities(activities)
	if len(activities) > pageSize+1 {
		activities = activities[:pageSize+1]
	}

	return PageOf(activities, pageSize, func(a Activity) time.Time { return a.CreatedAt }), nil
}

// sortActivities orders newest first, breaking created-at ties on id so
// repeated reads paginate identically.
func sortActivities(activities []Activity) {
	sort.Slice(activities, func(i, j int) bool {
		if !activities[i].CreatedAt.Equal(activities[j].CreatedAt) {
			return activities[i].CreatedAt.After(activities[j].CreatedAt)
		}
		return activities[i].ID.String() > activities[j].ID.String()
	})
}
