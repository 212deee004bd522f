package feed

import (
	"context"

	"memories/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ResolveReplyContent resolves, for each comment, the content of whatever
// it replies to. Referenced posts and referenced comments are each fetched
// in a single batch, so the cost is two round trips no matter how many
// comments are passed in. A comment whose target is missing (deleted, or
// top-level) is simply absent from the result.
func ResolveReplyContent(ctx context.Context, comments []models.Comment) (map[uuid.UUID]string, error) {
	postIDs := lo.Uniq(lo.FilterMap(comments, func(c models.Comment, _ int) (uuid.UUID, bool) {
		if c.ReplyToPostID == nil {
			return uuid.Nil, false
		}
		return *c.ReplyToPostID, true
	}))
	commentIDs := lo.Uniq(lo.FilterMap(comments, func(c models.Comment, _ int) (uuid.UUID, bool) {
		if c.ReplyToCommentID == nil {
			return uuid.Nil, false
		}
		return *c.ReplyToCommentID, true
	}))

	var posts []models.Post
	var targets []models.Comment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = models.PostsByIDs(gctx, postIDs)
		return err
	})
	g.Go(func() error {
		var err error
		targets, err = models.CommentsByIDs(gctx, commentIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	postContent := lo.SliceToMap(posts, func(p models.Post) (uuid.UUID, string) {
		return p.ID, p.Content
	})
	commentContent := lo.SliceToMap(targets, func(c models.Comment) (uuid.UUID, string) {
		return c.ID, c.Content
	})

	resolved := map[uuid.UUID]string{}
	for _, c := range comments {
		switch {
		case c.ReplyToPostID != nil:
			if content, ok := postContent[*c.ReplyToPostID]; ok {
				resolved[c.ID] = content
			}
		case c.ReplyToCommentID != nil:
			if content, ok := commentContent[*c.ReplyToCommentID]; ok {
				resolved[c.ID] = content
			}
		}
	}
	return resolved, nil
}
