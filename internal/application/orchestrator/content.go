package orchestrator

import (
	"context"

	"github.com/campusconnect/campusconnect/internal/cache"
	"github.com/campusconnect/campusconnect/internal/domain/activity"
	"github.com/campusconnect/campusconnect/internal/domain/content"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/ranking"
)

// ─────────────────────────────────────────────────────────────────────────────
// Posts
// ─────────────────────────────────────────────────────────────────────────────

// CreatePostResult is the outcome of CreatePost.
type CreatePostResult struct {
	Post     *content.Post `json:"post"`
	Warnings []string      `json:"warnings,omitempty"`
}

// CreatePost publishes a post to a group. The author must be a member; the
// membership check reads the relational store directly, never the cache, and
// rejects before anything is written anywhere. After the document insert the
// hot-ranking entry, activity entry, post points, and group-summary
// invalidation follow in that order, each degrading independently.
func (o *Orchestrator) CreatePost(ctx context.Context, authorID, groupID string, postType content.PostType, title, body string, tags []string) (*CreatePostResult, error) {
	member, err := o.relational.IsMember(ctx, authorID, groupID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, shared.NewDomainError("content", "CreatePost", shared.ErrForbidden, "author is not a member of the group")
	}

	p, err := content.NewPost(authorID, groupID, postType, title, body, tags)
	if err != nil {
		return nil, err
	}

	if err := o.documents.InsertPost(ctx, p); err != nil {
		return nil, err
	}

	res := &CreatePostResult{Post: p}

	if err := o.hot.Promote(ctx, p.ID, float64(p.CreatedAt.Unix())); err != nil {
		res.Warnings = o.warn("CreatePost", res.Warnings, "post not ranked in hot items", err)
	}

	entry := activity.PostCreated(p.ID, authorID, groupID, p.Title)
	if err := o.activity.Push(ctx, groupID, &entry); err != nil {
		res.Warnings = o.warn("CreatePost", res.Warnings, "activity entry not recorded", err)
	}

	if _, err := o.leaderboard.AddPoints(ctx, authorID, ranking.PointsCreatePost); err != nil {
		res.Warnings = o.warn("CreatePost", res.Warnings, "post points not awarded", err)
	}

	if err := o.cache.Invalidate(ctx, cache.KindGroup, groupID); err != nil {
		res.Warnings = o.warn("CreatePost", res.Warnings, "stale group summary not invalidated", err)
	}

	return res, nil
}

// GetPost returns a post by ID.
func (o *Orchestrator) GetPost(ctx context.Context, id string) (*content.Post, error) {
	return o.documents.GetPost(ctx, id)
}

// FeedItem is a post enriched with display data resolved through the
// cache-aside read path. Unresolvable names stay empty rather than failing
// the feed.
type FeedItem struct {
	Post       *content.Post `json:"post"`
	AuthorName string        `json:"author_name,omitempty"`
	GroupName  string        `json:"group_name,omitempty"`
}

// GetGroupFeed returns a group's posts newest first, each enriched with the
// author's and group's display names.
func (o *Orchestrator) GetGroupFeed(ctx context.Context, groupID string, limit, offset int) ([]FeedItem, error) {
	summary, _, err := o.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := o.documents.ListGroupPosts(ctx, groupID, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		item := FeedItem{Post: p, GroupName: summary.Name}
		if u, _, err := o.GetUser(ctx, p.AuthorID); err == nil {
			item.AuthorName = u.FullName
		}
		items = append(items, item)
	}

	return items, nil
}

// ListUserPosts returns a user's posts across all groups, newest first.
func (o *Orchestrator) ListUserPosts(ctx context.Context, authorID string, limit int) ([]*content.Post, error) {
	if _, err := o.relational.GetUser(ctx, authorID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	return o.documents.ListUserPosts(ctx, authorID, limit)
}

// SearchPostsByTags returns posts carrying any of the given tags.
func (o *Orchestrator) SearchPostsByTags(ctx context.Context, tags []string, limit int) ([]*content.Post, error) {
	if len(tags) == 0 {
		return nil, shared.NewDomainError("content", "SearchPostsByTags", shared.ErrValidation, "at least one tag is required")
	}

	if limit <= 0 {
		limit = 20
	}
	return o.documents.SearchPostsByTags(ctx, tags, limit)
}

// DeletePostResult summarizes the steps of a post deletion.
type DeletePostResult struct {
	CommentsDeleted int64    `json:"comments_deleted"`
	PointsDeducted  float64  `json:"points_deducted"`
	Warnings        []string `json:"warnings,omitempty"`
}

// DeletePost removes a post and everything hanging off it: the post's
// comments, the post itself, its hot-ranking entry, and the author's post
// points. Only the author may delete. The document-store steps are
// authoritative and abort on failure; the fast-store steps degrade.
func (o *Orchestrator) DeletePost(ctx context.Context, postID, requesterID string) (*DeletePostResult, error) {
	p, err := o.documents.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != requesterID {
		return nil, shared.NewDomainError("content", "DeletePost", shared.ErrForbidden, "only the author can delete a post")
	}

	deleted, err := o.documents.DeleteCommentsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := o.documents.DeletePost(ctx, postID); err != nil {
		return nil, err
	}

	res := &DeletePostResult{CommentsDeleted: deleted}

	if err := o.hot.Remove(ctx, postID); err != nil {
		res.Warnings = o.warn("DeletePost", res.Warnings, "post not removed from hot ranking", err)
	}

	if _, err := o.leaderboard.AddPoints(ctx, p.AuthorID, -ranking.PointsCreatePost); err != nil {
		res.Warnings = o.warn("DeletePost", res.Warnings, "post points not deducted", err)
	} else {
		res.PointsDeducted = ranking.PointsCreatePost
	}

	if err := o.cache.Invalidate(ctx, cache.KindGroup, p.GroupID); err != nil {
		res.Warnings = o.warn("DeletePost", res.Warnings, "stale group summary not invalidated", err)
	}

	return res, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Comments
// ─────────────────────────────────────────────────────────────────────────────

// CreateCommentResult is the outcome of CreateComment.
type CreateCommentResult struct {
	Comment  *content.Comment `json:"comment"`
	Warnings []string         `json:"warnings,omitempty"`
}

// CreateComment adds a comment to an existing post. Each comment re-promotes
// the post with the comment's timestamp, refreshing its hot-ranking position,
// and awards comment points; both degrade independently.
func (o *Orchestrator) CreateComment(ctx context.Context, postID, authorID, body string) (*CreateCommentResult, error) {
	if _, err := o.documents.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := o.relational.GetUser(ctx, authorID); err != nil {
		return nil, err
	}

	c, err := content.NewComment(postID, authorID, body)
	if err != nil {
		return nil, err
	}

	if err := o.documents.InsertComment(ctx, c); err != nil {
		return nil, err
	}

	res := &CreateCommentResult{Comment: c}

	if err := o.hot.Promote(ctx, postID, float64(c.CreatedAt.Unix())); err != nil {
		res.Warnings = o.warn("CreateComment", res.Warnings, "post not re-promoted in hot ranking", err)
	}

	if _, err := o.leaderboard.AddPoints(ctx, authorID, ranking.PointsComment); err != nil {
		res.Warnings = o.warn("CreateComment", res.Warnings, "comment points not awarded", err)
	}

	return res, nil
}

// CommentView is a comment enriched with its author's display name.
type CommentView struct {
	Comment    *content.Comment `json:"comment"`
	AuthorName string           `json:"author_name,omitempty"`
}

// GetPostComments returns a post's comments oldest first, each enriched with
// the author's display name.
func (o *Orchestrator) GetPostComments(ctx context.Context, postID string) ([]CommentView, error) {
	if _, err := o.documents.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := o.documents.ListPostComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		view := CommentView{Comment: c}
		if u, _, err := o.GetUser(ctx, c.AuthorID); err == nil {
			view.AuthorName = u.FullName
		}
		views = append(views, view)
	}

	return views, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Hot posts
// ─────────────────────────────────────────────────────────────────────────────

// HotPostView is a hot-ranking entry hydrated with the full post and its
// author's display name.
type HotPostView struct {
	Post       *content.Post `json:"post"`
	AuthorName string        `json:"author_name,omitempty"`
	Score      float64       `json:"score"`
}

// GetHotPosts returns the hottest posts first, hydrated from the document
// store. Ranking entries whose post has disappeared are dropped from the
// result.
func (o *Orchestrator) GetHotPosts(ctx context.Context, limit int64) ([]HotPostView, error) {
	if limit <= 0 {
		limit = 10
	}

	entries, err := o.hot.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	views := make([]HotPostView, 0, len(entries))
	for _, e := range entries {
		p, err := o.documents.GetPost(ctx, e.PostID)
		if err != nil {
			if shared.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		view := HotPostView{Post: p, Score: e.Score}
		if u, _, err := o.GetUser(ctx, p.AuthorID); err == nil {
			view.AuthorName = u.FullName
		}
		views = append(views, view)
	}

	return views, nil
}
