package ranking

import (
	"context"

	"github.com/campusconnect/campusconnect/internal/store"
)

// HotPost is one entry in the hot-posts ranking.
type HotPost struct {
	PostID string  `json:"post_id"`
	Score  float64 `json:"score"`
}

// HotItems tracks post recency. The score is an externally supplied ordering
// key (wall-clock time at creation); promoting again with a higher score
// supersedes the post's position. Deleting a post removes it.
type HotItems struct {
	fast store.FastStore
}

// NewHotItems creates a HotItems ranking over the fast store.
func NewHotItems(fast store.FastStore) *HotItems {
	return &HotItems{fast: fast}
}

// Promote ranks a post at the given score, replacing any earlier score.
func (h *HotItems) Promote(ctx context.Context, postID string, score float64) error {
	return h.fast.ZAdd(ctx, HotPostsKey, postID, score)
}

// Remove drops a post from the ranking. Removing an unranked post is a no-op.
func (h *HotItems) Remove(ctx context.Context, postID string) error {
	return h.fast.ZRem(ctx, HotPostsKey, postID)
}

// Top returns the highest-scored posts, hottest first.
func (h *HotItems) Top(ctx context.Context, limit int64) ([]HotPost, error) {
	members, err := h.fast.ZRevRange(ctx, HotPostsKey, 0, limit-1)
	if err != nil {
		return nil, err
	}

	posts := make([]HotPost, 0, len(members))
	for _, m := range members {
		posts = append(posts, HotPost{PostID: m.Member, Score: m.Score})
	}
	return posts, nil
}
