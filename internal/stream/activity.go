// Package stream maintains per-group recent-activity streams on the fast
// store. Each stream is a bounded list of JSON-encoded activity entries,
// newest first; entries that fall off the bound are gone for good, which is
// acceptable because the stream is a derived convenience view.
package stream

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/campusconnect/campusconnect/internal/domain/activity"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/store"
)

// Stream writes and reads bounded activity lists.
type Stream struct {
	fast   store.FastStore
	maxLen int64
}

// New creates a Stream over the fast store. maxLen bounds each group's list.
func New(fast store.FastStore, maxLen int64) *Stream {
	return &Stream{fast: fast, maxLen: maxLen}
}

// Key builds the stream key for a group.
func Key(groupID string) string {
	return "recent:group:" + groupID
}

// Push prepends an activity entry to the group's stream, trimming it to the
// configured bound.
func (s *Stream) Push(ctx context.Context, groupID string, a *activity.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return shared.WrapError("activity", "Push", shared.ErrValidation, "marshal failed", err)
	}

	return s.fast.LPushTrim(ctx, Key(groupID), data, s.maxLen)
}

// Recent returns up to limit entries from the group's stream, newest first.
// Entries that fail to decode are skipped.
func (s *Stream) Recent(ctx context.Context, groupID string, limit int64) ([]*activity.Activity, error) {
	if limit <= 0 || limit > s.maxLen {
		limit = s.maxLen
	}

	raw, err := s.fast.LRange(ctx, Key(groupID), 0, limit-1)
	if err != nil {
		return nil, err
	}

	entries := make([]*activity.Activity, 0, len(raw))
	for _, data := range raw {
		var a activity.Activity
		if err := json.Unmarshal(data, &a); err != nil {
			continue
		}
		entries = append(entries, &a)
	}

	return entries, nil
}

// RecentForUser merges the streams of the given groups into one timeline,
// newest first, truncated to limit. The merge is a fan-out over each group's
// stream; a group whose stream cannot be read contributes nothing.
func (s *Stream) RecentForUser(ctx context.Context, groupIDs []string, limit int64) ([]*activity.Activity, error) {
	if limit <= 0 || limit > s.maxLen {
		limit = s.maxLen
	}

	var merged []*activity.Activity
	for _, groupID := range groupIDs {
		entries, err := s.Recent(ctx, groupID, limit)
		if err != nil {
			continue
		}
		merged = append(merged, entries...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})

	if int64(len(merged)) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}
