// Package orchestrator coordinates writes and reads across the four storage
// engines. Every mutation follows the same propagation order: the
// authoritative store first, then the graph mirror, then fast-store side
// effects. There are no cross-store transactions; when a derived store fails
// after the authoritative write succeeded, the operation still succeeds and
// reports what was skipped in its warnings.
package orchestrator

import (
	"go.uber.org/zap"

	"github.com/campusconnect/campusconnect/internal/cache"
	"github.com/campusconnect/campusconnect/internal/ranking"
	"github.com/campusconnect/campusconnect/internal/store"
	"github.com/campusconnect/campusconnect/internal/stream"
	"github.com/campusconnect/campusconnect/pkg/logger"
)

// Orchestrator owns the cross-store workflows. It never retries or rolls
// back: authoritative failures abort the operation, derived failures degrade
// it.
type Orchestrator struct {
	relational store.RelationalStore
	documents  store.DocumentStore
	graph      store.GraphStore

	cache       *cache.Cache
	activity    *stream.Stream
	leaderboard *ranking.Leaderboard
	hot         *ranking.HotItems

	log *zap.Logger
}

// New wires an Orchestrator over the four stores and the derived structures.
func New(
	relational store.RelationalStore,
	documents store.DocumentStore,
	graph store.GraphStore,
	entityCache *cache.Cache,
	activityStream *stream.Stream,
	leaderboard *ranking.Leaderboard,
	hot *ranking.HotItems,
) *Orchestrator {
	return &Orchestrator{
		relational:  relational,
		documents:   documents,
		graph:       graph,
		cache:       entityCache,
		activity:    activityStream,
		leaderboard: leaderboard,
		hot:         hot,
		log:         logger.Get(),
	}
}

// warn records a degraded side effect: the skipped step is logged and added
// to the operation's warning list.
func (o *Orchestrator) warn(op string, warnings []string, message string, err error) []string {
	o.log.Warn("derived store side effect skipped",
		zap.String("op", op),
		zap.String("effect", message),
		zap.Error(err),
	)
	return append(warnings, message)
}
