// Command server runs the CampusConnect orchestration service: one API over
// four storage engines, each holding the data it is best at.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campusconnect/campusconnect/config"
	"github.com/campusconnect/campusconnect/internal/application/orchestrator"
	"github.com/campusconnect/campusconnect/internal/application/recommend"
	"github.com/campusconnect/campusconnect/internal/cache"
	"github.com/campusconnect/campusconnect/internal/infrastructure/persistence/mongo"
	"github.com/campusconnect/campusconnect/internal/infrastructure/persistence/neo4j"
	"github.com/campusconnect/campusconnect/internal/infrastructure/persistence/postgres"
	"github.com/campusconnect/campusconnect/internal/infrastructure/persistence/redis"
	httpapi "github.com/campusconnect/campusconnect/internal/interface/http"
	"github.com/campusconnect/campusconnect/internal/ranking"
	"github.com/campusconnect/campusconnect/internal/stream"
	"github.com/campusconnect/campusconnect/pkg/logger"
	"github.com/campusconnect/campusconnect/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(string(cfg.App.Environment)); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", string(cfg.App.Environment)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────────
	// Connect the four stores. Engines started alongside the service may take
	// a few seconds to accept traffic, so each connection retries with
	// backoff.
	// ─────────────────────────────────────────────────────────────────────────
	retrier := retry.ConnectRetrier()

	var pg *postgres.Connection
	err = retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		pg, err = postgres.NewConnection(ctx, cfg.Postgres)
		return err
	})
	if err != nil {
		log.Fatal("relational store unavailable", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		log.Fatal("schema migration failed", zap.Error(err))
	}

	var mg *mongo.Connection
	err = retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		mg, err = mongo.NewConnection(ctx, cfg.Mongo)
		return err
	})
	if err != nil {
		log.Fatal("document store unavailable", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mg.Close(shutdownCtx)
	}()

	if err := mg.EnsureIndexes(ctx); err != nil {
		log.Fatal("document index bootstrap failed", zap.Error(err))
	}

	var graphStore *neo4j.Store
	err = retrier.Do(ctx, func(ctx context.Context) error {
		driver, err := neo4j.NewDriver(ctx, cfg.Neo4j)
		if err != nil {
			return err
		}
		graphStore = neo4j.NewStore(driver)
		return nil
	})
	if err != nil {
		log.Fatal("graph store unavailable", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = graphStore.Close(shutdownCtx)
	}()

	var fast *redis.Store
	err = retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		fast, err = redis.NewStore(ctx, cfg.Redis)
		return err
	})
	if err != nil {
		log.Fatal("fast store unavailable", zap.Error(err))
	}
	defer fast.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// Wire the orchestration layer.
	// ─────────────────────────────────────────────────────────────────────────
	relational := postgres.NewStore(pg)
	documents := mongo.NewStore(mg)

	entityCache := cache.New(fast, cfg.Cache.EntityTTL)
	activityStream := stream.New(fast, cfg.Cache.ActivityMaxEntries)
	leaderboard := ranking.NewLeaderboard(fast)
	hot := ranking.NewHotItems(fast)

	orch := orchestrator.New(relational, documents, graphStore, entityCache, activityStream, leaderboard, hot)
	recommender := recommend.New(relational, graphStore, entityCache, leaderboard, activityStream)

	server := httpapi.NewServer(cfg.HTTP, cfg.App.Environment, httpapi.Dependencies{
		Orchestrator: orch,
		Recommender:  recommender,
		Fast:         fast,
		Health: map[string]httpapi.HealthChecker{
			"postgres": pg,
			"mongodb":  mg,
			"neo4j":    graphStore,
			"redis":    fast,
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", zap.Error(err))
	}

	log.Info("stopped")
}
