package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/prateekgoyal/proposalhub/internal/analytics"
	"github.com/prateekgoyal/proposalhub/internal/cache"
	"github.com/prateekgoyal/proposalhub/internal/config"
	"github.com/prateekgoyal/proposalhub/internal/database"
	"github.com/prateekgoyal/proposalhub/internal/queue"
	"github.com/prateekgoyal/proposalhub/internal/queue/workers"
	"github.com/prateekgoyal/proposalhub/internal/search"

	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", cfg.Database.Path)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	builder := search.NewBuilder(db, cache.NewCache(rdb), cfg.Search.StaleAfter)

	analyticsWorker := workers.NewAnalyticsWorker(analytics.NewSyncRecorder(db))
	indexWorker := workers.NewIndexWorker(builder)

	registry.Register(queue.TypeAnalyticsRecord, asynq.HandlerFunc(analyticsWorker.ProcessTask))
	registry.Register(queue.TypeIndexRebuild, asynq.HandlerFunc(indexWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
