package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pubreview/internal/pubreview/config"
	"pubreview/internal/pubreview/jobs"
	"pubreview/internal/pubreview/repository"
	"pubreview/internal/pubreview/util"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		util.GetLogger().Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	util.InitLogger(cfg.LogLevel, cfg.LogFormat)
	logger := util.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect DB", "error", err)
		}
	}()
	repo := repository.NewMongoRepository(client.Database(cfg.DBName))

	sweepTask, err := jobs.NewActivitySweepTask(0)
	if err != nil {
		logger.Error("Failed to build sweep task", "error", err)
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		Logger: logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskActivitySweep, Handler: jobs.NewActivitySweepJob(repo, cfg.ActivitySweepAge, logger).Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ActivitySweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3), asynq.Unique(time.Minute)}},
		},
	})
	if err != nil {
		logger.Error("Failed to init worker", "error", err)
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
}
