package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pubreview/internal/pubreview/activity"
	"pubreview/internal/pubreview/auth"
	"pubreview/internal/pubreview/config"
	"pubreview/internal/pubreview/handler"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/repository"
	"pubreview/internal/pubreview/router"
	"pubreview/internal/pubreview/service"
	"pubreview/internal/pubreview/util"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		util.GetLogger().Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	util.InitLogger(cfg.LogLevel, cfg.LogFormat)
	logger := util.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	repo := repository.NewMongoRepository(client.Database(cfg.DBName))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure indexes", "error", err)
	}

	redisClient, err := auth.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenService(cfg, auth.NewRedisRefreshStore(redisClient))
	recorder := activity.NewRecorder(repo, logger)
	p := pipeline.New(tokens, repo, recorder, logger)
	h := handler.NewHandler(p, service.NewService(repo, tokens, logger))

	e := router.New(router.Options{
		Config:  cfg,
		Logger:  logger,
		Handler: h,
		Checks: map[string]router.Check{
			"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis", "error", err)
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("Failed to disconnect DB", "error", err)
	}

	logger.Info("Server exited properly")
}
