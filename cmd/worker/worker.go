package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"bilgin-backend/internal/config"
	"bilgin-backend/internal/logger"
	"bilgin-backend/internal/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(context.Background())

	documents := mongoClient.Database(cfg.DBName).Collection("documents")

	server := asynq.NewServer(
		queue.RedisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(documents)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskExtractDocument, processor.HandleExtractDocument)

	logger.Info("Starting extraction worker", "redis", cfg.RedisURL)

	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
