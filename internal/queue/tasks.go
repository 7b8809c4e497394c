package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bilgin-backend/internal/config"
	"bilgin-backend/internal/logger"
	"bilgin-backend/models"
	"bilgin-backend/services"
	"bilgin-backend/utils"
)

const TaskExtractDocument = "document:extract"

// ExtractDocumentPayload references a file staged on disk by the upload
// handler. The worker owns the temp file and removes it when done.
type ExtractDocumentPayload struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	FilePath   string `json:"file_path"`
}

func NewExtractDocumentTask(documentID, filename, fileType, filePath string) (*asynq.Task, error) {
	payload, err := json.Marshal(ExtractDocumentPayload{
		DocumentID: documentID,
		Filename:   filename,
		FileType:   fileType,
		FilePath:   filePath,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskExtractDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	), nil
}

// RedisOpt builds the asynq Redis connection options from the shared config.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	if strings.HasPrefix(cfg.RedisURL, "redis://") || strings.HasPrefix(cfg.RedisURL, "rediss://") {
		if opt, err := asynq.ParseRedisURI(cfg.RedisURL); err == nil {
			if clientOpt, ok := opt.(asynq.RedisClientOpt); ok {
				return clientOpt
			}
		}
	}

	return asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewClient returns an asynq client for enqueueing extraction tasks.
func NewClient(cfg *config.Config) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}

// TaskProcessor handles deferred extraction of uploads too large for the
// synchronous request path.
type TaskProcessor struct {
	documents *mongo.Collection
}

func NewTaskProcessor(documents *mongo.Collection) *TaskProcessor {
	return &TaskProcessor{documents: documents}
}

func (p *TaskProcessor) HandleExtractDocument(ctx context.Context, t *asynq.Task) error {
	var payload ExtractDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	logger.Info("Processing deferred extraction", "document_id", payload.DocumentID, "filename", payload.Filename)

	data, err := os.ReadFile(payload.FilePath)
	if err != nil {
		p.markFailed(ctx, payload.DocumentID, "staged file unreadable")
		return fmt.Errorf("read staged file: %v: %w", err, asynq.SkipRetry)
	}

	content, err := services.ExtractText(data, payload.FileType)
	if err != nil {
		p.markFailed(ctx, payload.DocumentID, err.Error())
		os.Remove(payload.FilePath)
		if errors.Is(err, services.ErrExtraction) {
			// Extraction is deterministic; retrying the same bytes cannot succeed
			return fmt.Errorf("extract %s: %v: %w", payload.Filename, err, asynq.SkipRetry)
		}
		return err
	}

	compressed, algorithm, err := utils.CompressText(content)
	if err != nil {
		p.markFailed(ctx, payload.DocumentID, "compression failed")
		os.Remove(payload.FilePath)
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"compressed_content": compressed,
			"compression":        string(algorithm),
			"content_length":     len(content),
			"status":             models.DocStatusCompleted,
		},
		"$unset": bson.M{"error_message": ""},
	}
	if _, err := p.documents.UpdateOne(ctx, bson.M{"_id": payload.DocumentID}, update); err != nil {
		return fmt.Errorf("persist extracted content: %w", err)
	}

	os.Remove(payload.FilePath)
	logger.Info("Deferred extraction completed", "document_id", payload.DocumentID, "content_length", len(content))
	return nil
}

func (p *TaskProcessor) markFailed(ctx context.Context, documentID, message string) {
	_, err := p.documents.UpdateOne(ctx, bson.M{"_id": documentID}, bson.M{
		"$set": bson.M{
			"status":        models.DocStatusFailed,
			"error_message": message,
		},
	})
	if err != nil {
		logger.Error("Failed to mark document as failed", "document_id", documentID, "error", err)
	}
}
