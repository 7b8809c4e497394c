package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bilgin-backend/internal/config"
	"bilgin-backend/internal/logger"
	"bilgin-backend/internal/queue"
	"bilgin-backend/internal/telemetry"
	"bilgin-backend/middleware"
	"bilgin-backend/models"
	"bilgin-backend/services"
	"bilgin-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client,
	queueClient *asynq.Client, metrics *telemetry.Metrics,
	authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {

	db := mongoClient.Database(cfg.DBName)
	documentsCollection := db.Collection("documents")

	api := router.Group("/api")

	// Upload a document. Files above the sync limit are staged to disk and
	// handed to the extraction worker; the caller polls the listing for status.
	api.POST("/upload", authMiddleware.RequireAuth(), func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "file_too_large",
				"message":    "File size exceeds maximum limit",
			})
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "no_file",
				"message":    "No file provided",
			})
			return
		}
		defer file.Close()

		if header.Size > cfg.MaxFileSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "file_too_large",
				"message":    "File size exceeds maximum limit",
			})
			return
		}

		fileType := detectFileType(header.Header.Get("Content-Type"), header.Filename)
		if fileType == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "unsupported_file_type",
				"message":    "Only PDF, DOCX and TXT files are supported",
			})
			return
		}

		documentID := uuid.NewString()
		now := time.Now()

		if header.Size > cfg.SyncProcessingLimit {
			handleDeferredUpload(c, cfg, documentsCollection, queueClient, file, header.Filename, fileType, documentID, now)
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, cfg.MaxFileSize))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", nil)
			return
		}

		start := time.Now()
		content, err := services.ExtractText(data, fileType)
		metrics.RecordExtraction(fileType, time.Since(start).Seconds(), err == nil)
		if err != nil {
			if errors.Is(err, services.ErrExtraction) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error_code": "extraction_failed",
					"message":    "Could not extract text from the file",
					"details":    gin.H{"error": err.Error()},
				})
				return
			}
			utils.RespondWithInternalError(c, "Failed to process file", nil)
			return
		}

		compressed, algorithm, err := utils.CompressText(content)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to store document content", nil)
			return
		}

		document := models.Document{
			ID:                documentID,
			Filename:          header.Filename,
			CompressedContent: compressed,
			Compression:       string(algorithm),
			FileType:          fileType,
			ContentLength:     len(content),
			UploadDate:        now,
			OwnerID:           middleware.GetUserID(c),
			Status:            models.DocStatusCompleted,
		}

		if _, err := documentsCollection.InsertOne(context.Background(), document); err != nil {
			utils.RespondWithInternalError(c, "Failed to save document", nil)
			return
		}

		logger.Info("Document uploaded", "document_id", documentID, "filename", header.Filename, "file_type", fileType, "content_length", len(content))

		c.JSON(http.StatusCreated, models.UploadResponse{
			Message:       "Document uploaded",
			DocumentID:    documentID,
			Filename:      header.Filename,
			FileType:      fileType,
			ContentLength: len(content),
		})
	})

	// List documents, newest first, without content.
	api.GET("/documents", authMiddleware.RequireAuth(), func(c *gin.Context) {
		cursor, err := documentsCollection.Find(
			context.Background(),
			bson.M{},
			options.Find().
				SetSort(bson.M{"upload_date": -1}).
				SetProjection(bson.M{"content": 0, "compressed_content": 0}),
		)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to retrieve documents", nil)
			return
		}
		defer cursor.Close(context.Background())

		var docs []models.Document
		if err := cursor.All(context.Background(), &docs); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode documents", nil)
			return
		}

		infos := make([]models.DocumentInfo, 0, len(docs))
		for _, d := range docs {
			infos = append(infos, models.DocumentInfo{
				ID:            d.ID,
				Filename:      d.Filename,
				FileType:      d.FileType,
				UploadDate:    d.UploadDate,
				ContentLength: d.ContentLength,
				Status:        d.Status,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"documents": infos,
			"total":     len(infos),
		})
	})

	// Delete a document. Admin only.
	api.DELETE("/documents/:id", authMiddleware.RequireAuth(), roleMiddleware.AdminGuard(), func(c *gin.Context) {
		documentID := c.Param("id")

		result, err := documentsCollection.DeleteOne(context.Background(), bson.M{"_id": documentID})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete document", nil)
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "Document not found")
			return
		}

		logger.Info("Document deleted", "document_id", documentID, "deleted_by", middleware.GetUserID(c))

		c.JSON(http.StatusOK, gin.H{"message": "Document deleted", "document_id": documentID})
	})
}

func handleDeferredUpload(c *gin.Context, cfg *config.Config, documentsCollection *mongo.Collection,
	queueClient *asynq.Client, file io.Reader, filename, fileType, documentID string, now time.Time) {

	if err := os.MkdirAll(cfg.UploadStagingDir, 0755); err != nil {
		utils.RespondWithInternalError(c, "Failed to stage file", nil)
		return
	}

	stagedPath := filepath.Join(cfg.UploadStagingDir, documentID+"."+fileType)
	dst, err := os.OpenFile(stagedPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		utils.RespondWithInternalError(c, "Failed to stage file", nil)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, cfg.MaxFileSize)); err != nil {
		os.Remove(stagedPath)
		utils.RespondWithInternalError(c, "Failed to stage file", nil)
		return
	}

	document := models.Document{
		ID:         documentID,
		Filename:   filename,
		FileType:   fileType,
		UploadDate: now,
		OwnerID:    middleware.GetUserID(c),
		Status:     models.DocStatusProcessing,
	}
	if _, err := documentsCollection.InsertOne(context.Background(), document); err != nil {
		os.Remove(stagedPath)
		utils.RespondWithInternalError(c, "Failed to save document", nil)
		return
	}

	task, err := queue.NewExtractDocumentTask(documentID, filename, fileType, stagedPath)
	if err != nil {
		cleanupDeferredUpload(documentsCollection, documentID, stagedPath)
		utils.RespondWithInternalError(c, "Failed to create extraction task", nil)
		return
	}

	info, err := queueClient.Enqueue(task)
	if err != nil {
		cleanupDeferredUpload(documentsCollection, documentID, stagedPath)
		utils.RespondWithInternalError(c, "Failed to enqueue extraction task", nil)
		return
	}

	logger.Info("Upload deferred to worker", "document_id", documentID, "filename", filename, "task_id", info.ID)

	c.JSON(http.StatusAccepted, models.UploadResponse{
		Message:    "Document accepted for processing",
		DocumentID: documentID,
		Filename:   filename,
		FileType:   fileType,
		TaskID:     info.ID,
	})
}

func cleanupDeferredUpload(documentsCollection *mongo.Collection, documentID, stagedPath string) {
	os.Remove(stagedPath)
	documentsCollection.DeleteOne(context.Background(), bson.M{"_id": documentID})
}

// detectFileType maps the declared MIME type to a storage type, falling back
// to the filename extension when the client sent a generic content type.
func detectFileType(contentType, filename string) string {
	ct := contentType
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	ct = strings.TrimSpace(ct)

	if fileType, ok := models.AllowedFileTypes[ct]; ok {
		return fileType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf"
	case ".docx":
		return "docx"
	case ".txt":
		return "txt"
	}
	return ""
}
