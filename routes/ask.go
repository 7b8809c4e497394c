package routes

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bilgin-backend/internal/ai"
	"bilgin-backend/internal/config"
	"bilgin-backend/internal/logger"
	"bilgin-backend/internal/relevance"
	"bilgin-backend/internal/telemetry"
	"bilgin-backend/middleware"
	"bilgin-backend/models"
	"bilgin-backend/services"
	"bilgin-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const generationTimeout = 60 * time.Second

func SetupQuestionRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client,
	generator *ai.Generator, metrics *telemetry.Metrics, authMiddleware *middleware.AuthMiddleware) {

	db := mongoClient.Database(cfg.DBName)
	documentsCollection := db.Collection("documents")
	questionsCollection := db.Collection("questions")

	api := router.Group("/api")

	// Ask a question. Works without authentication; when a user is logged in
	// the Q&A record is attributed to them.
	api.POST("/ask", authMiddleware.OptionalAuth(), func(c *gin.Context) {
		var req models.QuestionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "Invalid request data",
				"details":    gin.H{"error": err.Error()},
			})
			return
		}

		question := strings.TrimSpace(req.Question)
		if question == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "empty_question",
				"message":    "Question cannot be empty",
			})
			return
		}

		retrieval, err := retrieveContext(context.Background(), cfg, documentsCollection, questionsCollection, question, metrics)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to search documents", nil)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
		defer cancel()

		answer, err := generator.GenerateAnswer(ctx, question, retrieval.Content)
		if err != nil {
			if errors.Is(err, ai.ErrGeneration) {
				// Failed generations are not persisted so they never surface
				// as similar-question examples later
				c.JSON(http.StatusOK, models.QuestionResponse{
					Answer:               ai.ApologyMessage,
					RelevantDocumentID:   retrieval.DocumentID,
					RelevantDocumentName: retrieval.DocumentName,
					Matched:              retrieval.Matched,
					Score:                retrieval.Score,
				})
				return
			}
			utils.RespondWithInternalError(c, "Failed to generate answer", nil)
			return
		}

		metrics.RecordTokensUsed(int64(ai.EstimateTokens(question+retrieval.Content+answer)), cfg.GeminiModel)

		record := models.QARecord{
			ID:               uuid.NewString(),
			Question:         question,
			Answer:           answer,
			RelevantDocument: retrieval.DocumentName,
			UserID:           middleware.GetUserID(c),
			Timestamp:        time.Now(),
		}
		if _, err := questionsCollection.InsertOne(context.Background(), record); err != nil {
			logger.Error("Failed to save question record", "error", err)
		}

		c.JSON(http.StatusOK, models.QuestionResponse{
			Answer:               answer,
			RelevantDocumentID:   retrieval.DocumentID,
			RelevantDocumentName: retrieval.DocumentName,
			Matched:              retrieval.Matched,
			Score:                retrieval.Score,
		})
	})

	// Question history, newest first.
	api.GET("/questions", authMiddleware.RequireAuth(), func(c *gin.Context) {
		cursor, err := questionsCollection.Find(
			context.Background(),
			bson.M{},
			options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(50),
		)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to retrieve questions", nil)
			return
		}
		defer cursor.Close(context.Background())

		records := make([]models.QARecord, 0)
		if err := cursor.All(context.Background(), &records); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode questions", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"questions": records,
			"total":     len(records),
		})
	})

	// Export the full Q&A history as an XLSX workbook.
	api.GET("/export", authMiddleware.RequireAuth(), func(c *gin.Context) {
		cursor, err := questionsCollection.Find(
			context.Background(),
			bson.M{},
			options.Find().SetSort(bson.M{"timestamp": -1}),
		)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to retrieve questions", nil)
			return
		}
		defer cursor.Close(context.Background())

		records := make([]models.QARecord, 0)
		if err := cursor.All(context.Background(), &records); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode questions", nil)
			return
		}

		workbook, err := services.BuildQAExport(records)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to build export", nil)
			return
		}

		filename := "soru-gecmisi-" + time.Now().Format("2006-01-02") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			workbook)
	})
}

// retrievalResult carries what the scorer decided for one question.
type retrievalResult struct {
	Content      string
	Matched      bool
	Score        int
	DocumentID   string
	DocumentName string
}

// retrieveContext snapshots the corpus, scores it, and assembles the prompt
// context: the winning document augmented with similar prior Q&A on a match,
// recent-document excerpts on a miss, nothing when the corpus is empty.
func retrieveContext(ctx context.Context, cfg *config.Config, documentsCollection, questionsCollection *mongo.Collection,
	question string, metrics *telemetry.Metrics) (retrievalResult, error) {

	corpus, err := loadCorpus(ctx, documentsCollection)
	if err != nil {
		return retrievalResult{}, err
	}

	start := time.Now()
	result := relevance.FindBestMatch(question, corpus, scoringConfig(cfg))
	metrics.RecordQuestion(result.Matched, time.Since(start).Seconds())

	retrieval := retrievalResult{
		Matched: result.Matched,
		Score:   result.Score,
	}

	if result.Matched {
		retrieval.DocumentID = result.Document.ID
		retrieval.DocumentName = result.Document.Filename
		retrieval.Content = relevance.AugmentWithExamples(
			result.Document.Content,
			similarQuestions(ctx, questionsCollection, question, cfg.SimilarQuestionLimit),
		)
		return retrieval, nil
	}

	if len(corpus) > 0 {
		retrieval.DocumentName = relevance.FallbackSourceLabel
		retrieval.Content = relevance.AssembleFallbackContext(corpus, cfg.FallbackMaxDocs, cfg.FallbackPrefixLen)
	}

	return retrieval, nil
}

// loadCorpus reads all completed documents with content restored, ordered by
// upload date so scoring ties resolve to the earliest upload.
func loadCorpus(ctx context.Context, documentsCollection *mongo.Collection) ([]models.Document, error) {
	cursor, err := documentsCollection.Find(
		ctx,
		bson.M{"status": models.DocStatusCompleted},
		options.Find().SetSort(bson.M{"upload_date": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	corpus := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		if len(doc.CompressedContent) > 0 {
			content, err := utils.DecompressText(doc.CompressedContent, utils.CompressionAlgorithm(doc.Compression))
			if err != nil {
				logger.Error("Failed to decompress document", "document_id", doc.ID, "error", err)
				continue
			}
			doc.Content = content
		}
		if doc.Content == "" {
			continue
		}
		corpus = append(corpus, doc)
	}

	return corpus, nil
}

// similarQuestions finds prior Q&A pairs resembling the question via the
// Mongo text index. Lookup failures degrade to no examples.
func similarQuestions(ctx context.Context, questionsCollection *mongo.Collection, question string, limit int) []models.QARecord {
	if limit <= 0 {
		return nil
	}

	cursor, err := questionsCollection.Find(
		ctx,
		bson.M{"$text": bson.M{"$search": question}},
		options.Find().
			SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		logger.Debug("Similar question lookup failed", "error", err)
		return nil
	}
	defer cursor.Close(ctx)

	var records []models.QARecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil
	}
	return records
}

// scoringConfig maps the env-tunable weights onto the scorer configuration.
func scoringConfig(cfg *config.Config) relevance.Config {
	scoring := relevance.Config{
		WordWeight:     cfg.ScoreWordWeight,
		PhraseWeight:   cfg.ScorePhraseWeight,
		FilenameWeight: cfg.ScoreFilenameWeight,
		PDFBonus:       cfg.ScorePDFBonus,
		MinScore:       cfg.ScoreMinScore,
		Stopwords:      relevance.StopwordSet(relevance.DefaultStopwords),
	}
	if len(cfg.Stopwords) > 0 {
		scoring.Stopwords = relevance.StopwordSet(cfg.Stopwords)
	}
	return scoring
}
