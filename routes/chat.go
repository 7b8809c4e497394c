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
	"bilgin-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupChatRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client,
	generator *ai.Generator, metrics *telemetry.Metrics, authMiddleware *middleware.AuthMiddleware) {

	db := mongoClient.Database(cfg.DBName)
	documentsCollection := db.Collection("documents")
	questionsCollection := db.Collection("questions")
	sessionsCollection := db.Collection("chat_sessions")
	messagesCollection := db.Collection("chat_messages")

	chat := router.Group("/chat")
	chat.Use(authMiddleware.RequireAuth())

	// Create a new chat session
	chat.POST("/sessions", func(c *gin.Context) {
		userID, ok := currentUserObjectID(c)
		if !ok {
			return
		}

		// Body is optional; a session does not need a title
		var req struct {
			Title string `json:"title"`
		}
		_ = c.ShouldBindJSON(&req)
		if len(req.Title) > 200 {
			req.Title = req.Title[:200]
		}

		now := time.Now()
		session := models.ChatSession{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     req.Title,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := sessionsCollection.InsertOne(context.Background(), session); err != nil {
			utils.RespondWithInternalError(c, "Failed to create session", nil)
			return
		}

		c.JSON(http.StatusCreated, session)
	})

	// List the caller's sessions, most recently active first
	chat.GET("/sessions", func(c *gin.Context) {
		userID, ok := currentUserObjectID(c)
		if !ok {
			return
		}

		cursor, err := sessionsCollection.Find(
			context.Background(),
			bson.M{"user_id": userID},
			options.Find().SetSort(bson.M{"updated_at": -1}),
		)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to retrieve sessions", nil)
			return
		}
		defer cursor.Close(context.Background())

		sessions := make([]models.ChatSession, 0)
		if err := cursor.All(context.Background(), &sessions); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode sessions", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"sessions": sessions,
			"total":    len(sessions),
		})
	})

	// Full history of one session
	chat.GET("/sessions/:id", func(c *gin.Context) {
		userID, ok := currentUserObjectID(c)
		if !ok {
			return
		}

		session, ok := ownedSession(c, sessionsCollection, userID)
		if !ok {
			return
		}

		cursor, err := messagesCollection.Find(
			context.Background(),
			bson.M{"session_id": session.ID},
			options.Find().SetSort(bson.M{"timestamp": 1}),
		)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to retrieve messages", nil)
			return
		}
		defer cursor.Close(context.Background())

		messages := make([]models.ChatMessage, 0)
		if err := cursor.All(context.Background(), &messages); err != nil {
			utils.RespondWithInternalError(c, "Failed to decode messages", nil)
			return
		}

		c.JSON(http.StatusOK, models.SessionHistory{
			SessionID: session.ID,
			Messages:  messages,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		})
	})

	// Send a question inside a session. Retrieval works exactly like /api/ask,
	// with the session's recent turns appended to the prompt context.
	chat.POST("/sessions/:id/messages", func(c *gin.Context) {
		userID, ok := currentUserObjectID(c)
		if !ok {
			return
		}

		session, ok := ownedSession(c, sessionsCollection, userID)
		if !ok {
			return
		}

		var req models.ChatRequest
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

		history := sessionHistoryExamples(messagesCollection, session.ID, cfg.SessionHistoryLimit)
		content := relevance.AugmentWithExamples(retrieval.Content, history)

		ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
		defer cancel()

		answer, err := generator.GenerateAnswer(ctx, question, content)
		generated := err == nil
		if err != nil {
			if !errors.Is(err, ai.ErrGeneration) {
				utils.RespondWithInternalError(c, "Failed to generate answer", nil)
				return
			}
			answer = ai.ApologyMessage
		}

		now := time.Now()
		message := models.ChatMessage{
			ID:               uuid.NewString(),
			SessionID:        session.ID,
			UserID:           userID,
			Question:         question,
			Answer:           answer,
			RelevantDocument: retrieval.DocumentName,
			Timestamp:        now,
		}
		if _, err := messagesCollection.InsertOne(context.Background(), message); err != nil {
			utils.RespondWithInternalError(c, "Failed to save message", nil)
			return
		}

		sessionsCollection.UpdateOne(
			context.Background(),
			bson.M{"_id": session.ID},
			bson.M{"$set": bson.M{"updated_at": now}},
		)

		if generated {
			metrics.RecordTokensUsed(int64(ai.EstimateTokens(question+content+answer)), cfg.GeminiModel)

			record := models.QARecord{
				ID:               uuid.NewString(),
				Question:         question,
				Answer:           answer,
				RelevantDocument: retrieval.DocumentName,
				SessionID:        session.ID,
				UserID:           userID.Hex(),
				Timestamp:        now,
			}
			if _, err := questionsCollection.InsertOne(context.Background(), record); err != nil {
				logger.Error("Failed to save question record", "session_id", session.ID, "error", err)
			}
		}

		c.JSON(http.StatusOK, models.ChatResponse{
			Answer:               answer,
			SessionID:            session.ID,
			RelevantDocumentName: retrieval.DocumentName,
			Timestamp:            now,
		})
	})
}

func currentUserObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	userID := middleware.GetUserID(c)
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "invalid_user_id",
			"message":    "Invalid user ID format",
		})
		return primitive.NilObjectID, false
	}
	return objID, true
}

func ownedSession(c *gin.Context, sessionsCollection *mongo.Collection, userID primitive.ObjectID) (*models.ChatSession, bool) {
	sessionID := c.Param("id")

	var session models.ChatSession
	err := sessionsCollection.FindOne(
		context.Background(),
		bson.M{"_id": sessionID, "user_id": userID},
	).Decode(&session)
	if err != nil {
		utils.RespondWithNotFound(c, "Session not found")
		return nil, false
	}
	return &session, true
}

// sessionHistoryExamples returns the last N turns of the session in
// chronological order, shaped as Q&A examples for the prompt.
func sessionHistoryExamples(messagesCollection *mongo.Collection, sessionID string, limit int) []models.QARecord {
	if limit <= 0 {
		return nil
	}

	cursor, err := messagesCollection.Find(
		context.Background(),
		bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil
	}
	defer cursor.Close(context.Background())

	var messages []models.ChatMessage
	if err := cursor.All(context.Background(), &messages); err != nil {
		return nil
	}

	examples := make([]models.QARecord, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		examples = append(examples, models.QARecord{
			Question: messages[i].Question,
			Answer:   messages[i].Answer,
		})
	}
	return examples
}
