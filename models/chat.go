package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatSession groups the messages of one multi-turn conversation.
type ChatSession struct {
	ID        string             `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// ChatMessage is one question/answer turn inside a session.
type ChatMessage struct {
	ID               string             `bson:"_id" json:"id"`
	SessionID        string             `bson:"session_id" json:"session_id"`
	UserID           primitive.ObjectID `bson:"user_id" json:"user_id"`
	Question         string             `bson:"question" json:"question"`
	Answer           string             `bson:"answer" json:"answer"`
	RelevantDocument string             `bson:"relevant_document,omitempty" json:"relevant_document,omitempty"`
	Timestamp        time.Time          `bson:"timestamp" json:"timestamp"`
}

type ChatRequest struct {
	Question string `json:"question" binding:"required,min=1,max=2000"`
}

type ChatResponse struct {
	Answer               string    `json:"answer"`
	SessionID            string    `json:"session_id"`
	RelevantDocumentName string    `json:"relevant_document_name,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}

type SessionHistory struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
