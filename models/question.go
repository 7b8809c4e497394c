package models

import (
	"time"
)

// QARecord is one answered question, kept for history and for the
// similar-question context lookup on later asks.
type QARecord struct {
	ID               string    `bson:"_id" json:"id"`
	Question         string    `bson:"question" json:"question"`
	Answer           string    `bson:"answer" json:"answer"`
	RelevantDocument string    `bson:"relevant_document" json:"relevant_document"`
	SessionID        string    `bson:"session_id,omitempty" json:"session_id,omitempty"`
	UserID           string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
}

type QuestionRequest struct {
	Question string `json:"question" binding:"required,min=1,max=2000"`
}

type QuestionResponse struct {
	Answer               string `json:"answer"`
	RelevantDocumentID   string `json:"relevant_document_id,omitempty"`
	RelevantDocumentName string `json:"relevant_document_name,omitempty"`
	Matched              bool   `json:"matched"`
	Score                int    `json:"score"`
}
