package models

import (
	"time"
)

// Document is an ingested file after text extraction. Content is immutable
// once stored; only insertion and deletion exist.
type Document struct {
	ID                string    `bson:"_id" json:"id"`
	Filename          string    `bson:"filename" json:"filename"`
	Content           string    `bson:"content,omitempty" json:"-"`
	CompressedContent []byte    `bson:"compressed_content,omitempty" json:"-"`
	Compression       string    `bson:"compression,omitempty" json:"-"`
	FileType          string    `bson:"file_type" json:"file_type"` // pdf, docx, txt
	ContentLength     int       `bson:"content_length" json:"content_length"`
	UploadDate        time.Time `bson:"upload_date" json:"upload_date"`
	OwnerID           string    `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	Status            string    `bson:"status" json:"status"` // completed, processing, failed
	ErrorMessage      string    `bson:"error_message,omitempty" json:"error_message,omitempty"`
}

// DocumentInfo is the listing view without content.
type DocumentInfo struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	FileType      string    `json:"file_type"`
	UploadDate    time.Time `json:"upload_date"`
	ContentLength int       `json:"content_length"`
	Status        string    `json:"status"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Message       string `json:"message"`
	DocumentID    string `json:"document_id"`
	Filename      string `json:"filename"`
	FileType      string `json:"file_type"`
	ContentLength int    `json:"content_length"`
	TaskID        string `json:"task_id,omitempty"` // set when extraction was deferred to the worker
}

// Document processing status constants
const (
	DocStatusProcessing = "processing"
	DocStatusCompleted  = "completed"
	DocStatusFailed     = "failed"
)

// Supported upload types, keyed by declared MIME type.
var AllowedFileTypes = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"text/plain": "txt",
}
