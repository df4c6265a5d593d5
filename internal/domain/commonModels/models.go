package commonModels

import "time"

type Document struct {
	Id         string    `json:"document_id"`
	UserId     string    `json:"user_id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
	Type       DocType   `json:"content_type"`
}

// DocumentChunk is immutable once created and owned by its document.
// It is destroyed when the parent document is deleted.
type DocumentChunk struct {
	Id            string   `json:"chunk_id"`
	DocumentId    string   `json:"document_id"`
	Text          string   `json:"text"`
	Ordinal       int      `json:"ordinal"`
	CharStart     int      `json:"char_start"`
	CharLen       int      `json:"char_len"`
	ContextBefore string   `json:"context_before,omitempty"`
	ContextAfter  string   `json:"context_after,omitempty"`
	Doc           Document `json:"document_metadata"`
}

// DocumentContextSummary is created at ingestion time, one per stored
// document per user, and deleted with the document.
type DocumentContextSummary struct {
	DocumentId string    `json:"document_id"`
	Filename   string    `json:"filename"`
	Summary    string    `json:"summary"`
	KeyTopics  []string  `json:"key_topics"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"
