package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatId    string            `json:"chat_id" example:"chat_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

// AnswerResponse is the external shape of a completed query job.
type AnswerResponse struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources,omitempty"`
	Intent      string   `json:"intent,omitempty" example:"question"`
	Confidence  float64  `json:"confidence,omitempty" example:"0.7"`
	Temperature float32  `json:"temperature,omitempty" example:"0.5"`
	Strategies  []string `json:"strategies_used,omitempty"`
	FromCache   bool     `json:"from_cache,omitempty"`
	Degraded    bool     `json:"degraded,omitempty"`
}

type Result struct {
	Status         string          `json:"status"`
	AnswerResponse *AnswerResponse `json:"answer,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// DocumentSummary is one entry of the documents listing.
type DocumentSummary struct {
	DocumentId string    `json:"document_id"`
	Filename   string    `json:"filename"`
	Summary    string    `json:"summary,omitempty"`
	KeyTopics  []string  `json:"key_topics,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DocumentListResponse struct {
	Documents []DocumentSummary `json:"documents"`
}

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required" `
	ChatID  string `json:"chatID,omitempty" `
	UserID  string `json:"userID,omitempty" `
}
type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}
