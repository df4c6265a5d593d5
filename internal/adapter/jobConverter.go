package adapter

import (
	"fmt"
	"time"

	"github.com/smahat/docuchat/internal/api"
	"github.com/smahat/docuchat/internal/domain/commonModels"
	"github.com/smahat/docuchat/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:         string(job.Status),
		AnswerResponse: ToAnswerResponse(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		ChatId:    job.ChatId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToAnswerResponse(payload jobModel.JobPayload) *api.AnswerResponse {
	if payload.Answer == nil {
		return nil
	}

	answer := payload.Answer

	// Sources are the distinct filenames behind the evidence, in rank
	// order.
	var sources []string
	seen := make(map[string]bool)
	for _, chunk := range answer.RelevantChunks {
		name := chunk.Filename
		if name == "" {
			name = chunk.DocumentId
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, name)
	}

	return &api.AnswerResponse{
		Question:    payload.Question,
		Answer:      answer.Response,
		Sources:     sources,
		Intent:      string(answer.Metadata.IntentType),
		Confidence:  answer.Metadata.Confidence,
		Temperature: answer.Metadata.Temperature,
		Strategies:  answer.Metadata.StrategiesUsed,
		FromCache:   answer.Metadata.FromCache,
		Degraded:    answer.Metadata.DegradedVectorIndex || answer.Metadata.DegradedGeneration,
	}
}

func ToDocumentListResponse(summaries []commonModels.DocumentContextSummary) api.DocumentListResponse {
	out := api.DocumentListResponse{Documents: []api.DocumentSummary{}}
	for _, s := range summaries {
		out.Documents = append(out.Documents, api.DocumentSummary{
			DocumentId: s.DocumentId,
			Filename:   s.Filename,
			Summary:    s.Summary,
			KeyTopics:  s.KeyTopics,
			UploadedAt: s.UploadedAt,
		})
	}
	return out
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		ChatId:    "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
