package handlers

import (
	"net/http"

	"github.com/smahat/docuchat/internal/adapter"
	"github.com/smahat/docuchat/internal/adapter/utils"
	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/rag/docstore"
	"github.com/smahat/docuchat/internal/rag/vectorindex"
)

var documentStore docstore.Store
var documentIndex vectorindex.Index

func InitDocumentHandler(store docstore.Store, index vectorindex.Index) {
	documentStore = store
	documentIndex = index
}

// ListDocumentsHandler godoc
// @Summary      List uploaded documents
// @Description  Returns the caller's uploaded documents with their context summaries and key topics.
// @Tags         Documents
// @Produce      json
// @Param        user_id  query     string  false  "User whose documents to list"
// @Success      200  {object}  api.DocumentListResponse
// @Failure      500  {object}  api.JobResponse "Storage error"
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}
	if documentStore == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Document store unavailable")
		return
	}

	userId := r.URL.Query().Get("user_id")
	if userId == "" {
		userId = config.DefaultUserId
	}

	summaries, err := documentStore.GetSummaries(r.Context(), userId)
	if err != nil {
		logRH.Error("Failed to list documents", "userId", userId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(summaries))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes a document, its stored text and its indexed chunks.
// @Tags         Documents
// @Produce      json
// @Param        documentId  path  string  true  "Document id"
// @Success      204  "Deleted"
// @Failure      500  {object}  api.JobResponse "Storage error"
// @Router       /documents/{documentId} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}
	if documentStore == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Document store unavailable")
		return
	}

	documentId := utils.GetChiURLParam(r, "documentId")
	if documentId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Missing document id")
		return
	}

	if documentIndex != nil {
		if err := documentIndex.DeleteDocument(r.Context(), documentId); err != nil {
			// Orphaned chunks only hurt relevance; the record still goes.
			logRH.Warn("Failed to delete indexed chunks", "documentId", documentId, "error", err)
		}
	}
	if err := documentStore.DeleteDocument(r.Context(), documentId); err != nil {
		logRH.Error("Failed to delete document", "documentId", documentId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
