package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KhurramShams/docuchat-be/database"
	services "github.com/KhurramShams/docuchat-be/service"
	"github.com/KhurramShams/docuchat-be/types"
)

// DocumentHandler lists ingest records. The records store is optional; when
// it is absent only the in-memory current document is reported.
type DocumentHandler struct {
	documentService *services.DocumentService
	records         database.DocumentStore
}

func NewDocumentHandler(documentService *services.DocumentService, records database.DocumentStore) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		records:         records,
	}
}

func (h *DocumentHandler) ListDocumentsHandler(c *gin.Context) {
	if h.records == nil {
		docs := []*types.IngestResult{}
		if current := h.documentService.Current(); current != nil {
			docs = append(docs, current)
		}
		c.JSON(http.StatusOK, types.DataResponse{
			Status: true,
			Data:   docs,
		})
		return
	}

	records, err := h.records.ListRecords(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Failed to list documents",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   records,
	})
}
