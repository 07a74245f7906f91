package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	services "github.com/KhurramShams/docuchat-be/service"
	"github.com/KhurramShams/docuchat-be/types"
)

const maxUploadSize = 10 << 20

// UploadHandler accepts a single PDF and runs it through the ingestion
// pipeline. Re-uploads of already indexed content return the stored result.
type UploadHandler struct {
	documentService *services.DocumentService
}

func NewUploadHandler(documentService *services.DocumentService) *UploadHandler {
	return &UploadHandler{
		documentService: documentService,
	}
}

func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File too large",
		})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Only PDF files are supported.",
		})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Failed to read file",
		})
		return
	}
	if len(data) > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File too large",
		})
		return
	}

	result, err := h.documentService.Process(c.Request.Context(), header.Filename, data)
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: types.UserMessage(err),
		})
		return
	}

	message := "PDF is valid."
	if result.AlreadyIndexed {
		message = "Document is already indexed."
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: message,
		Data:    result,
	})
}

func statusForError(err error) int {
	switch types.KindOf(err) {
	case types.ErrValidation, types.ErrParse:
		return http.StatusBadRequest
	case types.ErrIndex, types.ErrRetrieval, types.ErrGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
