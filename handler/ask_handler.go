package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	services "github.com/KhurramShams/docuchat-be/service"
	"github.com/KhurramShams/docuchat-be/types"
)

// AskHandler answers questions against the currently indexed document.
type AskHandler struct {
	documentService  *services.DocumentService
	websocketService *services.WebSocketService
}

func NewAskHandler(documentService *services.DocumentService, websocketService *services.WebSocketService) *AskHandler {
	return &AskHandler{
		documentService:  documentService,
		websocketService: websocketService,
	}
}

func (h *AskHandler) AskHandler(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	question := strings.TrimSpace(req.Question)
	if err := types.ValidateQuestion(question); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: types.UserMessage(err),
		})
		return
	}

	result, err := h.documentService.Ask(c.Request.Context(), question)
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: types.UserMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.AskResponse{
			Answer: result.Answer,
			Chunks: result.Chunks,
		},
	})
}

// AskStreamHandler upgrades to a websocket and streams answer deltas.
func (h *AskHandler) AskStreamHandler(c *gin.Context) {
	h.websocketService.HandleAsk(c.Writer, c.Request)
}
