package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	services "github.com/KhurramShams/docuchat-be/service"
	"github.com/KhurramShams/docuchat-be/types"
)

type HealthHandler struct {
	documentService *services.DocumentService
}

func NewHealthHandler(documentService *services.DocumentService) *HealthHandler {
	return &HealthHandler{
		documentService: documentService,
	}
}

func (h *HealthHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: gin.H{
			"state": h.documentService.State(),
		},
	})
}
