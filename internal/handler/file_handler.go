package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/contour-backend/internal/models"
	"github.com/jengzang/contour-backend/internal/service"
	"github.com/jengzang/contour-backend/pkg/response"
)

// FileHandler handles HTTP requests for the file proxy
type FileHandler struct {
	proxyService *service.ProxyService
}

// NewFileHandler creates a new file handler
func NewFileHandler(proxyService *service.ProxyService) *FileHandler {
	return &FileHandler{
		proxyService: proxyService,
	}
}

// GetFile handles GET /get/
func (h *FileHandler) GetFile(c *gin.Context) {
	var q models.FileQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid url parameter")
		return
	}

	res, err := h.proxyService.File(c.Request.Context(), q.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, res.ContentType, res.Body)
}
