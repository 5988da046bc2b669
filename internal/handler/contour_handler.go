package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/contour-backend/internal/models"
	"github.com/jengzang/contour-backend/internal/service"
	"github.com/jengzang/contour-backend/pkg/response"
)

// ContourHandler handles HTTP requests for contours
type ContourHandler struct {
	contourService *service.ContourService
}

// NewContourHandler creates a new contour handler
func NewContourHandler(contourService *service.ContourService) *ContourHandler {
	return &ContourHandler{
		contourService: contourService,
	}
}

// GetContour handles GET /get_contour/
func (h *ContourHandler) GetContour(c *gin.Context) {
	q := models.DefaultContourQuery()
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return
	}

	res, err := h.contourService.Contour(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, res.ContentType, res.Body)
}
