package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/contour-backend/internal/models"
	"github.com/jengzang/contour-backend/internal/service"
	"github.com/jengzang/contour-backend/pkg/response"
)

// CommentHandler handles HTTP requests for pull request comments
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// PostComment handles POST /comment/
func (h *CommentHandler) PostComment(c *gin.Context) {
	var ci models.CIData
	if err := c.ShouldBindJSON(&ci); err != nil {
		response.BadRequest(c, "Invalid CI data: "+err.Error())
		return
	}

	result, err := h.commentService.Comment(c.Request.Context(), ci)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}
