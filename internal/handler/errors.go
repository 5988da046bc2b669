package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/contour-backend/internal/codec"
	"github.com/jengzang/contour-backend/internal/contour"
	"github.com/jengzang/contour-backend/internal/fetch"
	"github.com/jengzang/contour-backend/internal/github"
	"github.com/jengzang/contour-backend/internal/service"
	"github.com/jengzang/contour-backend/pkg/response"
)

// respondError maps service errors onto the response envelope
func respondError(c *gin.Context, err error) {
	c.Error(err)

	switch {
	case errors.Is(err, contour.ErrInterpolation):
		response.Error(c, http.StatusUnprocessableEntity, "contour computation failed")
	case errors.Is(err, contour.ErrInvalidInput),
		errors.Is(err, codec.ErrBadTable),
		errors.Is(err, service.ErrInvalidQuery):
		response.BadRequest(c, err.Error())
	case errors.Is(err, fetch.ErrUpstream), errors.Is(err, github.ErrRequest):
		response.Error(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		response.Error(c, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		// client went away
		c.Status(499)
	default:
		log.Printf("Error: %v", err)
		response.InternalError(c, "internal error")
	}
}
