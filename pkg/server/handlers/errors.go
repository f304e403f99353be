package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/docugraph/pkg/server/dto"
)

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
