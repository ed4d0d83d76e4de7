package handlers

import (
	"net/http"

	"tripdash/internal/domain"
	"tripdash/internal/http/middleware"
	"tripdash/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
	})
}

// errorStatus maps domain errors to an HTTP status and code.
func errorStatus(err error) (int, string) {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest, "validation_error"
	case domain.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case domain.IsDataset(err):
		return http.StatusInternalServerError, "dataset_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if code == "internal_error" {
		msg = "internal error"
	}
	utils.LogEvent(middleware.GetRequestID(c), "http", "error", code+": "+err.Error())
	respondError(c, status, code, msg)
}
