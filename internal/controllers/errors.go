package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kwiens/seeds/internal/models"
	log "github.com/sirupsen/logrus"
)

var actionStatus = map[string]int{
	models.ErrCodeSignInRequired:   http.StatusUnauthorized,
	models.ErrCodePermissionDenied: http.StatusForbidden,
	models.ErrCodeNotFound:         http.StatusNotFound,
	models.ErrCodeValidationFailed: http.StatusBadRequest,
	models.ErrCodeConflict:         http.StatusConflict,
	models.ErrCodeImageUnavailable: http.StatusServiceUnavailable,
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError renders err. User-facing action errors are rendered inline;
// admin sentinels mean a gate was skipped and are logged loudly.
func respondError(ctx *gin.Context, err error) {
	if actionErr, ok := models.AsActionError(err); ok {
		status, known := actionStatus[actionErr.Code]
		if !known {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, ErrorResponse{Error: actionErr.Message, Code: actionErr.Code})
		return
	}

	entry := log.WithError(err).WithFields(log.Fields{
		"method": ctx.Request.Method,
		"path":   ctx.FullPath(),
	})
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		entry.Error("Admin action reached without admin role")
		ctx.JSON(http.StatusForbidden, ErrorResponse{Error: "Unauthorized", Code: models.ErrCodePermissionDenied})
	case errors.Is(err, models.ErrSeedNotFound):
		entry.Error("Admin action on missing seed")
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "Seed not found", Code: models.ErrCodeNotFound})
	case errors.Is(err, models.ErrInvalidTransition):
		entry.Error("Rejected seed status transition")
		ctx.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: models.ErrCodeConflict})
	default:
		entry.Error("Request failed")
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
