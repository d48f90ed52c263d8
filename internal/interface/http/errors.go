package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/pkg/response"
)

// statusFor maps a domain error to its HTTP status.
func statusFor(de *domain.Error) int {
	switch {
	case errors.Is(de, domain.ErrNotOverlap), errors.Is(de, domain.ErrEndDateInTheFuture):
		return http.StatusBadRequest
	case errors.Is(de, domain.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable
	}
	switch de.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status its kind maps to. Errors that are not
// domain errors are logged and reported as 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		response.Error[any](c, http.StatusBadRequest, "validation failed", ve.Fields)
		return
	}
	var de *domain.Error
	if errors.As(err, &de) {
		response.Error[any](c, statusFor(de), de.Message, gin.H{"code": de.Code})
		return
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}
