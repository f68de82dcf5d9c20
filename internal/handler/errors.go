package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0knotok/cloud-demo-throttling/internal/domain"
)

const (
	codeFileRequired     = "file_required"
	codeInvalidFile      = "invalid_file"
	codeInvalidBody      = "invalid_body"
	codeValidationFailed = "validation_failed"
	codeConflict         = "conflict"
	codeStorage          = "storage_error"
	codePersistence      = "persistence_error"
	codeInternal         = "internal_error"
)

// Причина ошибки остается только в логе
type errorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Fields  []string `json:"fields,omitempty"`
}

// classify maps an error to its status and client-facing body.
// Missing offer fields answer 500, matching the creation route contract.
func classify(err error) (int, errorResponse) {
	var (
		vErr *domain.ValidationError
		sErr *domain.StorageError
		pErr *domain.PersistenceError
	)

	switch {
	case errors.Is(err, errFileRequired):
		return http.StatusBadRequest, errorResponse{Message: "No file to upload.", Code: codeFileRequired}
	case errors.As(err, &vErr) && len(vErr.Fields) > 0:
		return http.StatusInternalServerError, errorResponse{
			Message: "offer creation failed",
			Code:    codeValidationFailed,
			Fields:  vErr.Fields,
		}
	case errors.As(err, &vErr):
		return http.StatusBadRequest, errorResponse{Message: vErr.Reason, Code: codeInvalidFile}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorResponse{Message: "an offer with this offers_id already exists", Code: codeConflict}
	case errors.As(err, &sErr):
		return http.StatusInternalServerError, errorResponse{Message: "upload failed", Code: codeStorage}
	case errors.As(err, &pErr):
		return http.StatusInternalServerError, errorResponse{Message: "offer store unavailable", Code: codePersistence}
	default:
		return http.StatusInternalServerError, errorResponse{Message: "internal server error", Code: codeInternal}
	}
}

func (h *Handler) respondError(c *gin.Context, route string, err error) {
	status, body := classify(err)

	fields := []zap.Field{
		zap.String("route", route),
		zap.Int("status", status),
		zap.String("code", body.Code),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", fields...)
	} else {
		h.log.Warn("Request rejected", fields...)
	}

	h.respond(c, status, body)
}

func (h *Handler) respond(c *gin.Context, status int, body errorResponse) {
	c.AbortWithStatusJSON(status, body)
}
