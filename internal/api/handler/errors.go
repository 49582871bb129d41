package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"relaynode/backend/internal/content"
	"relaynode/backend/internal/storage"
)

// writeError maps store and content sentinels onto the API's status-code
// taxonomy and logs the failure under the request's correlation id. Auth
// errors never reach here; the middleware answers those directly.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, storage.ErrNotFound) || errors.Is(err, content.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrDuplicate):
		status, msg = http.StatusConflict, "constraint violation"
	case errors.Is(err, storage.ErrImmutableHash):
		status, msg = http.StatusConflict, "evidence hash is immutable"
	case errors.Is(err, storage.ErrInvalidTransition):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, content.ErrTimeout):
		// Already retried once inside the content store.
		status, msg = http.StatusServiceUnavailable, "storage backend timed out"
	case errors.Is(err, content.ErrHashMismatch):
		status, msg = http.StatusInternalServerError, "content integrity failure"
	}

	h.Log.Errorw("request failed",
		"correlation_id", correlation(c),
		"status", status,
		"error", err,
	)
	c.JSON(status, gin.H{"error": msg, "correlation_id": correlation(c)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
