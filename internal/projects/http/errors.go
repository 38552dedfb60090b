package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/assignment"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

func statusFor(err error) int {
	var entityErr *assignment.UnknownEntityError
	switch {
	case errors.As(err, &entityErr):
		// Stored preferences reference stored rows; the store is inconsistent.
		return http.StatusInternalServerError
	case domain.IsValidation(err), errors.Is(err, domain.ErrUnknownProject):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateName), errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrPersonNotFound):
		return http.StatusNotFound
	case assignment.IsInputError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error, extra ...gin.H) {
	body := gin.H{"ok": false, "error": err.Error()}
	for _, h := range extra {
		for k, v := range h {
			body[k] = v
		}
	}
	c.JSON(statusFor(err), body)
}
