package handlers

import (
	"errors"
	"io"
	"net/http"

	"taskmanager-api/internal/models"
	"taskmanager-api/internal/storage"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into obj. An empty body leaves obj at
// its zero value. On failure the error response is written and false returned.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Code:    "REQUEST_TOO_LARGE",
			Message: "Request body too large",
			Details: map[string]interface{}{"max_size_bytes": tooLarge.Limit},
		})
		return false
	}

	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    "INVALID_INPUT",
		Message: "Invalid request body",
		Details: map[string]interface{}{"error": err.Error()},
	})
	return false
}

// respondError maps a store error onto an HTTP response
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: validationErr.Message,
			Details: map[string]interface{}{"field": validationErr.Field},
		})
	case errors.Is(err, storage.ErrInvalidID):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "INVALID_ID",
			Message: "Invalid identifier format",
		})
	case errors.Is(err, storage.ErrListNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Code:    "LIST_NOT_FOUND",
			Message: "The requested list was not found",
		})
	case errors.Is(err, storage.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Code:    "TASK_NOT_FOUND",
			Message: "The requested task was not found",
		})
	case errors.Is(err, storage.ErrStoreUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "STORAGE_UNAVAILABLE",
			Message: "Storage is temporarily unavailable. Please try again later.",
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "An internal error occurred. Please try again later.",
		})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrListNotFound) || errors.Is(err, storage.ErrTaskNotFound)
}

// respondDocument writes doc, or a JSON null when the lookup matched
// nothing and strict mode is off
func respondDocument[T any](c *gin.Context, doc *T, err error, strict bool) {
	if err != nil {
		if isNotFound(err) && !strict {
			c.JSON(http.StatusOK, nil)
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// respondUpdated writes the bodiless 200 of an update
func respondUpdated(c *gin.Context, err error, strict bool) {
	if err != nil && !(isNotFound(err) && !strict) {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
