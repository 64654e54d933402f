package handlers

import (
	"errors"
	"strconv"

	"github.com/Euaell/Car-Dealership/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and a JSON body
// carrying the human-readable message and, when set, the offending
// field. Untyped errors surface as a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}

	body := gin.H{
		"error": appErr.Message,
		"kind":  appErr.Kind,
	}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.JSON(apperrors.HTTPStatus(err), body)
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, apperrors.Validation("id", "id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
