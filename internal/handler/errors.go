package handler

import (
	"errors"
	"net/http"

	"importhub/internal/middleware"
	"importhub/internal/pricing"
	"importhub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps service errors to HTTP: not-found 404, validation 400, anything
// else 500 with the cause kept out of the body.
func respondError(c *gin.Context, err error) {
	var (
		nf *pricing.NotFoundError
		ve *pricing.ValidationError
	)
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, nf.Message))
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, response.FieldError(http.StatusBadRequest, ve.Field, ve.Error()))
	case pricing.IsValidation(err):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, msg))
}

// currentUser returns the authenticated caller or aborts with 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
	}
	return userID, ok
}

// pathID parses the :id route parameter or responds 400.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
