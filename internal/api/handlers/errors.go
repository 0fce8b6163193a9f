package handlers

import (
	"errors"
	"log"
	"net/http"

	"movecalc/internal/affordability"
	"movecalc/internal/api/models"
	"movecalc/internal/calculator"
	"movecalc/internal/identity"
	"movecalc/internal/store"

	"github.com/gin-gonic/gin"
)

// writeError maps a domain error onto the error envelope. Anything not
// recognised is logged and reported as a 500 with fallbackCode.
func writeError(c *gin.Context, err error, fallbackCode string) {
	status, code := http.StatusInternalServerError, fallbackCode
	switch {
	case errors.Is(err, affordability.ErrScheduleTooLong):
		status, code = http.StatusBadRequest, "SCHEDULE_TOO_LONG"
	case errors.Is(err, store.ErrEmptyName):
		status, code = http.StatusBadRequest, "EMPTY_NAME"
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, calculator.ErrNotConfirmed):
		status, code = http.StatusConflict, "CONFIRMATION_REQUIRED"
	case errors.Is(err, identity.ErrInvalidEmail):
		status, code = http.StatusBadRequest, "INVALID_EMAIL"
	case errors.Is(err, identity.ErrWeakPassword):
		status, code = http.StatusBadRequest, "WEAK_PASSWORD"
	case errors.Is(err, identity.ErrEmailTaken):
		status, code = http.StatusConflict, "EMAIL_TAKEN"
	case errors.Is(err, identity.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, identity.ErrNoSession):
		status, code = http.StatusUnauthorized, "NO_SESSION"
	case errors.Is(err, identity.ErrNotConfigured):
		status, code = http.StatusNotImplemented, "IDENTITY_DISABLED"
	default:
		log.Printf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}
