package handlers

import (
	"net/http"

	"movecalc/internal/model"

	"github.com/gin-gonic/gin"
)

// DefaultsHandler serves the inputs a new calculation starts from.
type DefaultsHandler struct {
	defaults model.Inputs
}

func NewDefaultsHandler(defaults model.Inputs) *DefaultsHandler {
	return &DefaultsHandler{defaults: defaults.Sanitize()}
}

// GetDefaults handles GET /api/v1/defaults
func (h *DefaultsHandler) GetDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"inputs": h.defaults,
		"fields": model.FieldNames(),
	})
}
