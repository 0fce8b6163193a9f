package handlers

import (
	"net/http"

	"movecalc/internal/api/middleware"
	"movecalc/internal/api/models"
	"movecalc/internal/calculator"

	"github.com/gin-gonic/gin"
)

// ConfigHandler serves saved configurations for the caller's scope.
type ConfigHandler struct{}

func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{}
}

// ListConfigs handles GET /api/v1/configs
func (h *ConfigHandler) ListConfigs(c *gin.Context) {
	sc := middleware.ScopeFrom(c)
	list, err := sc.Store.List(c.Request.Context(), sc.Owner)
	if err != nil {
		writeError(c, err, "STORE_ERROR")
		return
	}
	c.JSON(http.StatusOK, models.ConfigListResponse{Backend: sc.Backend, Configs: list})
}

// SaveConfig handles POST /api/v1/configs
func (h *ConfigHandler) SaveConfig(c *gin.Context) {
	var req models.SaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sc := middleware.ScopeFrom(c)
	id, err := sc.Store.Save(c.Request.Context(), sc.Owner, req.Name, req.Inputs)
	if err != nil {
		writeError(c, err, "STORE_ERROR")
		return
	}
	c.JSON(http.StatusCreated, models.SaveConfigResponse{ID: id})
}

// GetConfig handles GET /api/v1/configs/:id
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	sc := middleware.ScopeFrom(c)
	id := c.Param("id")
	in, err := sc.Store.Get(c.Request.Context(), sc.Owner, id)
	if err != nil {
		writeError(c, err, "STORE_ERROR")
		return
	}
	c.JSON(http.StatusOK, models.ConfigResponse{ID: id, Inputs: in})
}

// DeleteConfig handles DELETE /api/v1/configs/:id?confirm=true
func (h *ConfigHandler) DeleteConfig(c *gin.Context) {
	if c.Query("confirm") != "true" {
		writeError(c, calculator.ErrNotConfirmed, "")
		return
	}
	sc := middleware.ScopeFrom(c)
	if err := sc.Store.Delete(c.Request.Context(), sc.Owner, c.Param("id")); err != nil {
		writeError(c, err, "STORE_ERROR")
		return
	}
	c.Status(http.StatusNoContent)
}
