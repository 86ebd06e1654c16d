package handler

import (
	"net/http"

	"importhub/internal/middleware"
	"importhub/internal/service"
	"importhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
	auth            *middleware.Auth
}

func NewSettingsHandler(settingsService service.SettingsService, auth *middleware.Auth) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auth: auth}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/pricing/settings")
	group.Use(h.auth.RequireAuth())
	{
		group.GET("", h.GetSettings)
		group.PUT("", h.UpdateSettings)
	}
}

// GetSettings returns the caller's freight region and tax percentage
// @Summary      Get pricing settings
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.UserSettings}
// @Router       /api/pricing/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// UpdateSettings
// @Summary      Update pricing settings
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body service.SettingsRequest true "Settings"
// @Success      200  {object}  response.Response{data=model.UserSettings}
// @Router       /api/pricing/settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}
