package handler

import (
	"github.com/pankaj3399/time-track-sub001/dto"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settings SettingService
}

func NewSettingsHandler(settings SettingService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) ListSettings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	settings, err := h.settings.ListSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list settings")
		return
	}
	utils.Success(c, settings)
}

func (h *SettingsHandler) CreateSetting(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.SettingRequest
	if !bindJSON(c, &req) {
		return
	}
	setting := req.ToModel(userID)
	if err := h.settings.CreateSetting(c.Request.Context(), setting); err != nil {
		respondError(c, err, "create setting")
		return
	}
	utils.Created(c, setting)
}

func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.SettingRequest
	if !bindJSON(c, &req) {
		return
	}
	setting := req.ToModel(userID)
	setting.ID = c.Param("id")
	if err := h.settings.UpdateSetting(c.Request.Context(), setting); err != nil {
		respondError(c, err, "update setting")
		return
	}
	utils.Success(c, setting)
}

func (h *SettingsHandler) ToggleSetting(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	setting, err := h.settings.Toggle(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "toggle setting")
		return
	}
	utils.Success(c, setting)
}

func (h *SettingsHandler) DeleteSetting(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.settings.DeleteSetting(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "delete setting")
		return
	}
	utils.SuccessMessage(c, "Setting deleted", nil)
}
