package dto

import "github.com/pankaj3399/time-track-sub001/model"

type SettingRequest struct {
	Type               string   `json:"type" binding:"required,settingtype"`
	Enabled            *bool    `json:"enabled"`
	URLs               []string `json:"urls" binding:"required,min=1"`
	Categories         []string `json:"categories"`
	LimitMinutes       int      `json:"limit_minutes" binding:"min=0"`
	IdleTimeoutMinutes int      `json:"idle_timeout_minutes" binding:"min=0"`
}

// ToModel defaults Enabled to true.
func (r *SettingRequest) ToModel(userID string) *model.Setting {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return &model.Setting{
		UserID:             userID,
		Type:               model.SettingType(r.Type),
		Enabled:            enabled,
		URLs:               r.URLs,
		Categories:         r.Categories,
		LimitMinutes:       r.LimitMinutes,
		IdleTimeoutMinutes: r.IdleTimeoutMinutes,
	}
}
