package model

import "time"

type SettingType string

const (
	SettingOpen  SettingType = "open"
	SettingClose SettingType = "close"
	SettingLimit SettingType = "limit"
	SettingBlock SettingType = "block"
)

func (t SettingType) Valid() bool {
	switch t {
	case SettingOpen, SettingClose, SettingLimit, SettingBlock:
		return true
	}
	return false
}

// Setting is one website time-limit rule.
type Setting struct {
	ID                 string      `bson:"_id,omitempty" json:"id"`
	UserID             string      `bson:"user_id" json:"user_id"`
	Type               SettingType `bson:"type" json:"type"`
	Enabled            bool        `bson:"enabled" json:"enabled"`
	URLs               []string    `bson:"urls" json:"urls"`
	Categories         []string    `bson:"categories,omitempty" json:"categories,omitempty"`
	LimitMinutes       int         `bson:"limit_minutes,omitempty" json:"limit_minutes,omitempty"`
	IdleTimeoutMinutes int         `bson:"idle_timeout_minutes,omitempty" json:"idle_timeout_minutes,omitempty"`
	CreatedAt          time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `bson:"updated_at" json:"updated_at"`
}
