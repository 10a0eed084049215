package dto

import (
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TwoFactorEnableRequest struct {
	Secret string `json:"secret" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

type TwoFactorCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type UserLink struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

type UserProfileResponse struct {
	UserID           string              `json:"user_id"`
	Username         string              `json:"username"`
	Email            string              `json:"email"`
	CreatedAt        time.Time           `json:"created_at"`
	TwoFactorEnabled bool                `json:"two_factor_enabled"`
	Links            map[string]UserLink `json:"_links,omitempty"`
}

func ToUserProfileResponse(user *model.User, links map[string]UserLink) UserProfileResponse {
	return UserProfileResponse{
		UserID:           user.UserID,
		Username:         user.Username,
		Email:            user.Email,
		CreatedAt:        user.CreatedAt,
		TwoFactorEnabled: user.TwoFactorEnabled,
		Links:            links,
	}
}

type LoginResponse struct {
	User         UserProfileResponse `json:"user"`
	AccessToken  string              `json:"token"`
	RefreshToken string              `json:"refresh"`
	SessionID    string              `json:"session_id"`
	Notice       string              `json:"notice,omitempty"`
}

type SessionResponse struct {
	SessionID      string    `json:"session_id"`
	DisplayName    string    `json:"display_name"`
	DeviceInfo     string    `json:"device_info"`
	IPAddress      string    `json:"ip_address"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Current        bool      `json:"current"`
}

func ToSessionResponses(sessions []*model.Session, currentID string) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionResponse{
			SessionID:      s.SessionID,
			DisplayName:    s.DisplayName,
			DeviceInfo:     s.DeviceInfo,
			IPAddress:      s.IPAddress,
			CreatedAt:      s.CreatedAt,
			LastActivityAt: s.LastActivityAt,
			Current:        s.SessionID == currentID,
		})
	}
	return out
}
