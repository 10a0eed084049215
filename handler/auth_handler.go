package handler

import (
	"github.com/pankaj3399/time-track-sub001/dto"
	"github.com/pankaj3399/time-track-sub001/middleware"
	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func profileLinks(c *gin.Context) map[string]dto.UserLink {
	base := utils.GetBaseURL(c)
	return map[string]dto.UserLink{
		"self":     {Href: base + "/user/profile", Method: "GET"},
		"stats":    {Href: base + "/user/stats", Method: "GET"},
		"sessions": {Href: base + "/sessions/active", Method: "GET"},
		"logout":   {Href: base + "/user/logout", Method: "POST"},
		"delete":   {Href: base + "/user/delete", Method: "DELETE"},
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		utils.TrackAuthAttempt("failure", "validation")
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err, "register user")
		return
	}
	utils.Created(c, dto.ToUserProfileResponse(user, profileLinks(c)))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		utils.TrackAuthAttempt("failure", "validation")
		return
	}
	result, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Username:      req.Username,
		Password:      req.Password,
		TwoFactorCode: req.TwoFactorCode,
		UserAgent:     c.Request.UserAgent(),
		IPAddress:     c.ClientIP(),
	})
	if err != nil {
		respondError(c, err, "log in")
		return
	}
	if result.RequiresTwoFactor {
		utils.SuccessMessage(c, "2FA code required", gin.H{"requires_2fa": true})
		return
	}

	middleware.SetSessionCookie(c, result.Session)
	utils.SuccessMessage(c, "Login successful", dto.LoginResponse{
		User:         dto.ToUserProfileResponse(result.User, profileLinks(c)),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		SessionID:    result.Session.SessionID,
		Notice:       result.Notice,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		respondError(c, err, "refresh token")
		return
	}
	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, pair)
}

// Logout revokes the bearer token, the refresh token when one is posted, and
// the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	var req dto.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	sessionID := c.GetString("session_id")
	if err := h.auth.Logout(c.Request.Context(), c.GetString("access_token"), req.RefreshToken, sessionID); err != nil {
		respondError(c, err, "log out")
		return
	}
	middleware.ClearSessionCookie(c)
	utils.SuccessMessage(c, "Successfully logged out", nil)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "fetch profile")
		return
	}
	utils.Success(c, dto.ToUserProfileResponse(user, profileLinks(c)))
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.auth.DeleteAccount(c.Request.Context(), userID, c.GetString("access_token")); err != nil {
		respondError(c, err, "delete account")
		return
	}
	middleware.ClearSessionCookie(c)
	utils.SuccessMessage(c, "Account deleted", nil)
}

func (h *AuthHandler) ActiveSessions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	sessions, err := h.auth.ActiveSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "list sessions")
		return
	}
	utils.Success(c, dto.ToSessionResponses(sessions, c.GetString("session_id")))
}

func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.auth.LogoutAll(c.Request.Context(), userID); err != nil {
		respondError(c, err, "end sessions")
		return
	}
	middleware.ClearSessionCookie(c)
	utils.SuccessMessage(c, "All sessions ended", nil)
}

func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	setup, err := h.auth.SetupTwoFactor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "set up 2FA")
		return
	}
	utils.Success(c, setup)
}

func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.TwoFactorEnableRequest
	if !bindJSON(c, &req) {
		return
	}
	codes, err := h.auth.EnableTwoFactor(c.Request.Context(), userID, req.Secret, req.Code)
	if err != nil {
		respondError(c, err, "enable 2FA")
		return
	}
	utils.SuccessMessage(c, "2FA enabled successfully", gin.H{
		"recovery_codes": codes,
		"warning":        "Save these recovery codes securely. They will not be shown again.",
	})
}

func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.TwoFactorCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.DisableTwoFactor(c.Request.Context(), userID, req.Code); err != nil {
		respondError(c, err, "disable 2FA")
		return
	}
	utils.SuccessMessage(c, "2FA disabled", nil)
}
