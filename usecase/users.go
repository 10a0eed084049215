package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/services"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/pquerna/otp/totp"
)

// MaxActiveSessions is the number of concurrent logins a user may hold.
// Logging in beyond it ends the least recently active session.
const MaxActiveSessions = 5

const TOTPIssuer = "TimeTrack"

// UserStore persists accounts. Finders return nil, nil when nothing matches.
type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUser(ctx context.Context, userID string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateTwoFactor(ctx context.Context, userID, secret string, enabled bool, recoveryCodes []string) error
	UpdateRecoveryCodes(ctx context.Context, userID string, recoveryCodes []string) error
	DeleteUser(ctx context.Context, userID string) (int64, error)
}

// SessionStore persists login sessions. GetSession returns nil, nil for an
// unknown id.
type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	UpdateSession(ctx context.Context, session *model.Session) error
	CountActiveSessions(ctx context.Context, userID string) (int64, error)
	EndLeastActiveSession(ctx context.Context, userID string) error
	GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
	EndAllUserSessions(ctx context.Context, userID string) error
	DeleteUserSessions(ctx context.Context, userID string) error
}

// TokenRevoker is the token blacklist.
type TokenRevoker interface {
	BlacklistTokens(ctx context.Context, accessToken, refreshToken string) error
	BlacklistToken(ctx context.Context, token, tokenType string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// UserDataPurger removes everything a user owns in one collection.
type UserDataPurger interface {
	DeleteUserData(ctx context.Context, userID string) (int64, error)
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

var (
	ErrInvalidCredentials  = &UnauthorizedError{Message: "Invalid username or password"}
	ErrInvalidTwoFactor    = &UnauthorizedError{Message: "Invalid 2FA code"}
	ErrInvalidRefreshToken = &UnauthorizedError{Message: "Invalid or expired refresh token"}
	ErrUserNotFound        = &NotFoundError{Resource: "User"}
)

type LoginInput struct {
	Username      string
	Password      string
	TwoFactorCode string
	UserAgent     string
	IPAddress     string
}

type LoginResult struct {
	User              *model.User
	Session           *model.Session
	AccessToken       string
	RefreshToken      string
	RequiresTwoFactor bool
	Notice            string
}

type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh"`
}

type TwoFactorSetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

type AuthService struct {
	users      UserStore
	sessions   SessionStore
	revoker    TokenRevoker
	purgers    []UserDataPurger
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthService accepts a nil revoker; tokens then stay valid until expiry.
func NewAuthService(users UserStore, sessions SessionStore, revoker TokenRevoker, sessionTTL time.Duration, purgers ...UserDataPurger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		revoker:    revoker,
		purgers:    purgers,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (svc *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if len(username) < 4 || len(username) > 20 {
		return nil, invalid("username", "must be between 4 and 20 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, invalid("email", "is not a valid email address")
	}
	if !utils.ValidatePassword(password) {
		return nil, invalid("password", services.ErrWeakPassword.Error())
	}

	if existing, err := svc.users.FindUserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		utils.TrackAuthAttempt("failure", "username_taken")
		return nil, &ConflictError{Message: "Username already taken"}
	}
	if existing, err := svc.users.FindUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		utils.TrackAuthAttempt("failure", "email_taken")
		return nil, &ConflictError{Message: "Email already in use"}
	}

	hashed, err := services.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:    utils.NewID(),
		Username:  username,
		Email:     email,
		Password:  hashed,
		CreatedAt: svc.now().UTC(),
	}
	if err := svc.users.AddUser(ctx, user); err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "registration")
	return user, nil
}

func (svc *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := svc.users.FindUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.TrackAuthAttempt("failure", "user_not_found")
		return nil, ErrInvalidCredentials
	}

	ok, err := services.VerifyPassword(user.Password, in.Password)
	if err != nil || !ok {
		utils.TrackAuthAttempt("failure", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if in.TwoFactorCode == "" {
			utils.TrackAuthAttempt("pending", "2fa_required")
			return &LoginResult{User: user, RequiresTwoFactor: true}, nil
		}
		if err := svc.checkSecondFactor(ctx, user, in.TwoFactorCode); err != nil {
			return nil, err
		}
		utils.TrackAuthAttempt("success", "2fa")
	}

	result := &LoginResult{User: user}

	active, err := svc.sessions.CountActiveSessions(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	if active >= MaxActiveSessions {
		if err := svc.sessions.EndLeastActiveSession(ctx, user.UserID); err != nil {
			return nil, fmt.Errorf("failed to end least active session: %w", err)
		}
		result.Notice = "Logged out of least active session due to session limit"
		utils.Logger.Info().Str("user_id", user.UserID).Msg("ended least active session due to session limit")
	}

	pair, err := issueTokens(user.UserID)
	if err != nil {
		return nil, err
	}
	result.AccessToken, result.RefreshToken = pair.AccessToken, pair.RefreshToken

	now := svc.now().UTC()
	browser, os, device := utils.ParseUserAgent(in.UserAgent)
	result.Session = &model.Session{
		SessionID:      utils.NewID(),
		UserID:         user.UserID,
		DisplayName:    utils.GenerateSessionName(in.UserAgent),
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		IPAddress:      in.IPAddress,
		CreatedAt:      now,
		ExpiresAt:      now.Add(svc.sessionTTL),
		LastActivityAt: now,
		IsActive:       true,
	}
	if err := svc.sessions.CreateSession(ctx, result.Session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	utils.TrackAuthAttempt("success", "login")
	return result, nil
}

// checkSecondFactor accepts a TOTP code or, failing that, an unused recovery
// code, which is consumed.
func (svc *AuthService) checkSecondFactor(ctx context.Context, user *model.User, code string) error {
	if totp.Validate(strings.TrimSpace(code), user.TwoFactorSecret) {
		return nil
	}

	hashed := utils.HashString(utils.NormalizeRecoveryCode(code))
	remaining := make([]string, 0, len(user.RecoveryCodes))
	found := false
	for _, stored := range user.RecoveryCodes {
		if !found && stored == hashed {
			found = true
			continue
		}
		remaining = append(remaining, stored)
	}
	if !found {
		utils.TrackAuthAttempt("failure", "invalid_2fa")
		return ErrInvalidTwoFactor
	}
	if err := svc.users.UpdateRecoveryCodes(ctx, user.UserID, remaining); err != nil {
		return fmt.Errorf("failed to consume recovery code: %w", err)
	}
	user.RecoveryCodes = remaining
	utils.TrackAuthAttempt("success", "recovery_code")
	return nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := services.ParseToken(refreshToken, services.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if svc.revoker != nil {
		revoked, err := svc.revoker.IsTokenBlacklisted(ctx, refreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to check token blacklist: %w", err)
		}
		if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := svc.users.FindUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}

	pair, err := issueTokens(user.UserID)
	if err != nil {
		return nil, err
	}
	if svc.revoker != nil {
		if err := svc.revoker.BlacklistToken(ctx, refreshToken, services.TokenTypeRefresh); err != nil {
			return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}
	return pair, nil
}

// Logout revokes the token pair and ends the session when one is known.
func (svc *AuthService) Logout(ctx context.Context, accessToken, refreshToken, sessionID string) error {
	if svc.revoker != nil {
		if err := svc.revoker.BlacklistTokens(ctx, accessToken, refreshToken); err != nil {
			return err
		}
	}
	if sessionID == "" {
		return nil
	}
	session, err := svc.sessions.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return err
	}
	session.IsActive = false
	return svc.sessions.UpdateSession(ctx, session)
}

// TouchSession records activity on a session, deactivating it when it has
// expired or idled out. It returns nil for sessions that are not usable.
func (svc *AuthService) TouchSession(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := svc.sessions.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return nil, err
	}
	now := svc.now()
	if session.Expired(now) {
		if session.IsActive {
			session.IsActive = false
			if err := svc.sessions.UpdateSession(ctx, session); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	session.LastActivityAt = now.UTC()
	if err := svc.sessions.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (svc *AuthService) ActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	sessions, err := svc.sessions.GetUserActiveSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}
	return sessions, nil
}

func (svc *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return svc.sessions.EndAllUserSessions(ctx, userID)
}

func (svc *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := svc.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteAccount removes the user, their sessions and every record they own.
func (svc *AuthService) DeleteAccount(ctx context.Context, userID, accessToken string) error {
	for _, p := range svc.purgers {
		if _, err := p.DeleteUserData(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user data: %w", err)
		}
	}
	if err := svc.sessions.DeleteUserSessions(ctx, userID); err != nil {
		return err
	}
	n, err := svc.users.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	if svc.revoker != nil && accessToken != "" {
		if err := svc.revoker.BlacklistToken(ctx, accessToken, services.TokenTypeAccess); err != nil {
			utils.Logger.Warn().Err(err).Str("user_id", userID).Msg("failed to revoke token of deleted user")
		}
	}
	return nil
}

// SetupTwoFactor generates a fresh TOTP secret. Nothing is stored until
// EnableTwoFactor confirms a code from it.
func (svc *AuthService) SetupTwoFactor(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	user, err := svc.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, invalid("", "2FA is already enabled")
	}
	key, err := totp.Generate(totp.GenerateOpts{Issuer: TOTPIssuer, AccountName: user.Email})
	if err != nil {
		return nil, fmt.Errorf("failed to generate 2FA secret: %w", err)
	}
	return &TwoFactorSetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// EnableTwoFactor stores the secret once code proves the user holds it and
// returns the plain recovery codes, which are shown only this once.
func (svc *AuthService) EnableTwoFactor(ctx context.Context, userID, secret, code string) ([]string, error) {
	user, err := svc.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, invalid("", "2FA is already enabled")
	}
	if secret == "" || !totp.Validate(strings.TrimSpace(code), secret) {
		return nil, ErrInvalidTwoFactor
	}

	codes, err := utils.GenerateRecoveryCodes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recovery codes: %w", err)
	}
	if err := svc.users.UpdateTwoFactor(ctx, userID, secret, true, utils.HashRecoveryCodes(codes)); err != nil {
		return nil, err
	}
	return codes, nil
}

func (svc *AuthService) DisableTwoFactor(ctx context.Context, userID, code string) error {
	user, err := svc.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return invalid("", "2FA is not enabled")
	}
	if !totp.Validate(strings.TrimSpace(code), user.TwoFactorSecret) {
		return ErrInvalidTwoFactor
	}
	return svc.users.UpdateTwoFactor(ctx, userID, "", false, nil)
}

func issueTokens(userID string) (*TokenPair, error) {
	access, err := services.GenerateToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	utils.TokenUsage.WithLabelValues(services.TokenTypeAccess, "generated").Inc()

	refresh, err := services.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	utils.TokenUsage.WithLabelValues(services.TokenTypeRefresh, "generated").Inc()
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func IsUnauthorized(err error) bool {
	var u *UnauthorizedError
	return errors.As(err, &u)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
