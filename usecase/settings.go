package usecase

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/utils"
)

// SettingStore persists time-limit settings. GetSettingByID returns nil, nil
// when no row matches.
type SettingStore interface {
	CreateSetting(ctx context.Context, setting *model.Setting) error
	GetSettingByID(ctx context.Context, userID, settingID string) (*model.Setting, error)
	ListSettings(ctx context.Context, userID string) ([]*model.Setting, error)
	UpdateSetting(ctx context.Context, setting *model.Setting) (int64, error)
	SetSettingEnabled(ctx context.Context, userID, settingID string, enabled bool) (int64, error)
	DeleteSetting(ctx context.Context, userID, settingID string) (int64, error)
}

// SettingsCache holds each user's settings list. A miss is reported as
// nil, nil.
type SettingsCache interface {
	Get(ctx context.Context, userID string) ([]*model.Setting, error)
	Set(ctx context.Context, userID string, settings []*model.Setting) error
	Invalidate(ctx context.Context, userID string) error
}

type SettingService struct {
	store SettingStore
	cache SettingsCache
	now   func() time.Time
}

// NewSettingService accepts a nil cache.
func NewSettingService(store SettingStore, cache SettingsCache) *SettingService {
	return &SettingService{store: store, cache: cache, now: time.Now}
}

func (svc *SettingService) ListSettings(ctx context.Context, userID string) ([]*model.Setting, error) {
	if svc.cache != nil {
		cached, err := svc.cache.Get(ctx, userID)
		switch {
		case err != nil:
			utils.TrackError("cache", "settings_get_failed")
			utils.Logger.Warn().Err(err).Str("user_id", userID).Msg("settings cache read failed")
		case cached != nil:
			utils.TrackCacheOperation("settings", true)
			return cached, nil
		default:
			utils.TrackCacheOperation("settings", false)
		}
	}

	settings, err := svc.store.ListSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = []*model.Setting{}
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, userID, settings); err != nil {
			utils.TrackError("cache", "settings_set_failed")
			utils.Logger.Warn().Err(err).Str("user_id", userID).Msg("settings cache write failed")
		}
	}
	return settings, nil
}

func (svc *SettingService) GetSetting(ctx context.Context, userID, settingID string) (*model.Setting, error) {
	s, err := svc.store.GetSettingByID(ctx, userID, settingID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrSettingNotFound
	}
	return s, nil
}

func (svc *SettingService) CreateSetting(ctx context.Context, setting *model.Setting) error {
	if setting.UserID == "" {
		return ErrUserIDRequired
	}
	if err := normalizeSetting(setting); err != nil {
		return err
	}
	now := svc.now().UTC()
	setting.ID = utils.NewID()
	setting.CreatedAt = now
	setting.UpdatedAt = now
	if err := svc.store.CreateSetting(ctx, setting); err != nil {
		return err
	}
	svc.invalidate(ctx, setting.UserID)
	return nil
}

func (svc *SettingService) UpdateSetting(ctx context.Context, setting *model.Setting) error {
	existing, err := svc.GetSetting(ctx, setting.UserID, setting.ID)
	if err != nil {
		return err
	}
	if err := normalizeSetting(setting); err != nil {
		return err
	}
	setting.CreatedAt = existing.CreatedAt
	setting.UpdatedAt = svc.now().UTC()
	n, err := svc.store.UpdateSetting(ctx, setting)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSettingNotFound
	}
	svc.invalidate(ctx, setting.UserID)
	return nil
}

// Toggle flips the enabled flag and returns the updated setting.
func (svc *SettingService) Toggle(ctx context.Context, userID, settingID string) (*model.Setting, error) {
	s, err := svc.GetSetting(ctx, userID, settingID)
	if err != nil {
		return nil, err
	}
	n, err := svc.store.SetSettingEnabled(ctx, userID, settingID, !s.Enabled)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrSettingNotFound
	}
	s.Enabled = !s.Enabled
	svc.invalidate(ctx, userID)
	return s, nil
}

func (svc *SettingService) DeleteSetting(ctx context.Context, userID, settingID string) error {
	n, err := svc.store.DeleteSetting(ctx, userID, settingID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSettingNotFound
	}
	svc.invalidate(ctx, userID)
	return nil
}

func (svc *SettingService) invalidate(ctx context.Context, userID string) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Invalidate(ctx, userID); err != nil {
		utils.TrackError("cache", "settings_invalidate_failed")
		utils.Logger.Warn().Err(err).Str("user_id", userID).Msg("settings cache invalidation failed")
	}
}

func normalizeSetting(s *model.Setting) error {
	if !s.Type.Valid() {
		return invalid("type", "must be one of open, close, limit, block")
	}

	hosts := make([]string, 0, len(s.URLs))
	for _, raw := range s.URLs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		host, err := NormalizeHost(raw)
		if err != nil {
			return err
		}
		hosts = append(hosts, host)
	}
	s.URLs = trimList(hosts)
	if len(s.URLs) == 0 {
		return invalid("urls", "at least one URL is required")
	}
	s.Categories = trimList(s.Categories)

	if s.LimitMinutes < 0 {
		return invalid("limit_minutes", "must not be negative")
	}
	if s.IdleTimeoutMinutes < 0 {
		return invalid("idle_timeout_minutes", "must not be negative")
	}

	switch s.Type {
	case model.SettingLimit:
		if s.LimitMinutes == 0 {
			return invalid("limit_minutes", "is required for limit settings")
		}
		if s.IdleTimeoutMinutes > 0 {
			return invalid("idle_timeout_minutes", "is not allowed for limit settings")
		}
	case model.SettingOpen, model.SettingClose:
		if s.LimitMinutes > 0 {
			return invalid("limit_minutes", "is only allowed for limit settings")
		}
	case model.SettingBlock:
		if s.LimitMinutes > 0 || s.IdleTimeoutMinutes > 0 {
			return invalid("type", "block settings take no limit or idle timeout")
		}
	}
	return nil
}

// NormalizeHost reduces a URL or bare domain to its lower-case host name.
func NormalizeHost(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", invalid("urls", "%q is not a valid URL", raw)
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www."), nil
}
