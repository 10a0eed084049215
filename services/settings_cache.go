package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"

	"github.com/redis/go-redis/v9"
)

const defaultSettingsTTL = 30 * time.Minute

// SettingsCache keeps each user's settings list as one JSON value in Redis.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type settingsCacheEntry struct {
	Settings  []*model.Setting `json:"settings"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = defaultSettingsTTL
	}
	return &SettingsCache{client: client, ttl: ttl}
}

func settingsKey(userID string) string {
	return fmt.Sprintf("settings:%s", userID)
}

// Get returns nil, nil on a miss.
func (sc *SettingsCache) Get(ctx context.Context, userID string) ([]*model.Setting, error) {
	data, err := sc.client.Get(ctx, settingsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings cache: %w", err)
	}

	var entry settingsCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// drop the corrupt value so the next read repopulates it
		sc.client.Del(ctx, settingsKey(userID))
		return nil, fmt.Errorf("failed to decode settings cache: %w", err)
	}
	if entry.Settings == nil {
		entry.Settings = []*model.Setting{}
	}
	return entry.Settings, nil
}

func (sc *SettingsCache) Set(ctx context.Context, userID string, settings []*model.Setting) error {
	data, err := json.Marshal(settingsCacheEntry{Settings: settings, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := sc.client.Set(ctx, settingsKey(userID), data, sc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write settings cache: %w", err)
	}
	return nil
}

func (sc *SettingsCache) Invalidate(ctx context.Context, userID string) error {
	return sc.client.Del(ctx, settingsKey(userID)).Err()
}
