package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSettingStore struct {
	mu       sync.Mutex
	settings map[string]*model.Setting
	lists    int
}

func newMemSettingStore() *memSettingStore {
	return &memSettingStore{settings: map[string]*model.Setting{}}
}

func (s *memSettingStore) CreateSetting(_ context.Context, st *model.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[st.ID] = st
	return nil
}

func (s *memSettingStore) GetSettingByID(_ context.Context, userID, id string) (*model.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.settings[id]; ok && st.UserID == userID {
		cp := *st
		return &cp, nil
	}
	return nil, nil
}

func (s *memSettingStore) ListSettings(_ context.Context, userID string) ([]*model.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	var out []*model.Setting
	for _, st := range s.settings {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *memSettingStore) UpdateSetting(_ context.Context, st *model.Setting) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.settings[st.ID]; ok && old.UserID == st.UserID {
		s.settings[st.ID] = st
		return 1, nil
	}
	return 0, nil
}

func (s *memSettingStore) SetSettingEnabled(_ context.Context, userID, id string, enabled bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.settings[id]; ok && st.UserID == userID {
		st.Enabled = enabled
		return 1, nil
	}
	return 0, nil
}

func (s *memSettingStore) DeleteSetting(_ context.Context, userID, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.settings[id]; ok && st.UserID == userID {
		delete(s.settings, id)
		return 1, nil
	}
	return 0, nil
}

type memSettingsCache struct {
	entries     map[string][]*model.Setting
	broken      bool
	invalidated int
}

func (c *memSettingsCache) Get(_ context.Context, userID string) ([]*model.Setting, error) {
	if c.broken {
		return nil, errors.New("redis: connection refused")
	}
	return c.entries[userID], nil
}

func (c *memSettingsCache) Set(_ context.Context, userID string, settings []*model.Setting) error {
	if c.broken {
		return errors.New("redis: connection refused")
	}
	c.entries[userID] = settings
	return nil
}

func (c *memSettingsCache) Invalidate(_ context.Context, userID string) error {
	c.invalidated++
	if c.broken {
		return errors.New("redis: connection refused")
	}
	delete(c.entries, userID)
	return nil
}

func TestNormalizeHost(t *testing.T) {
	tests := map[string]string{
		"https://www.YouTube.com/watch?v=1": "youtube.com",
		"reddit.com":                        "reddit.com",
		"http://news.ycombinator.com:8080/": "news.ycombinator.com",
		"  twitter.com/home ":               "twitter.com",
	}
	for in, want := range tests {
		got, err := NormalizeHost(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := NormalizeHost("https://")
	assert.True(t, IsValidation(err))
}

func TestSettingValidation(t *testing.T) {
	svc := NewSettingService(newMemSettingStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		setting model.Setting
		field   string
	}{
		{"unknown type", model.Setting{Type: "allow", URLs: []string{"a.com"}}, "type"},
		{"no urls", model.Setting{Type: model.SettingBlock, URLs: []string{" "}}, "urls"},
		{"limit without minutes", model.Setting{Type: model.SettingLimit, URLs: []string{"a.com"}}, "limit_minutes"},
		{"limit with idle", model.Setting{Type: model.SettingLimit, URLs: []string{"a.com"}, LimitMinutes: 10, IdleTimeoutMinutes: 5}, "idle_timeout_minutes"},
		{"open with limit", model.Setting{Type: model.SettingOpen, URLs: []string{"a.com"}, LimitMinutes: 10}, "limit_minutes"},
		{"block with idle", model.Setting{Type: model.SettingBlock, URLs: []string{"a.com"}, IdleTimeoutMinutes: 5}, "type"},
		{"negative limit", model.Setting{Type: model.SettingLimit, URLs: []string{"a.com"}, LimitMinutes: -1}, "limit_minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.setting
			st.UserID = "u1"
			var verr *ValidationError
			require.ErrorAs(t, svc.CreateSetting(ctx, &st), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSettingsCacheFlow(t *testing.T) {
	store := newMemSettingStore()
	cache := &memSettingsCache{entries: map[string][]*model.Setting{}}
	svc := NewSettingService(store, cache)
	ctx := context.Background()

	st := &model.Setting{UserID: "u1", Type: model.SettingLimit, Enabled: true,
		URLs: []string{"https://www.youtube.com", "youtube.com"}, LimitMinutes: 30}
	require.NoError(t, svc.CreateSetting(ctx, st))
	assert.Equal(t, []string{"youtube.com"}, st.URLs)

	list, err := svc.ListSettings(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = svc.ListSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists, "second read served from cache")

	toggled, err := svc.Toggle(ctx, "u1", st.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)
	assert.NotContains(t, cache.entries, "u1")

	_, err = svc.ListSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.lists)

	require.NoError(t, svc.DeleteSetting(ctx, "u1", st.ID))
	assert.ErrorIs(t, svc.DeleteSetting(ctx, "u1", st.ID), ErrSettingNotFound)
	_, err = svc.Toggle(ctx, "u1", st.ID)
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSettingsCacheFailureDoesNotFailRequests(t *testing.T) {
	store := newMemSettingStore()
	cache := &memSettingsCache{entries: map[string][]*model.Setting{}, broken: true}
	svc := NewSettingService(store, cache)
	ctx := context.Background()

	st := &model.Setting{UserID: "u1", Type: model.SettingBlock, URLs: []string{"reddit.com"}}
	require.NoError(t, svc.CreateSetting(ctx, st))
	assert.Equal(t, 1, cache.invalidated)

	list, err := svc.ListSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateSettingKeepsOwnership(t *testing.T) {
	store := newMemSettingStore()
	svc := NewSettingService(store, nil)
	ctx := context.Background()

	st := &model.Setting{UserID: "u1", Type: model.SettingOpen, URLs: []string{"a.com"}, IdleTimeoutMinutes: 5}
	require.NoError(t, svc.CreateSetting(ctx, st))

	upd := *st
	upd.UserID = "u2"
	assert.ErrorIs(t, svc.UpdateSetting(ctx, &upd), ErrSettingNotFound)

	upd.UserID = "u1"
	upd.Type = model.SettingClose
	require.NoError(t, svc.UpdateSetting(ctx, &upd))
	assert.Equal(t, model.SettingClose, store.settings[st.ID].Type)
}
