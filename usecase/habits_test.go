package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memHabitStore struct {
	mu          sync.Mutex
	habits      map[string]*model.Habit
	completions []*model.HabitCompletion
	memos       map[string]*model.HabitMemo
}

func newMemHabitStore(habits ...*model.Habit) *memHabitStore {
	s := &memHabitStore{habits: map[string]*model.Habit{}, memos: map[string]*model.HabitMemo{}}
	for _, h := range habits {
		s.habits[h.ID] = h
	}
	return s
}

func (s *memHabitStore) CreateHabit(_ context.Context, h *model.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits[h.ID] = h
	return nil
}

func (s *memHabitStore) GetHabitByID(_ context.Context, userID, id string) (*model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.habits[id]; ok && h.UserID == userID {
		cp := *h
		return &cp, nil
	}
	return nil, nil
}

func (s *memHabitStore) ListHabits(_ context.Context, userID string) ([]*model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Habit
	for _, h := range s.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *memHabitStore) UpdateHabit(_ context.Context, h *model.Habit) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.habits[h.ID]; ok && old.UserID == h.UserID {
		s.habits[h.ID] = h
		return 1, nil
	}
	return 0, nil
}

func (s *memHabitStore) DeleteHabit(_ context.Context, userID, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok || h.UserID != userID {
		return 0, nil
	}
	delete(s.habits, id)
	kept := s.completions[:0]
	for _, c := range s.completions {
		if c.HabitID != id {
			kept = append(kept, c)
		}
	}
	s.completions = kept
	for mid, m := range s.memos {
		if m.HabitID == id {
			delete(s.memos, mid)
		}
	}
	return 1, nil
}

func (s *memHabitStore) UpsertCompletion(_ context.Context, c *model.HabitCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.completions {
		if existing.HabitID == c.HabitID && existing.UserID == c.UserID && existing.Date.Equal(c.Date) {
			s.completions[i] = c
			return nil
		}
	}
	s.completions = append(s.completions, c)
	return nil
}

func (s *memHabitStore) DeleteCompletion(_ context.Context, userID, habitID string, date time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.completions {
		if c.HabitID == habitID && c.UserID == userID && c.Date.Equal(date) {
			s.completions = append(s.completions[:i], s.completions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memHabitStore) ListCompletions(_ context.Context, userID, habitID string) ([]*model.HabitCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.HabitCompletion
	for _, c := range s.completions {
		if c.HabitID == habitID && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memHabitStore) CountCompletionsSince(_ context.Context, userID string, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.completions {
		if c.UserID == userID && !c.Date.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *memHabitStore) CreateMemo(_ context.Context, m *model.HabitMemo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memos[m.ID] = m
	return nil
}

func (s *memHabitStore) ListMemos(_ context.Context, userID, habitID string) ([]*model.HabitMemo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.HabitMemo
	for _, m := range s.memos {
		if m.UserID == userID && m.HabitID == habitID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memHabitStore) UpdateMemo(_ context.Context, m *model.HabitMemo) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.memos[m.ID]; ok && old.UserID == m.UserID && old.HabitID == m.HabitID {
		m.CreatedAt = old.CreatedAt
		s.memos[m.ID] = m
		return 1, nil
	}
	return 0, nil
}

func (s *memHabitStore) DeleteMemo(_ context.Context, userID, habitID, memoID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.memos[memoID]; ok && m.UserID == userID && m.HabitID == habitID {
		delete(s.memos, memoID)
		return 1, nil
	}
	return 0, nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func completions(counts map[string]int) []*model.HabitCompletion {
	var out []*model.HabitCompletion
	for d, n := range counts {
		out = append(out, &model.HabitCompletion{Date: day(d), Count: n})
	}
	return out
}

func TestStreakDaily(t *testing.T) {
	h := &model.Habit{ID: "h", Frequency: model.HabitDaily, TargetCount: 1}
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	s := ComputeStreak(h, completions(map[string]int{
		"2024-03-10": 1, "2024-03-09": 1, "2024-03-08": 2,
		"2024-03-05": 1, "2024-03-04": 1, "2024-03-03": 1, "2024-03-02": 1,
	}), now)
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 4, s.Longest)
	require.NotNil(t, s.LastCompleted)
	assert.Equal(t, day("2024-03-10"), *s.LastCompleted)
}

func TestStreakTodayStillOpen(t *testing.T) {
	h := &model.Habit{ID: "h", Frequency: model.HabitDaily, TargetCount: 1}
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	s := ComputeStreak(h, completions(map[string]int{"2024-03-09": 1, "2024-03-08": 1}), now)
	assert.Equal(t, 2, s.Current)

	// a gap yesterday breaks it
	s = ComputeStreak(h, completions(map[string]int{"2024-03-08": 1, "2024-03-07": 1}), now)
	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 2, s.Longest)
}

func TestStreakTargetCount(t *testing.T) {
	h := &model.Habit{ID: "h", Frequency: model.HabitDaily, TargetCount: 3}
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	s := ComputeStreak(h, completions(map[string]int{"2024-03-10": 3, "2024-03-09": 2, "2024-03-08": 5}), now)
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 1, s.Longest)
}

func TestStreakWeekly(t *testing.T) {
	h := &model.Habit{ID: "h", Frequency: model.HabitWeekly, TargetCount: 2}
	now := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC) // Wednesday

	s := ComputeStreak(h, completions(map[string]int{
		"2024-03-11": 1, // this week, 1 of 2 so far
		"2024-03-04": 1, "2024-03-10": 1, // Mon and Sun of last week
		"2024-02-28": 2, // week before
		"2024-02-14": 2,
	}), now)
	assert.Equal(t, 2, s.Current)
	assert.Equal(t, 2, s.Longest)
}

func TestStreakEmpty(t *testing.T) {
	s := ComputeStreak(&model.Habit{ID: "h"}, nil, time.Now())
	assert.Zero(t, s.Current)
	assert.Zero(t, s.Longest)
	assert.Nil(t, s.LastCompleted)
}

func TestHabitLifecycle(t *testing.T) {
	store := newMemHabitStore()
	svc := NewHabitService(store)
	svc.now = fixedNow(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	h := &model.Habit{UserID: "u1", Title: " Run "}
	require.NoError(t, svc.CreateHabit(ctx, h))
	assert.Equal(t, model.HabitDaily, h.Frequency)
	assert.Equal(t, 1, h.TargetCount)
	assert.Equal(t, "Run", h.Title)

	_, err := svc.LogCompletion(ctx, "u1", h.ID, day("2024-03-09"), 1, "")
	require.NoError(t, err)
	_, err = svc.LogCompletion(ctx, "u1", h.ID, time.Time{}, 2, "felt good")
	require.NoError(t, err)
	_, err = svc.LogCompletion(ctx, "u1", h.ID, time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC), 1, "")
	require.NoError(t, err)
	assert.Len(t, store.completions, 2, "same day replaces")

	streak, err := svc.Streak(ctx, "u1", h.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Current)

	_, err = svc.LogCompletion(ctx, "u1", h.ID, day("2024-03-09"), 0, "")
	assert.True(t, IsValidation(err))
	_, err = svc.LogCompletion(ctx, "u2", h.ID, day("2024-03-09"), 1, "")
	assert.ErrorIs(t, err, ErrHabitNotFound)

	require.NoError(t, svc.RemoveCompletion(ctx, "u1", h.ID, day("2024-03-09")))
	assert.True(t, IsNotFound(svc.RemoveCompletion(ctx, "u1", h.ID, day("2024-03-09"))))

	memo := &model.HabitMemo{UserID: "u1", HabitID: h.ID, Content: "legs sore", Tags: []string{"Health", "health ", ""}}
	require.NoError(t, svc.AddMemo(ctx, memo))
	assert.Equal(t, []string{"health"}, memo.Tags)
	assert.Equal(t, day("2024-03-10"), memo.Date)

	require.NoError(t, svc.DeleteHabit(ctx, "u1", h.ID))
	assert.Empty(t, store.completions)
	assert.Empty(t, store.memos)
	assert.ErrorIs(t, svc.DeleteHabit(ctx, "u1", h.ID), ErrHabitNotFound)
}

func TestHabitValidation(t *testing.T) {
	svc := NewHabitService(newMemHabitStore())
	ctx := context.Background()

	assert.True(t, IsValidation(svc.CreateHabit(ctx, &model.Habit{UserID: "u1"})))
	assert.True(t, IsValidation(svc.CreateHabit(ctx, &model.Habit{UserID: "u1", Title: "x", Frequency: "hourly"})))
	assert.True(t, IsValidation(svc.CreateHabit(ctx, &model.Habit{UserID: "u1", Title: "x", TargetCount: -2})))
}

func TestMemoValidation(t *testing.T) {
	h := &model.Habit{ID: "h1", UserID: "u1", Title: "Read"}
	svc := NewHabitService(newMemHabitStore(h))
	ctx := context.Background()

	err := svc.AddMemo(ctx, &model.HabitMemo{UserID: "u1", HabitID: "h1", Content: "  "})
	assert.True(t, IsValidation(err))

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = string(rune('a' + i))
	}
	err = svc.AddMemo(ctx, &model.HabitMemo{UserID: "u1", HabitID: "h1", Content: "x", Tags: tags})
	assert.True(t, IsValidation(err))

	err = svc.UpdateMemo(ctx, &model.HabitMemo{ID: "missing", UserID: "u1", HabitID: "h1", Content: "x"})
	assert.ErrorIs(t, err, ErrMemoNotFound)
}
