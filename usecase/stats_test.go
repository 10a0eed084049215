package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysAgo(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC), DaysAgo(now, 6))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), DaysAgo(now, 0))
}

func TestUserStats(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	user, err := f.svc.Register(ctx, "alice", "alice@example.com", "passw0rd!")
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, LoginInput{Username: "alice", Password: "passw0rd!"})
	require.NoError(t, err)

	uid := user.UserID
	events := NewEventService(newMemEventStore(
		weekly("e1", uid, "monday"),
		oneOff("e2", uid),
		oneOff("e3", "someone-else"),
	))

	done := sampleGoal()
	done.ID, done.UserID = "g2", uid
	for i := range done.Subtasks {
		done.Subtasks[i].Status = model.StatusDone
	}
	open := sampleGoal()
	open.UserID = uid
	goals := NewGoalService(newMemGoalStore(open, done))

	habitStore := newMemHabitStore(&model.Habit{ID: "h1", UserID: uid, Title: "read"})
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, d := range []string{"2024-03-10", "2024-03-04", "2024-03-03"} {
		require.NoError(t, habitStore.UpsertCompletion(ctx, &model.HabitCompletion{
			HabitID: "h1", UserID: uid, Date: day(d), Count: 1,
		}))
	}
	habits := NewHabitService(habitStore)

	svc := NewStatsService(f.svc, events, goals, habits)
	svc.now = fixedNow(now)

	stats, err := svc.UserStats(ctx, uid)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.EventStats.Total)
	assert.Equal(t, 1, stats.EventStats.Recurring)
	assert.Equal(t, 2, stats.GoalStats.Total)
	assert.Equal(t, 1, stats.GoalStats.Completed)
	assert.InDelta(t, 0.5, stats.GoalStats.AverageCompletion, 1e-9)
	assert.Equal(t, 1, stats.HabitStats.Total)
	assert.Equal(t, 2, stats.HabitStats.CompletionsLastWeek)
	assert.Equal(t, 1, stats.ActivityStats.ActiveSessions)
	assert.False(t, stats.ActivityStats.LastActive.IsZero())
}

func TestUserStatsUnknownUser(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewStatsService(f.svc,
		NewEventService(newMemEventStore()),
		NewGoalService(newMemGoalStore()),
		NewHabitService(newMemHabitStore()))

	_, err := svc.UserStats(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
