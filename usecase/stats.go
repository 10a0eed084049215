package usecase

import (
	"context"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
)

// StatsService aggregates per-user counts across the domain services.
type StatsService struct {
	auth   *AuthService
	events *EventService
	goals  *GoalService
	habits *HabitService
	now    func() time.Time
}

func NewStatsService(auth *AuthService, events *EventService, goals *GoalService, habits *HabitService) *StatsService {
	return &StatsService{auth: auth, events: events, goals: goals, habits: habits, now: time.Now}
}

func (svc *StatsService) UserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	user, err := svc.auth.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{}

	total, recurring, err := svc.events.CountEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.EventStats.Total = int(total)
	stats.EventStats.Recurring = int(recurring)

	goals, err := svc.goals.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	var rateSum float64
	for _, g := range goals {
		rate := CompletionRate(g)
		rateSum += rate
		if rate == 1 {
			stats.GoalStats.Completed++
		}
	}
	stats.GoalStats.Total = len(goals)
	if len(goals) > 0 {
		stats.GoalStats.AverageCompletion = rateSum / float64(len(goals))
	}

	habits, err := svc.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.HabitStats.Total = len(habits)
	weekAgo := DaysAgo(svc.now(), 6)
	completions, err := svc.habits.CompletionsSince(ctx, userID, weekAgo)
	if err != nil {
		return nil, err
	}
	stats.HabitStats.CompletionsLastWeek = int(completions)

	sessions, err := svc.auth.ActiveSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.ActivityStats.AccountCreated = user.CreatedAt
	stats.ActivityStats.ActiveSessions = len(sessions)
	for _, s := range sessions {
		if s.LastActivityAt.After(stats.ActivityStats.LastActive) {
			stats.ActivityStats.LastActive = s.LastActivityAt
		}
	}
	return stats, nil
}

// DaysAgo is the calendar day n days before now, at midnight UTC.
func DaysAgo(now time.Time, n int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d-n, 0, 0, 0, 0, time.UTC)
}
