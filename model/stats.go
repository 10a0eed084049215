package model

import "time"

type UserStats struct {
	EventStats struct {
		Total     int `json:"total"`
		Recurring int `json:"recurring"`
	} `json:"event_stats"`
	GoalStats struct {
		Total             int     `json:"total"`
		Completed         int     `json:"completed"`
		AverageCompletion float64 `json:"average_completion"`
	} `json:"goal_stats"`
	HabitStats struct {
		Total               int `json:"total"`
		CompletionsLastWeek int `json:"completions_last_week"`
	} `json:"habit_stats"`
	ActivityStats struct {
		LastActive     time.Time `json:"last_active"`
		AccountCreated time.Time `json:"account_created"`
		ActiveSessions int       `json:"active_sessions"`
	} `json:"activity_stats"`
}
