package model

import "time"

type HabitFrequency string

const (
	HabitDaily  HabitFrequency = "daily"
	HabitWeekly HabitFrequency = "weekly"
)

type Habit struct {
	ID          string         `bson:"_id,omitempty" json:"id"`
	UserID      string         `bson:"user_id" json:"user_id"`
	Title       string         `bson:"title" json:"title"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Color       string         `bson:"color,omitempty" json:"color,omitempty"`
	Category    string         `bson:"category,omitempty" json:"category,omitempty"`
	Frequency   HabitFrequency `bson:"frequency" json:"frequency"`
	TargetCount int            `bson:"target_count" json:"target_count"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updated_at"`
}

// HabitCompletion records how many times a habit was done on one calendar day.
// There is at most one completion per habit and day.
type HabitCompletion struct {
	ID      string    `bson:"_id,omitempty" json:"id"`
	HabitID string    `bson:"habit_id" json:"habit_id"`
	UserID  string    `bson:"user_id" json:"user_id"`
	Date    time.Time `bson:"date" json:"date"`
	Count   int       `bson:"count" json:"count"`
	Notes   string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

type HabitMemo struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	HabitID   string    `bson:"habit_id" json:"habit_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Content   string    `bson:"content" json:"content"`
	Date      time.Time `bson:"date" json:"date"`
	Tags      []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type HabitStreak struct {
	HabitID       string     `json:"habit_id"`
	Current       int        `json:"current"`
	Longest       int        `json:"longest"`
	LastCompleted *time.Time `json:"last_completed,omitempty"`
}
