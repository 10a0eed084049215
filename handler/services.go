package handler

import (
	"context"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/usecase"
)

// The interfaces below are the usecase services as seen by the HTTP layer.

type EventService interface {
	CreateEvent(ctx context.Context, event *model.CalendarEvent) error
	GetEvent(ctx context.Context, userID, eventID string) (*model.CalendarEvent, error)
	ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*model.CalendarEvent, error)
	Occurrences(ctx context.Context, userID string, from, to time.Time) ([]model.Occurrence, error)
	UpdateEvent(ctx context.Context, event *model.CalendarEvent) error
	DeleteEvent(ctx context.Context, userID, eventID, deleteType string) (*usecase.DeleteResult, error)
	ExportICS(ctx context.Context, userID string) (string, error)
}

type GoalService interface {
	CreateGoal(ctx context.Context, goal *model.Goal) error
	GetGoal(ctx context.Context, userID, goalID string) (*model.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]*model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, userID, goalID string) error
	UpdateSubtaskStatus(ctx context.Context, userID, goalID, subtaskID string, status model.SubtaskStatus) error
	BulkUpdateSubtaskStatus(ctx context.Context, userID, goalID string, changes []usecase.SubtaskStatusChange) (*usecase.BulkStatusResult, error)
	Timeline(ctx context.Context, userID string, w usecase.Window) ([]usecase.TimelineItem, error)
	Board(ctx context.Context, userID, goalID string) ([]usecase.BoardColumn, error)
}

type HabitService interface {
	CreateHabit(ctx context.Context, habit *model.Habit) error
	GetHabit(ctx context.Context, userID, habitID string) (*model.Habit, error)
	ListHabits(ctx context.Context, userID string) ([]*model.Habit, error)
	UpdateHabit(ctx context.Context, habit *model.Habit) error
	DeleteHabit(ctx context.Context, userID, habitID string) error
	LogCompletion(ctx context.Context, userID, habitID string, date time.Time, count int, notes string) (*model.HabitCompletion, error)
	RemoveCompletion(ctx context.Context, userID, habitID string, date time.Time) error
	Streak(ctx context.Context, userID, habitID string) (*model.HabitStreak, error)
	AddMemo(ctx context.Context, memo *model.HabitMemo) error
	ListMemos(ctx context.Context, userID, habitID string) ([]*model.HabitMemo, error)
	UpdateMemo(ctx context.Context, memo *model.HabitMemo) error
	DeleteMemo(ctx context.Context, userID, habitID, memoID string) error
}

type SettingService interface {
	ListSettings(ctx context.Context, userID string) ([]*model.Setting, error)
	CreateSetting(ctx context.Context, setting *model.Setting) error
	UpdateSetting(ctx context.Context, setting *model.Setting) error
	Toggle(ctx context.Context, userID, settingID string) (*model.Setting, error)
	DeleteSetting(ctx context.Context, userID, settingID string) error
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken, sessionID string) error
	ActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
	LogoutAll(ctx context.Context, userID string) error
	Profile(ctx context.Context, userID string) (*model.User, error)
	DeleteAccount(ctx context.Context, userID, accessToken string) error
	SetupTwoFactor(ctx context.Context, userID string) (*usecase.TwoFactorSetup, error)
	EnableTwoFactor(ctx context.Context, userID, secret, code string) ([]string, error)
	DisableTwoFactor(ctx context.Context, userID, code string) error
}

type StatsService interface {
	UserStats(ctx context.Context, userID string) (*model.UserStats, error)
}
