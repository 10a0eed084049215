package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/utils"
)

const maxMemoTags = 10

// HabitStore persists habits, their per-day completions and memos.
// Lookups return nil, nil when no row matches.
type HabitStore interface {
	CreateHabit(ctx context.Context, habit *model.Habit) error
	GetHabitByID(ctx context.Context, userID, habitID string) (*model.Habit, error)
	ListHabits(ctx context.Context, userID string) ([]*model.Habit, error)
	UpdateHabit(ctx context.Context, habit *model.Habit) (int64, error)
	// DeleteHabit also removes the habit's completions and memos.
	DeleteHabit(ctx context.Context, userID, habitID string) (int64, error)

	UpsertCompletion(ctx context.Context, completion *model.HabitCompletion) error
	DeleteCompletion(ctx context.Context, userID, habitID string, date time.Time) (int64, error)
	ListCompletions(ctx context.Context, userID, habitID string) ([]*model.HabitCompletion, error)
	CountCompletionsSince(ctx context.Context, userID string, since time.Time) (int64, error)

	CreateMemo(ctx context.Context, memo *model.HabitMemo) error
	ListMemos(ctx context.Context, userID, habitID string) ([]*model.HabitMemo, error)
	UpdateMemo(ctx context.Context, memo *model.HabitMemo) (int64, error)
	DeleteMemo(ctx context.Context, userID, habitID, memoID string) (int64, error)
}

type HabitService struct {
	store HabitStore
	now   func() time.Time
}

func NewHabitService(store HabitStore) *HabitService {
	return &HabitService{store: store, now: time.Now}
}

func (svc *HabitService) CreateHabit(ctx context.Context, habit *model.Habit) error {
	if habit.UserID == "" {
		return ErrUserIDRequired
	}
	if err := normalizeHabit(habit); err != nil {
		return err
	}
	now := svc.now().UTC()
	habit.ID = utils.NewID()
	habit.CreatedAt = now
	habit.UpdatedAt = now
	return svc.store.CreateHabit(ctx, habit)
}

func (svc *HabitService) GetHabit(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit, err := svc.store.GetHabitByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, ErrHabitNotFound
	}
	return habit, nil
}

func (svc *HabitService) ListHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	habits, err := svc.store.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []*model.Habit{}
	}
	return habits, nil
}

func (svc *HabitService) UpdateHabit(ctx context.Context, habit *model.Habit) error {
	existing, err := svc.GetHabit(ctx, habit.UserID, habit.ID)
	if err != nil {
		return err
	}
	if err := normalizeHabit(habit); err != nil {
		return err
	}
	habit.CreatedAt = existing.CreatedAt
	habit.UpdatedAt = svc.now().UTC()
	n, err := svc.store.UpdateHabit(ctx, habit)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (svc *HabitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	n, err := svc.store.DeleteHabit(ctx, userID, habitID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// LogCompletion records count completions for the calendar day of date,
// replacing whatever was logged for that day before.
func (svc *HabitService) LogCompletion(ctx context.Context, userID, habitID string, date time.Time, count int, notes string) (*model.HabitCompletion, error) {
	if count < 1 {
		return nil, invalid("count", "must be at least 1")
	}
	if date.IsZero() {
		date = svc.now()
	}
	if _, err := svc.GetHabit(ctx, userID, habitID); err != nil {
		return nil, err
	}

	completion := &model.HabitCompletion{
		ID:      utils.NewID(),
		HabitID: habitID,
		UserID:  userID,
		Date:    utils.DateOf(date),
		Count:   count,
		Notes:   strings.TrimSpace(notes),
	}
	if err := svc.store.UpsertCompletion(ctx, completion); err != nil {
		return nil, err
	}
	utils.HabitCompletions.Inc()
	return completion, nil
}

func (svc *HabitService) RemoveCompletion(ctx context.Context, userID, habitID string, date time.Time) error {
	if _, err := svc.GetHabit(ctx, userID, habitID); err != nil {
		return err
	}
	n, err := svc.store.DeleteCompletion(ctx, userID, habitID, utils.DateOf(date))
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{Resource: "Completion"}
	}
	return nil
}

func (svc *HabitService) Streak(ctx context.Context, userID, habitID string) (*model.HabitStreak, error) {
	habit, err := svc.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	completions, err := svc.store.ListCompletions(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	streak := ComputeStreak(habit, completions, svc.now())
	return &streak, nil
}

func (svc *HabitService) CompletionsSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	return svc.store.CountCompletionsSince(ctx, userID, since)
}

func (svc *HabitService) AddMemo(ctx context.Context, memo *model.HabitMemo) error {
	if _, err := svc.GetHabit(ctx, memo.UserID, memo.HabitID); err != nil {
		return err
	}
	if err := svc.normalizeMemo(memo); err != nil {
		return err
	}
	now := svc.now().UTC()
	memo.ID = utils.NewID()
	memo.CreatedAt = now
	memo.UpdatedAt = now
	return svc.store.CreateMemo(ctx, memo)
}

func (svc *HabitService) ListMemos(ctx context.Context, userID, habitID string) ([]*model.HabitMemo, error) {
	if _, err := svc.GetHabit(ctx, userID, habitID); err != nil {
		return nil, err
	}
	memos, err := svc.store.ListMemos(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if memos == nil {
		memos = []*model.HabitMemo{}
	}
	return memos, nil
}

func (svc *HabitService) UpdateMemo(ctx context.Context, memo *model.HabitMemo) error {
	if err := svc.normalizeMemo(memo); err != nil {
		return err
	}
	memo.UpdatedAt = svc.now().UTC()
	n, err := svc.store.UpdateMemo(ctx, memo)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMemoNotFound
	}
	return nil
}

func (svc *HabitService) DeleteMemo(ctx context.Context, userID, habitID, memoID string) error {
	n, err := svc.store.DeleteMemo(ctx, userID, habitID, memoID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMemoNotFound
	}
	return nil
}

func (svc *HabitService) normalizeMemo(memo *model.HabitMemo) error {
	memo.Content = strings.TrimSpace(memo.Content)
	if memo.Content == "" {
		return invalid("content", "is required")
	}
	if memo.Date.IsZero() {
		memo.Date = svc.now()
	}
	memo.Date = utils.DateOf(memo.Date)

	tags := trimList(memo.Tags)
	for i := range tags {
		tags[i] = strings.ToLower(tags[i])
	}
	tags = trimList(tags)
	if len(tags) > maxMemoTags {
		return invalid("tags", "at most %d tags allowed", maxMemoTags)
	}
	memo.Tags = tags
	return nil
}

func normalizeHabit(h *model.Habit) error {
	h.Title = strings.TrimSpace(h.Title)
	if h.Title == "" {
		return invalid("title", "is required")
	}
	switch h.Frequency {
	case "":
		h.Frequency = model.HabitDaily
	case model.HabitDaily, model.HabitWeekly:
	default:
		return invalid("frequency", "must be daily or weekly")
	}
	if h.TargetCount == 0 {
		h.TargetCount = 1
	}
	if h.TargetCount < 1 {
		return invalid("target_count", "must be at least 1")
	}
	return nil
}
