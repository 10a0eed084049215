package dto

import (
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"
)

type HabitRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	Category    string `json:"category"`
	Frequency   string `json:"frequency" binding:"habitfrequency"`
	TargetCount int    `json:"target_count" binding:"min=0"`
}

func (r *HabitRequest) ToModel(userID string) *model.Habit {
	return &model.Habit{
		UserID:      userID,
		Title:       r.Title,
		Description: r.Description,
		Color:       r.Color,
		Category:    r.Category,
		Frequency:   model.HabitFrequency(r.Frequency),
		TargetCount: r.TargetCount,
	}
}

// CompletionRequest logs completions for Date, or for today when Date is empty.
type CompletionRequest struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Notes string `json:"notes"`
}

func (r *CompletionRequest) Day() (time.Time, error) {
	return optionalDate("date", r.Date)
}

type MemoRequest struct {
	Content string   `json:"content" binding:"required"`
	Date    string   `json:"date"`
	Tags    []string `json:"tags" binding:"max=10"`
}

func (r *MemoRequest) ToModel(userID, habitID string) (*model.HabitMemo, error) {
	date, err := optionalDate("date", r.Date)
	if err != nil {
		return nil, err
	}
	return &model.HabitMemo{
		UserID:  userID,
		HabitID: habitID,
		Content: r.Content,
		Date:    date,
		Tags:    r.Tags,
	}, nil
}

func optionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}, &usecase.ValidationError{Field: field, Message: err.Error()}
	}
	return t, nil
}
