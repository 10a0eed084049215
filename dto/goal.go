package dto

import (
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"
)

type SubtaskRequest struct {
	ID     string `json:"id"`
	Title  string `json:"title" binding:"required"`
	Status string `json:"status" binding:"omitempty,subtaskstatus"`
}

type ResourceRequest struct {
	Label string `json:"label"`
	URL   string `json:"url" binding:"required,url"`
}

// GoalRequest carries dates as calendar days (YYYY-MM-DD).
type GoalRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	StartDate   string            `json:"start_date" binding:"required"`
	DueDate     string            `json:"due_date" binding:"required"`
	Category    string            `json:"category"`
	Resources   []ResourceRequest `json:"resources" binding:"omitempty,dive"`
	Subtasks    []SubtaskRequest  `json:"subtasks" binding:"omitempty,dive"`
}

// ToModel fails with a usecase.ValidationError naming the bad date field.
func (r *GoalRequest) ToModel(userID string) (*model.Goal, error) {
	start, err := utils.ParseDate(r.StartDate)
	if err != nil {
		return nil, &usecase.ValidationError{Field: "start_date", Message: err.Error()}
	}
	due, err := utils.ParseDate(r.DueDate)
	if err != nil {
		return nil, &usecase.ValidationError{Field: "due_date", Message: err.Error()}
	}

	goal := &model.Goal{
		UserID:      userID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   start,
		DueDate:     due,
		Category:    r.Category,
	}
	for _, res := range r.Resources {
		goal.Resources = append(goal.Resources, model.Resource{Label: res.Label, URL: res.URL})
	}
	for _, st := range r.Subtasks {
		goal.Subtasks = append(goal.Subtasks, model.Subtask{ID: st.ID, Title: st.Title, Status: model.SubtaskStatus(st.Status)})
	}
	return goal, nil
}

type SubtaskStatusRequest struct {
	Status model.SubtaskStatus `json:"status" binding:"required,subtaskstatus"`
}

type BulkSubtaskStatusRequest struct {
	Changes []usecase.SubtaskStatusChange `json:"changes" binding:"required,min=1,dive"`
}

type GoalResponse struct {
	*model.Goal
	CompletionRate float64 `json:"completion_rate"`
	DaysRemaining  int     `json:"days_remaining"`
}

func ToGoalResponse(g *model.Goal, now time.Time) GoalResponse {
	return GoalResponse{
		Goal:           g,
		CompletionRate: usecase.CompletionRate(g),
		DaysRemaining:  usecase.DaysBetween(now, g.DueDate),
	}
}

func ToGoalResponses(goals []*model.Goal, now time.Time) []GoalResponse {
	out := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, ToGoalResponse(g, now))
	}
	return out
}
