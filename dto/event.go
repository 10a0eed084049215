package dto

import (
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
)

// EventRequest is the create and update body for calendar events. Times are
// RFC 3339.
type EventRequest struct {
	Title        string     `json:"title" binding:"required"`
	Start        time.Time  `json:"start" binding:"required"`
	End          time.Time  `json:"end"`
	AllDay       bool       `json:"all_day"`
	Color        string     `json:"color" binding:"omitempty,hexcolor"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	URLs         []string   `json:"urls"`
	NotifyBefore int        `json:"notify_before" binding:"min=0"`
	Frequency    string     `json:"frequency" binding:"omitempty,oneof=day week month year"`
	Interval     int        `json:"interval" binding:"min=0"`
	ByWeekday    []string   `json:"by_weekday" binding:"omitempty,dive,weekday"`
	ByMonthday   []int      `json:"by_monthday"`
	ByMonth      []string   `json:"by_month" binding:"omitempty,dive,month"`
	StartRecur   *time.Time `json:"start_recur"`
	EndRecur     *time.Time `json:"end_recur"`
}

func (r *EventRequest) ToModel(userID string) *model.CalendarEvent {
	return &model.CalendarEvent{
		UserID:       userID,
		Title:        r.Title,
		Start:        r.Start,
		End:          r.End,
		AllDay:       r.AllDay,
		Color:        r.Color,
		Category:     r.Category,
		Description:  r.Description,
		Location:     r.Location,
		URLs:         r.URLs,
		NotifyBefore: r.NotifyBefore,
		Frequency:    model.Frequency(r.Frequency),
		Interval:     r.Interval,
		ByWeekday:    r.ByWeekday,
		ByMonthday:   r.ByMonthday,
		ByMonth:      r.ByMonth,
		StartRecur:   r.StartRecur,
		EndRecur:     r.EndRecur,
	}
}
