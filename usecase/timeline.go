package usecase

import (
	"math"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/utils"
)

// MinBarWidth keeps zero and negative width bars visible.
const MinBarWidth = 2.0

// DaysBetween counts whole calendar days from a to b, ignoring the time of day.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	da, db := utils.DateOf(a), utils.DateOf(b)
	return int(math.Round(db.Sub(da).Hours() / 24))
}

// Window is a run of Days calendar days starting at Start.
type Window struct {
	Start time.Time
	Days  int
}

func (w Window) End() time.Time {
	return utils.DateOf(w.Start).AddDate(0, 0, w.Days-1)
}

func (w Window) Validate() error {
	if w.Start.IsZero() {
		return invalid("start", "window start is required")
	}
	if w.Days <= 0 {
		return invalid("days", "window length must be positive")
	}
	return nil
}

type Bar struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

type TimelineItem struct {
	Goal           *model.Goal `json:"goal"`
	Bar            Bar         `json:"bar"`
	CompletionRate float64     `json:"completion_rate"`
	Color          string      `json:"color"`
}

// Visible reports whether the goal overlaps the window at all.
func Visible(g *model.Goal, w Window) bool {
	return !utils.DateOf(g.StartDate).After(w.End()) && !utils.DateOf(g.DueDate).Before(utils.DateOf(w.Start))
}

// Layout positions the goal bar as percentages of the window width.
func Layout(g *model.Goal, w Window) Bar {
	startOffset := DaysBetween(w.Start, g.StartDate)
	if startOffset < 0 {
		startOffset = 0
	}
	endOffset := DaysBetween(w.Start, g.DueDate) + 1
	if endOffset > w.Days {
		endOffset = w.Days
	}

	days := float64(w.Days)
	width := float64(endOffset-startOffset) / days * 100
	if width < MinBarWidth {
		width = MinBarWidth
	}
	return Bar{
		Left:  float64(startOffset) / days * 100,
		Width: width,
	}
}

// BuildTimeline drops goals outside the window before laying out the rest,
// keeping input order.
func BuildTimeline(goals []*model.Goal, w Window) []TimelineItem {
	items := make([]TimelineItem, 0, len(goals))
	for _, g := range goals {
		if !Visible(g, w) {
			continue
		}
		rate := CompletionRate(g)
		items = append(items, TimelineItem{
			Goal:           g,
			Bar:            Layout(g, w),
			CompletionRate: rate,
			Color:          CompletionColor(rate),
		})
	}
	return items
}

func CompletionRate(g *model.Goal) float64 {
	if len(g.Subtasks) == 0 {
		return 0
	}
	done := 0
	for _, st := range g.Subtasks {
		if st.Status == model.StatusDone {
			done++
		}
	}
	return float64(done) / float64(len(g.Subtasks))
}

const (
	ColorComplete = "#22c55e"
	ColorNone     = "#ef4444"
	ColorLow      = "#f97316"
	ColorMid      = "#eab308"
	ColorHigh     = "#84cc16"
)

func CompletionColor(rate float64) string {
	switch {
	case rate == 1:
		return ColorComplete
	case rate == 0:
		return ColorNone
	case rate < 0.3:
		return ColorLow
	case rate < 0.7:
		return ColorMid
	default:
		return ColorHigh
	}
}

type BoardColumn struct {
	Status   model.SubtaskStatus `json:"status"`
	Subtasks []model.Subtask     `json:"subtasks"`
}

// Board groups subtasks into the kanban columns, always returning all four.
func Board(g *model.Goal) []BoardColumn {
	cols := make([]BoardColumn, len(model.KanbanColumns))
	index := make(map[model.SubtaskStatus]int, len(model.KanbanColumns))
	for i, status := range model.KanbanColumns {
		cols[i] = BoardColumn{Status: status, Subtasks: []model.Subtask{}}
		index[status] = i
	}
	for _, st := range g.Subtasks {
		i, ok := index[st.Status]
		if !ok {
			i = 0
		}
		cols[i].Subtasks = append(cols[i].Subtasks, st)
	}
	return cols
}
