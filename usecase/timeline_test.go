package usecase

import (
	"testing"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func goalSpan(start, due string) *model.Goal {
	return &model.Goal{ID: start + "/" + due, StartDate: day(start), DueDate: day(due)}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(day("2024-03-01"), day("2024-03-01").Add(23*time.Hour)))
	assert.Equal(t, 9, DaysBetween(day("2024-03-01"), day("2024-03-10")))
	assert.Equal(t, -3, DaysBetween(day("2024-03-10"), day("2024-03-07")))
	// DST-free by construction: across March in UTC still counts whole days
	assert.Equal(t, 31, DaysBetween(day("2024-03-01"), day("2024-04-01")))
}

func TestWindowEnd(t *testing.T) {
	w := Window{Start: day("2024-03-01"), Days: 30}
	assert.Equal(t, day("2024-03-30"), w.End())
	assert.Error(t, Window{Start: day("2024-03-01")}.Validate())
	assert.NoError(t, w.Validate())
}

func TestVisible(t *testing.T) {
	w := Window{Start: day("2024-03-01"), Days: 30}

	tests := []struct {
		name  string
		goal  *model.Goal
		shown bool
	}{
		{"inside", goalSpan("2024-03-05", "2024-03-10"), true},
		{"covers window", goalSpan("2024-02-01", "2024-05-01"), true},
		{"ends on first day", goalSpan("2024-02-01", "2024-03-01"), true},
		{"starts on last day", goalSpan("2024-03-30", "2024-04-10"), true},
		{"entirely before", goalSpan("2024-01-01", "2024-02-29"), false},
		{"entirely after", goalSpan("2024-03-31", "2024-04-10"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.shown, Visible(tt.goal, w))
		})
	}
}

func TestLayout(t *testing.T) {
	w := Window{Start: day("2024-03-01"), Days: 10}

	bar := Layout(goalSpan("2024-03-03", "2024-03-07"), w)
	assert.InDelta(t, 20.0, bar.Left, 1e-9)
	assert.InDelta(t, 50.0, bar.Width, 1e-9)

	// clipped on both sides
	bar = Layout(goalSpan("2024-02-01", "2024-04-01"), w)
	assert.InDelta(t, 0.0, bar.Left, 1e-9)
	assert.InDelta(t, 100.0, bar.Width, 1e-9)

	// inverted dates fall back to the floor
	bar = Layout(goalSpan("2024-03-05", "2024-03-02"), w)
	assert.Equal(t, MinBarWidth, bar.Width)
}

func TestLayoutSingleDayGetsMinimumWidth(t *testing.T) {
	w := Window{Start: day("2024-03-01"), Days: 30}
	bar := Layout(goalSpan("2024-03-15", "2024-03-15"), w)
	assert.GreaterOrEqual(t, bar.Width, MinBarWidth)
	assert.LessOrEqual(t, bar.Left+bar.Width, 100.0)
}

func TestBuildTimelineFiltersBeforeLayout(t *testing.T) {
	w := Window{Start: day("2024-03-01"), Days: 30}
	goals := []*model.Goal{
		goalSpan("2024-03-20", "2024-03-25"),
		goalSpan("2024-01-01", "2024-01-05"),
		goalSpan("2024-02-20", "2024-03-02"),
	}
	goals[0].Subtasks = []model.Subtask{{ID: "a", Status: model.StatusDone}}

	items := BuildTimeline(goals, w)
	require.Len(t, items, 2)
	assert.Same(t, goals[0], items[0].Goal)
	assert.Same(t, goals[2], items[1].Goal)
	assert.Equal(t, ColorComplete, items[0].Color)
	assert.Equal(t, ColorNone, items[1].Color)
}

func TestCompletionRate(t *testing.T) {
	g := &model.Goal{}
	assert.Equal(t, 0.0, CompletionRate(g))

	g.Subtasks = []model.Subtask{
		{ID: "1", Status: model.StatusDone},
		{ID: "2", Status: model.StatusInReview},
		{ID: "3", Status: model.StatusBacklog},
		{ID: "4", Status: model.StatusDone},
	}
	assert.Equal(t, 0.5, CompletionRate(g))
}

func TestCompletionColor(t *testing.T) {
	assert.Equal(t, "#22c55e", CompletionColor(1.0))
	assert.Equal(t, "#ef4444", CompletionColor(0.0))
	assert.Equal(t, "#f97316", CompletionColor(0.2))
	assert.Equal(t, "#eab308", CompletionColor(0.3))
	assert.Equal(t, "#eab308", CompletionColor(0.5))
	assert.Equal(t, "#84cc16", CompletionColor(0.7))
	assert.Equal(t, "#84cc16", CompletionColor(0.8))
}

func TestBoard(t *testing.T) {
	g := &model.Goal{Subtasks: []model.Subtask{
		{ID: "1", Status: model.StatusDone},
		{ID: "2", Status: model.StatusInProgress},
		{ID: "3", Status: model.StatusDone},
	}}

	cols := Board(g)
	require.Len(t, cols, 4)
	assert.Equal(t, model.StatusBacklog, cols[0].Status)
	assert.Empty(t, cols[0].Subtasks)
	assert.Len(t, cols[1].Subtasks, 1)
	assert.Empty(t, cols[2].Subtasks)
	assert.Equal(t, []string{"1", "3"}, []string{cols[3].Subtasks[0].ID, cols[3].Subtasks[1].ID})
}
