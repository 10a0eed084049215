package usecase

import (
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/utils"
)

// periodKey identifies the day, or the Monday of the ISO week for weekly
// habits, that a date counts toward.
func periodKey(freq model.HabitFrequency, t time.Time) time.Time {
	d := utils.DateOf(t)
	if freq != model.HabitWeekly {
		return d
	}
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func previousPeriod(freq model.HabitFrequency, p time.Time) time.Time {
	if freq == model.HabitWeekly {
		return p.AddDate(0, 0, -7)
	}
	return p.AddDate(0, 0, -1)
}

// ComputeStreak derives the current and longest streaks. A period is met when
// its completions add up to the target. The current streak ends today, or at
// the previous period while today's is still open.
func ComputeStreak(habit *model.Habit, completions []*model.HabitCompletion, now time.Time) model.HabitStreak {
	streak := model.HabitStreak{HabitID: habit.ID}

	target := habit.TargetCount
	if target < 1 {
		target = 1
	}

	totals := make(map[time.Time]int)
	for _, c := range completions {
		totals[periodKey(habit.Frequency, c.Date)] += c.Count
		if streak.LastCompleted == nil || c.Date.After(*streak.LastCompleted) {
			d := c.Date
			streak.LastCompleted = &d
		}
	}

	met := make(map[time.Time]bool, len(totals))
	for p, n := range totals {
		if n >= target {
			met[p] = true
		}
	}

	cursor := periodKey(habit.Frequency, now)
	if !met[cursor] {
		cursor = previousPeriod(habit.Frequency, cursor)
	}
	for met[cursor] {
		streak.Current++
		cursor = previousPeriod(habit.Frequency, cursor)
	}

	for p := range met {
		if met[previousPeriod(habit.Frequency, p)] {
			continue
		}
		run := 0
		for q := p; met[q]; q = nextPeriod(habit.Frequency, q) {
			run++
		}
		if run > streak.Longest {
			streak.Longest = run
		}
	}
	return streak
}

func nextPeriod(freq model.HabitFrequency, p time.Time) time.Time {
	if freq == model.HabitWeekly {
		return p.AddDate(0, 0, 7)
	}
	return p.AddDate(0, 0, 1)
}
