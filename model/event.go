package model

import (
	"time"
)

type Frequency string

const (
	FrequencyDay   Frequency = "day"
	FrequencyWeek  Frequency = "week"
	FrequencyMonth Frequency = "month"
	FrequencyYear  Frequency = "year"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDay, FrequencyWeek, FrequencyMonth, FrequencyYear:
		return true
	}
	return false
}

// CalendarEvent is a stored calendar entry. The recurrence fields are empty
// for one-off events.
type CalendarEvent struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	Title        string    `bson:"title" json:"title"`
	Start        time.Time `bson:"start" json:"start"`
	End          time.Time `bson:"end" json:"end"`
	AllDay       bool      `bson:"all_day" json:"all_day"`
	Color        string    `bson:"color,omitempty" json:"color,omitempty"`
	Category     string    `bson:"category,omitempty" json:"category,omitempty"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Location     string    `bson:"location,omitempty" json:"location,omitempty"`
	URLs         []string  `bson:"urls,omitempty" json:"urls,omitempty"`
	NotifyBefore int       `bson:"notify_before" json:"notify_before"`

	Frequency  Frequency  `bson:"frequency,omitempty" json:"frequency,omitempty"`
	Interval   int        `bson:"interval,omitempty" json:"interval,omitempty"`
	ByWeekday  []string   `bson:"by_weekday,omitempty" json:"by_weekday,omitempty"`
	ByMonthday []int      `bson:"by_monthday,omitempty" json:"by_monthday,omitempty"`
	ByMonth    []string   `bson:"by_month,omitempty" json:"by_month,omitempty"`
	StartRecur *time.Time `bson:"start_recur,omitempty" json:"start_recur,omitempty"`
	EndRecur   *time.Time `bson:"end_recur,omitempty" json:"end_recur,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (e *CalendarEvent) IsRecurring() bool {
	return e.Frequency != ""
}

// Duration is the length of a single occurrence.
func (e *CalendarEvent) Duration() time.Duration {
	if e.End.Before(e.Start) {
		return 0
	}
	return e.End.Sub(e.Start)
}

// SameRecurrenceGroup reports whether two events belong to the same recurring
// series. Series have no identifier of their own: they are identified by the
// (frequency, interval, by-weekday, by-monthday, by-month) tuple, with the
// by-fields compared as sets.
func (e *CalendarEvent) SameRecurrenceGroup(other *CalendarEvent) bool {
	return e.Frequency == other.Frequency &&
		e.Interval == other.Interval &&
		sameSet(e.ByWeekday, other.ByWeekday) &&
		sameSet(e.ByMonthday, other.ByMonthday) &&
		sameSet(e.ByMonth, other.ByMonth)
}

func sameSet[T comparable](a, b []T) bool {
	return containsAll(a, b) && containsAll(b, a)
}

func containsAll[T comparable](set, items []T) bool {
	seen := make(map[T]struct{}, len(set))
	for _, v := range set {
		seen[v] = struct{}{}
	}
	for _, v := range items {
		if _, ok := seen[v]; !ok {
			return false
		}
	}
	return true
}

// Weekdays and Months are the accepted spellings of the by-weekday and
// by-month recurrence fields, in calendar order.
var (
	Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	Months   = []string{"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december"}
)

func IsWeekday(s string) bool {
	return indexOf(Weekdays, s) >= 0
}

// MonthNumber returns 1..12, or 0 for an unknown name.
func MonthNumber(s string) int {
	return indexOf(Months, s) + 1
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Occurrence is one concrete instance of an event inside a queried range.
type Occurrence struct {
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	AllDay    bool      `json:"all_day"`
	Color     string    `json:"color,omitempty"`
	Category  string    `json:"category,omitempty"`
	Recurring bool      `json:"recurring"`
}
