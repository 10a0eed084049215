package services

import (
	"fmt"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"

	ical "github.com/arran4/golang-ical"
)

const calendarProductID = "time-track"

// RenderCalendar serialises events as an iCalendar feed. Recurring events
// carry their RRULE so clients expand them natively.
func RenderCalendar(name string, events []*model.CalendarEvent, now time.Time) (string, error) {
	cal := ical.NewCalendarFor(calendarProductID)
	cal.SetMethod(ical.MethodPublish)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		if err := addEvent(cal, ev, now); err != nil {
			return "", err
		}
	}
	return cal.Serialize(), nil
}

func addEvent(cal *ical.Calendar, ev *model.CalendarEvent, now time.Time) error {
	vev := cal.AddEvent(ev.ID + "@" + calendarProductID)
	vev.SetDtStampTime(now)
	vev.SetSummary(ev.Title)

	start := ev.Start
	if ev.StartRecur != nil && ev.IsRecurring() {
		start = seriesStart(ev)
	}
	end := start.Add(ev.Duration())

	if ev.AllDay {
		vev.SetAllDayStartAt(start)
		if !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}
		vev.SetAllDayEndAt(end)
	} else {
		vev.SetStartAt(start)
		vev.SetEndAt(end)
	}

	if ev.Description != "" {
		vev.SetDescription(ev.Description)
	}
	if ev.Location != "" {
		vev.SetLocation(ev.Location)
	}
	if ev.Category != "" {
		vev.AddCategory(ev.Category)
	}
	if ev.Color != "" {
		vev.SetColor(ev.Color)
	}
	if len(ev.URLs) > 0 {
		vev.SetURL(ev.URLs[0])
	}

	if ev.IsRecurring() {
		opt, err := RecurrenceOption(ev)
		if err != nil {
			return fmt.Errorf("event %s: %w", ev.ID, err)
		}
		vev.AddRrule(opt.RRuleString())
	}

	if ev.NotifyBefore > 0 {
		alarm := vev.AddAlarm()
		alarm.SetAction(ical.ActionDisplay)
		alarm.SetTrigger(fmt.Sprintf("-PT%dM", ev.NotifyBefore))
	}
	return nil
}

