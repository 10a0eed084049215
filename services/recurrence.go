package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"

	"github.com/teambition/rrule-go"
)

// MaxOccurrencesPerEvent caps expansion of a single series.
const MaxOccurrencesPerEvent = 5000

var (
	rruleFrequencies = map[model.Frequency]rrule.Frequency{
		model.FrequencyDay:   rrule.DAILY,
		model.FrequencyWeek:  rrule.WEEKLY,
		model.FrequencyMonth: rrule.MONTHLY,
		model.FrequencyYear:  rrule.YEARLY,
	}
	rruleWeekdays = map[string]rrule.Weekday{
		"monday":    rrule.MO,
		"tuesday":   rrule.TU,
		"wednesday": rrule.WE,
		"thursday":  rrule.TH,
		"friday":    rrule.FR,
		"saturday":  rrule.SA,
		"sunday":    rrule.SU,
	}
)

// RecurrenceOption maps the stored recurrence fields of ev onto an RRULE.
// The series starts at start_recur when set, keeping the time of day of start.
func RecurrenceOption(ev *model.CalendarEvent) (*rrule.ROption, error) {
	freq, ok := rruleFrequencies[ev.Frequency]
	if !ok {
		return nil, fmt.Errorf("unsupported frequency %q", ev.Frequency)
	}

	opt := &rrule.ROption{
		Freq:       freq,
		Dtstart:    seriesStart(ev),
		Interval:   ev.Interval,
		Bymonthday: ev.ByMonthday,
	}
	if opt.Interval < 1 {
		opt.Interval = 1
	}
	if ev.EndRecur != nil {
		opt.Until = *ev.EndRecur
	}
	for _, name := range ev.ByWeekday {
		wd, ok := rruleWeekdays[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		opt.Byweekday = append(opt.Byweekday, wd)
	}
	for _, name := range ev.ByMonth {
		m := model.MonthNumber(name)
		if m == 0 {
			return nil, fmt.Errorf("unknown month %q", name)
		}
		opt.Bymonth = append(opt.Bymonth, m)
	}
	return opt, nil
}

func seriesStart(ev *model.CalendarEvent) time.Time {
	if ev.StartRecur == nil {
		return ev.Start
	}
	y, m, d := ev.StartRecur.Date()
	hh, mm, ss := ev.Start.Clock()
	return time.Date(y, m, d, hh, mm, ss, ev.Start.Nanosecond(), ev.Start.Location())
}

// ExpandEvent returns the occurrences of ev overlapping [from, to], sorted by
// start, and whether the per-event cap cut the list short.
func ExpandEvent(ev *model.CalendarEvent, from, to time.Time) ([]model.Occurrence, bool, error) {
	dur := ev.Duration()

	if !ev.IsRecurring() {
		if ev.Start.After(to) || ev.End.Before(from) {
			return nil, false, nil
		}
		return []model.Occurrence{makeOccurrence(ev, ev.Start, ev.End)}, false, nil
	}

	opt, err := RecurrenceOption(ev)
	if err != nil {
		return nil, false, err
	}
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, false, fmt.Errorf("invalid recurrence for event %s: %w", ev.ID, err)
	}

	// Occurrences that started before from but are still running overlap too.
	starts := r.Between(from.Add(-dur), to, true)
	hitCap := false
	if len(starts) > MaxOccurrencesPerEvent {
		starts = starts[:MaxOccurrencesPerEvent]
		hitCap = true
	}

	out := make([]model.Occurrence, 0, len(starts))
	for _, start := range starts {
		out = append(out, makeOccurrence(ev, start, start.Add(dur)))
	}
	return out, hitCap, nil
}

// ExpandEvents expands every event and merges the result by start time.
// Events whose recurrence cannot be interpreted are reported in skipped.
func ExpandEvents(events []*model.CalendarEvent, from, to time.Time) (occurrences []model.Occurrence, skipped []string) {
	for _, ev := range events {
		occ, _, err := ExpandEvent(ev, from, to)
		if err != nil {
			skipped = append(skipped, ev.ID)
			continue
		}
		occurrences = append(occurrences, occ...)
	}
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Start.Before(occurrences[j].Start)
	})
	return occurrences, skipped
}

func makeOccurrence(ev *model.CalendarEvent, start, end time.Time) model.Occurrence {
	return model.Occurrence{
		EventID:   ev.ID,
		Title:     ev.Title,
		Start:     start,
		End:       end,
		AllDay:    ev.AllDay,
		Color:     ev.Color,
		Category:  ev.Category,
		Recurring: ev.IsRecurring(),
	}
}
