package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/services"
	"github.com/pankaj3399/time-track-sub001/utils"
)

// EventStore is the persistence the event service needs. Every method is
// scoped to the owning user. GetEventByID returns nil, nil when no row matches.
type EventStore interface {
	CreateEvent(ctx context.Context, event *model.CalendarEvent) error
	GetEventByID(ctx context.Context, userID, eventID string) (*model.CalendarEvent, error)
	ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*model.CalendarEvent, error)
	ListAllEvents(ctx context.Context, userID string) ([]*model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, event *model.CalendarEvent) (int64, error)
	DeleteEvent(ctx context.Context, userID, eventID string) (int64, error)
	SetEndRecur(ctx context.Context, userID, eventID string, endRecur time.Time) (int64, error)
	DeleteRecurrenceGroup(ctx context.Context, userID string, group *model.CalendarEvent) (int64, error)
	CountEvents(ctx context.Context, userID string) (total, recurring int64, err error)
}

type DeleteType string

const (
	DeleteCurrent          DeleteType = "current"
	DeleteCurrentAndFuture DeleteType = "current-and-future"
	DeleteAll              DeleteType = "all"
)

// ParseDeleteType defaults the empty selector to current.
func ParseDeleteType(s string) (DeleteType, error) {
	switch DeleteType(s) {
	case "":
		return DeleteCurrent, nil
	case DeleteCurrent, DeleteCurrentAndFuture, DeleteAll:
		return DeleteType(s), nil
	}
	return "", invalid("deleteType", "must be one of current, current-and-future, all")
}

// DeleteResult reports what a delete request touched. Deleted and Truncated
// are both zero when a series-wide delete type hits a one-off event.
type DeleteResult struct {
	DeleteType DeleteType `json:"delete_type"`
	Deleted    int64      `json:"deleted"`
	Truncated  int64      `json:"truncated"`
}

func (r *DeleteResult) NoOp() bool {
	return r.Deleted == 0 && r.Truncated == 0
}

type EventService struct {
	store EventStore
	now   func() time.Time
}

func NewEventService(store EventStore) *EventService {
	return &EventService{store: store, now: time.Now}
}

func (svc *EventService) CreateEvent(ctx context.Context, event *model.CalendarEvent) error {
	if event.UserID == "" {
		return ErrUserIDRequired
	}
	if err := normalizeEvent(event); err != nil {
		return err
	}

	now := svc.now().UTC()
	event.ID = utils.NewID()
	event.CreatedAt = now
	event.UpdatedAt = now
	return svc.store.CreateEvent(ctx, event)
}

func (svc *EventService) GetEvent(ctx context.Context, userID, eventID string) (*model.CalendarEvent, error) {
	event, err := svc.store.GetEventByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents returns the stored events overlapping [from, to]. Recurring
// events are returned once, as stored.
func (svc *EventService) ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*model.CalendarEvent, error) {
	if to.Before(from) {
		return nil, invalid("end", "range end is before range start")
	}
	return svc.store.ListEvents(ctx, userID, from, to)
}

// Occurrences expands recurring events into concrete instances inside [from, to].
func (svc *EventService) Occurrences(ctx context.Context, userID string, from, to time.Time) ([]model.Occurrence, error) {
	events, err := svc.ListEvents(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	occurrences, skipped := services.ExpandEvents(events, from, to)
	if len(skipped) > 0 {
		utils.Logger.Warn().Str("user_id", userID).Strs("event_ids", skipped).
			Msg("skipped events with unreadable recurrence")
	}
	if occurrences == nil {
		occurrences = []model.Occurrence{}
	}
	return occurrences, nil
}

func (svc *EventService) UpdateEvent(ctx context.Context, event *model.CalendarEvent) error {
	existing, err := svc.GetEvent(ctx, event.UserID, event.ID)
	if err != nil {
		return err
	}
	if err := normalizeEvent(event); err != nil {
		return err
	}

	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = svc.now().UTC()
	matched, err := svc.store.UpdateEvent(ctx, event)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrEventNotFound
	}
	return nil
}

// DeleteEvent resolves a delete request against one stored event:
//
//   - current removes only that row, recurring or not.
//   - current-and-future ends the series at the row's own start, keeping the row.
//   - all removes every row of the user in the same recurrence group.
//
// The last two do nothing for one-off events.
func (svc *EventService) DeleteEvent(ctx context.Context, userID, eventID, deleteType string) (*DeleteResult, error) {
	dt, err := ParseDeleteType(deleteType)
	if err != nil {
		return nil, err
	}

	event, err := svc.store.GetEventByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		utils.TrackEventDeletion(string(dt), "not_found")
		return nil, ErrEventNotFound
	}

	result := &DeleteResult{DeleteType: dt}
	switch dt {
	case DeleteCurrent:
		result.Deleted, err = svc.store.DeleteEvent(ctx, userID, eventID)
	case DeleteCurrentAndFuture:
		if event.IsRecurring() {
			result.Truncated, err = svc.store.SetEndRecur(ctx, userID, eventID, event.Start)
		}
	case DeleteAll:
		if event.IsRecurring() {
			result.Deleted, err = svc.store.DeleteRecurrenceGroup(ctx, userID, event)
		}
	}
	if err != nil {
		utils.TrackEventDeletion(string(dt), "error")
		return nil, fmt.Errorf("delete event %s (%s): %w", eventID, dt, err)
	}

	switch {
	case result.Deleted > 0:
		utils.TrackEventDeletion(string(dt), "deleted")
	case result.Truncated > 0:
		utils.TrackEventDeletion(string(dt), "truncated")
	default:
		utils.TrackEventDeletion(string(dt), "noop")
		utils.Logger.Warn().
			Str("user_id", userID).
			Str("event_id", eventID).
			Str("delete_type", string(dt)).
			Bool("recurring", event.IsRecurring()).
			Msg("event delete request changed nothing")
	}
	return result, nil
}

// ExportICS renders all of the user's events as an iCalendar feed.
func (svc *EventService) ExportICS(ctx context.Context, userID string) (string, error) {
	events, err := svc.store.ListAllEvents(ctx, userID)
	if err != nil {
		return "", err
	}
	return services.RenderCalendar("Time Track", events, svc.now().UTC())
}

func (svc *EventService) CountEvents(ctx context.Context, userID string) (total, recurring int64, err error) {
	return svc.store.CountEvents(ctx, userID)
}

func normalizeEvent(ev *model.CalendarEvent) error {
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" {
		return invalid("title", "is required")
	}
	if ev.Start.IsZero() {
		return invalid("start", "is required")
	}
	if ev.End.IsZero() {
		ev.End = ev.Start
	}
	if ev.End.Before(ev.Start) {
		return invalid("end", "must not be before start")
	}
	if ev.NotifyBefore < 0 {
		return invalid("notify_before", "must not be negative")
	}
	ev.URLs = trimList(ev.URLs)

	if !ev.IsRecurring() {
		ev.Interval = 0
		ev.ByWeekday, ev.ByMonthday, ev.ByMonth = nil, nil, nil
		ev.StartRecur, ev.EndRecur = nil, nil
		return nil
	}

	if !ev.Frequency.Valid() {
		return invalid("frequency", "must be one of day, week, month, year")
	}
	if ev.Interval == 0 {
		ev.Interval = 1
	}
	if ev.Interval < 1 {
		return invalid("interval", "must be at least 1")
	}

	for i, wd := range ev.ByWeekday {
		ev.ByWeekday[i] = strings.ToLower(strings.TrimSpace(wd))
		if !model.IsWeekday(ev.ByWeekday[i]) {
			return invalid("by_weekday", "unknown weekday %q", wd)
		}
	}
	for i, m := range ev.ByMonth {
		ev.ByMonth[i] = strings.ToLower(strings.TrimSpace(m))
		if model.MonthNumber(ev.ByMonth[i]) == 0 {
			return invalid("by_month", "unknown month %q", m)
		}
	}
	for _, d := range ev.ByMonthday {
		if d == 0 || d > 31 || d < -31 {
			return invalid("by_monthday", "%d is outside 1..31 or -31..-1", d)
		}
	}
	if ev.StartRecur != nil && ev.EndRecur != nil && ev.EndRecur.Before(*ev.StartRecur) {
		return invalid("end_recur", "must not be before start_recur")
	}
	return nil
}

// trimList trims entries, dropping empties and duplicates while keeping order.
func trimList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
