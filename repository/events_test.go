package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesEvent(userID string, weekdays ...string) *model.CalendarEvent {
	start := ts("2024-03-04T09:00:00Z")
	return &model.CalendarEvent{
		ID:         utils.NewID(),
		UserID:     userID,
		Title:      "standup",
		Start:      start,
		End:        start.Add(15 * time.Minute),
		Frequency:  model.FrequencyWeek,
		Interval:   1,
		ByWeekday:  weekdays,
		StartRecur: &start,
	}
}

func TestEventRepoRecurrenceGroupDelete(t *testing.T) {
	repos := setupRepos(t)
	r := repos.Events
	ctx := context.Background()

	a := seriesEvent("u1", "monday", "wednesday")
	b := seriesEvent("u1", "wednesday", "monday")
	subset := seriesEvent("u1", "monday")
	superset := seriesEvent("u1", "monday", "wednesday", "friday")
	other := seriesEvent("u2", "monday", "wednesday")
	for _, e := range []*model.CalendarEvent{a, b, subset, superset, other} {
		require.NoError(t, r.CreateEvent(ctx, e))
	}

	n, err := r.DeleteRecurrenceGroup(ctx, "u1", a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, kept := range []*model.CalendarEvent{subset, superset} {
		got, err := r.GetEventByID(ctx, "u1", kept.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	}
	got, err := r.GetEventByID(ctx, "u2", other.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestEventRepoEmptyGroupMatchesMissingFields(t *testing.T) {
	repos := setupRepos(t)
	r := repos.Events
	ctx := context.Background()

	plain := seriesEvent("u1")
	withDays := seriesEvent("u1", "friday")
	require.NoError(t, r.CreateEvent(ctx, plain))
	require.NoError(t, r.CreateEvent(ctx, withDays))

	n, err := r.DeleteRecurrenceGroup(ctx, "u1", seriesEvent("u1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEventRepoListRangeAndTruncate(t *testing.T) {
	repos := setupRepos(t)
	r := repos.Events
	ctx := context.Background()

	oneOff := &model.CalendarEvent{
		ID: utils.NewID(), UserID: "u1", Title: "dentist",
		Start: ts("2024-03-10T10:00:00Z"), End: ts("2024-03-10T11:00:00Z"),
	}
	series := seriesEvent("u1", "monday")
	require.NoError(t, r.CreateEvent(ctx, oneOff))
	require.NoError(t, r.CreateEvent(ctx, series))

	list, err := r.ListEvents(ctx, "u1", ts("2024-03-09T00:00:00Z"), ts("2024-03-11T00:00:00Z"))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = r.ListEvents(ctx, "u1", ts("2024-04-01T00:00:00Z"), ts("2024-04-30T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, series.ID, list[0].ID)

	n, err := r.SetEndRecur(ctx, "u1", series.ID, ts("2024-03-20T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err = r.ListEvents(ctx, "u1", ts("2024-04-01T00:00:00Z"), ts("2024-04-30T00:00:00Z"))
	require.NoError(t, err)
	assert.Empty(t, list)

	total, recurring, err := r.CountEvents(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), recurring)

	purged, err := r.DeleteUserData(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)
}
