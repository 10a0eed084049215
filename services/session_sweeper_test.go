package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	now, cutoff time.Time
	n           int64
	err         error
}

func (f *fakeExpirer) DeactivateExpiredSessions(_ context.Context, now, cutoff time.Time) (int64, error) {
	f.now, f.cutoff = now, cutoff
	return f.n, f.err
}

func (f *fakeExpirer) CountAllActiveSessions(context.Context, time.Time) (int64, error) {
	return 7, nil
}

func TestSweepPassesIdleCutoff(t *testing.T) {
	exp := &fakeExpirer{n: 3}
	s := NewSessionSweeper(exp, 48*time.Hour)
	fixed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	assert.Equal(t, int64(3), s.Sweep(context.Background()))
	assert.Equal(t, fixed, exp.now)
	assert.Equal(t, fixed.Add(-48*time.Hour), exp.cutoff)
}

func TestSweepSwallowsErrors(t *testing.T) {
	s := NewSessionSweeper(&fakeExpirer{err: errors.New("mongo down")}, time.Hour)
	assert.Zero(t, s.Sweep(context.Background()))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewSessionSweeper(&fakeExpirer{}, time.Hour)
	assert.Error(t, s.Start("every now and then"))

	require.NoError(t, s.Start("*/5 * * * *"))
	s.Stop()
}
