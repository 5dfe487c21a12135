package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbuddy/internal/model"
	"taskbuddy/internal/service"
)

// noon keeps seeded log timestamps well away from day boundaries.
func noon(now time.Time, daysAgo int) time.Time {
	day := now.AddDate(0, 0, -daysAgo)
	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.Local)
}

func seedDone(t *testing.T, e *env, daysAgo ...int) {
	t.Helper()
	now := time.Now()
	for i, ago := range daysAgo {
		require.NoError(t, e.logs.Append(context.Background(), testUser, uint(i+1), model.ActionDone, noon(now, ago)))
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	e := newEnv(t)
	seedDone(t, e, 0, 1, 2)

	stats, err := e.statsSvc.UserStats(context.Background(), testUser, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Streak)
	assert.Equal(t, 3, stats.ActiveDays)
	assert.EqualValues(t, 3, stats.Done)
}

func TestStreakZeroWithoutTodayEntry(t *testing.T) {
	e := newEnv(t)
	seedDone(t, e, 1, 2)

	stats, err := e.statsSvc.UserStats(context.Background(), testUser, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Streak)
	assert.Equal(t, 2, stats.ActiveDays)
}

func TestStreakBreaksOnGap(t *testing.T) {
	e := newEnv(t)
	seedDone(t, e, 0, 2)

	stats, err := e.statsSvc.UserStats(context.Background(), testUser, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 2, stats.ActiveDays)
}

func TestStatsCountMissed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seedDone(t, e, 0)
	require.NoError(t, e.logs.Append(ctx, testUser, 7, model.ActionMissed, time.Now()))

	stats, err := e.statsSvc.UserStats(ctx, testUser, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Done)
	assert.EqualValues(t, 1, stats.Missed)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 75, service.Percent(3, 1))
	assert.Equal(t, 0, service.Percent(0, 0))
	assert.Equal(t, 33, service.Percent(1, 2))
	assert.Equal(t, 100, service.Percent(5, 0))
}

func TestCompletedListings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now()

	recent := e.createTask(t, "Recent / 10:00", now)
	old := e.createTask(t, "Old / 11:00", now)
	_, err := e.taskSvc.Complete(ctx, old.ID, now.AddDate(0, 0, -8))
	require.NoError(t, err)
	_, err = e.taskSvc.Complete(ctx, recent.ID, now)
	require.NoError(t, err)

	all, err := e.statsSvc.Completed(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Recent", all[0].Title)
	assert.Equal(t, "Old", all[1].Title)

	week, err := e.statsSvc.CompletedLastWeek(ctx, testUser, now)
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, "Recent", week[0].Title)
}
