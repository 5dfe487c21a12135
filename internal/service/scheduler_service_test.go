package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbuddy/internal/service"
)

func TestScheduleIntervalRejectsNonPositive(t *testing.T) {
	scheduler := service.NewSchedulerService(time.Local)
	_, err := scheduler.ScheduleInterval(0, func() {})
	require.Error(t, err)
	_, err = scheduler.ScheduleInterval(-time.Minute, func() {})
	require.Error(t, err)
}

func TestScheduleIntervalAcceptsMinute(t *testing.T) {
	scheduler := service.NewSchedulerService(time.Local)
	id, err := scheduler.ScheduleInterval(time.Minute, func() {})
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestScheduleDailyValidatesTime(t *testing.T) {
	scheduler := service.NewSchedulerService(time.Local)

	id, err := scheduler.ScheduleDaily("08:00", func() {})
	require.NoError(t, err)
	assert.NotZero(t, id)

	for _, bad := range []string{"8am", "24:00", "08:60", "08", ""} {
		_, err := scheduler.ScheduleDaily(bad, func() {})
		assert.Error(t, err, "time %q", bad)
	}
}
