package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
	"taskbuddy/internal/service"
)

func TestDeleteProjectCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now()

	_, err := e.projectSvc.Create(ctx, testUser, "move")
	require.NoError(t, err)
	first := e.createTask(t, "Pack boxes / 10:00 / #move", now)
	second := e.createTask(t, "Book a van / 11:00 / #move", now)

	require.NoError(t, e.projectSvc.Delete(ctx, testUser, "move"))

	_, err = e.tasks.ByID(ctx, first.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	_, err = e.tasks.ByID(ctx, second.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	_, err = e.projects.ResolveID(ctx, testUser, "move")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestDeleteUnknownProject(t *testing.T) {
	e := newEnv(t)
	err := e.projectSvc.Delete(context.Background(), testUser, "nowhere")
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestCompleteProjectMarksAllTasksWithoutLogging(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now()

	_, err := e.projectSvc.Create(ctx, testUser, "move")
	require.NoError(t, err)
	first := e.createTask(t, "Pack boxes / 10:00 / #move", now)
	second := e.createTask(t, "Book a van / 11:00 / #move", now)
	_, err = e.taskSvc.Complete(ctx, first.ID, now)
	require.NoError(t, err)

	require.NoError(t, e.projectSvc.Complete(ctx, testUser, "move", now))

	for _, id := range []uint{first.ID, second.ID} {
		task, err := e.tasks.ByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDone, task.Status)
		require.NotNil(t, task.CompletedAt)
	}

	// Bulk completion does not add per-task log entries: only the one
	// explicit Complete above is counted.
	count, err := e.logs.CountByAction(ctx, testUser, model.ActionDone)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestProjectProgress(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now()

	_, err := e.projectSvc.Create(ctx, testUser, "reading")
	require.NoError(t, err)
	_, err = e.projectSvc.Create(ctx, testUser, "empty")
	require.NoError(t, err)

	var tasks []*model.Task
	for _, text := range []string{"A / 10:00 / #reading", "B / 11:00 / #reading", "C / 12:00 / #reading", "D / 13:00 / #reading"} {
		tasks = append(tasks, e.createTask(t, text, now))
	}
	for _, task := range tasks[:3] {
		_, err := e.taskSvc.Complete(ctx, task.ID, now)
		require.NoError(t, err)
	}

	rows, err := e.projectSvc.ListWithProgress(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted most complete first.
	assert.Equal(t, "reading", rows[0].Title)
	assert.Equal(t, 4, rows[0].Total)
	assert.Equal(t, 3, rows[0].Completed)
	assert.Equal(t, 75, service.ProgressPercent(rows[0]))

	assert.Equal(t, "empty", rows[1].Title)
	assert.Equal(t, 0, rows[1].Total)
	assert.Equal(t, 0, service.ProgressPercent(rows[1]))
}

func TestProjectTasksOrderedWithStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now()

	_, err := e.projectSvc.Create(ctx, testUser, "trip")
	require.NoError(t, err)
	late := e.createTask(t, "Late / 20:00 / #trip", now)
	early := e.createTask(t, "Early / 08:00 / #trip", now)
	_, err = e.taskSvc.Complete(ctx, early.ID, now)
	require.NoError(t, err)

	id, err := e.projects.ResolveID(ctx, testUser, "trip")
	require.NoError(t, err)
	tasks, err := e.projectSvc.Tasks(ctx, id)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, early.ID, tasks[0].ID)
	assert.Equal(t, model.StatusDone, tasks[0].Status)
	assert.Equal(t, late.ID, tasks[1].ID)
	assert.Equal(t, model.StatusPending, tasks[1].Status)
}
