package service

import (
	"context"
	"errors"
	"log"
	"time"

	"taskbuddy/internal/model"
	"taskbuddy/internal/parser"
	"taskbuddy/internal/repository"
)

// TaskStore is the persistence surface the lifecycle engine relies on.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	ByID(ctx context.Context, taskID uint) (*model.Task, error)
	ForUserOnDate(ctx context.Context, userID int64, date string) ([]model.Task, error)
	SetTime(ctx context.Context, taskID uint, timeOfDay string) error
	MarkDone(ctx context.Context, taskID uint, at time.Time) (*model.Task, error)
	MarkMissed(ctx context.Context, taskID uint, at time.Time) (*model.Task, error)
}

// ProjectResolver looks project titles up for task linking.
type ProjectResolver interface {
	ResolveID(ctx context.Context, userID int64, title string) (uint, error)
}

// TaskService applies task lifecycle transitions.
type TaskService struct {
	tasks    TaskStore
	projects ProjectResolver
}

func NewTaskService(tasks TaskStore, projects ProjectResolver) *TaskService {
	return &TaskService{tasks: tasks, projects: projects}
}

// Create stores a task from parsed input. An unknown #project tag does
// not fail the creation: the task is saved without a project link and the
// returned flag reports whether linking succeeded.
func (s *TaskService) Create(ctx context.Context, userID int64, in parser.Input) (*model.Task, bool, error) {
	var projectID *uint
	linked := false
	if in.ProjectName != "" {
		id, err := s.projects.ResolveID(ctx, userID, in.ProjectName)
		switch {
		case err == nil:
			projectID = &id
			linked = true
		case errors.Is(err, repository.ErrNotFound):
			log.Printf("[info] project %q not found for user %d, creating task unlinked", in.ProjectName, userID)
		default:
			return nil, false, err
		}
	}

	task := model.Task{
		UserID:    userID,
		ProjectID: projectID,
		Title:     in.Title,
		Time:      in.Time,
		Date:      in.Date,
		Status:    model.StatusPending,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, false, err
	}
	return &task, linked, nil
}

// Complete transitions the task to done and records the log entry.
// Re-applying it is allowed and appends a second entry.
func (s *TaskService) Complete(ctx context.Context, taskID uint, at time.Time) (*model.Task, error) {
	return s.tasks.MarkDone(ctx, taskID, at)
}

// MarkMissed transitions the task to missed and records the log entry.
func (s *TaskService) MarkMissed(ctx context.Context, taskID uint, at time.Time) (*model.Task, error) {
	return s.tasks.MarkMissed(ctx, taskID, at)
}

// Postpone moves the task's reminder to now+offset, minute-truncated, and
// returns the new clock value for confirmation messaging. The scheduled
// date stays as it is even when the offset crosses midnight, and the
// status is not touched.
func (s *TaskService) Postpone(ctx context.Context, taskID uint, minutes int, now time.Time) (string, error) {
	newTime := now.Add(time.Duration(minutes) * time.Minute).Format(model.TimeLayout)
	if err := s.tasks.SetTime(ctx, taskID, newTime); err != nil {
		return "", err
	}
	return newTime, nil
}

// TasksForToday lists the user's pending tasks for now's date, earliest first.
func (s *TaskService) TasksForToday(ctx context.Context, userID int64, now time.Time) ([]model.Task, error) {
	return s.tasks.ForUserOnDate(ctx, userID, now.Format(model.DateLayout))
}
