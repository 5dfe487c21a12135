package service

import (
	"context"
	"log"
	"time"

	"taskbuddy/internal/model"
)

// Reminder is a dispatch request for one due task. Delivery is up to the
// transport layer consuming the channel.
type Reminder struct {
	UserID int64
	TaskID uint
	Title  string
}

// DueTaskSource finds pending tasks scheduled at an exact minute.
type DueTaskSource interface {
	DueAt(ctx context.Context, timeOfDay, date string) ([]model.Task, error)
}

// ReminderService scans for due tasks and emits reminder requests. It
// never talks to the transport directly; the timer side pushes into a
// channel that the delivery side drains.
type ReminderService struct {
	tasks DueTaskSource
	out   chan Reminder
}

func NewReminderService(tasks DueTaskSource, buffer int) *ReminderService {
	if buffer <= 0 {
		buffer = 64
	}
	return &ReminderService{tasks: tasks, out: make(chan Reminder, buffer)}
}

// Reminders is the stream of dispatch requests produced by Scan.
func (s *ReminderService) Reminders() <-chan Reminder {
	return s.out
}

// Scan finds tasks due at now's wall-clock minute and emits one reminder
// per task. A task stays eligible on later ticks until its status leaves
// pending; with the default one-minute interval that means a single
// emission per task.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) error {
	due, err := s.tasks.DueAt(ctx, now.Format(model.TimeLayout), now.Format(model.DateLayout))
	if err != nil {
		return err
	}
	for _, task := range due {
		select {
		case s.out <- Reminder{UserID: task.UserID, TaskID: task.ID, Title: task.Title}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if len(due) > 0 {
		log.Printf("[info] reminder scan at %s: %d due task(s)", now.Format(model.TimeLayout), len(due))
	}
	return nil
}
