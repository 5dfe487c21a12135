package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

// TaskRepository handles CRUD and lifecycle writes for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return translate("create task", err)
	}
	return nil
}

func (r *TaskRepository) ByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return nil, translate("find task", err)
	}
	return &task, nil
}

// DueAt returns pending tasks scheduled exactly at the given minute.
func (r *TaskRepository) DueAt(ctx context.Context, timeOfDay, date string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("time = ? AND date = ? AND status = ?", timeOfDay, date, model.StatusPending).
		Find(&tasks).Error; err != nil {
		return nil, translate("due tasks", err)
	}
	return tasks, nil
}

// ForUserOnDate returns the user's pending tasks for one day, earliest first.
func (r *TaskRepository) ForUserOnDate(ctx context.Context, userID int64, date string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND status = ?", userID, date, model.StatusPending).
		Order("time ASC").
		Find(&tasks).Error; err != nil {
		return nil, translate("tasks for date", err)
	}
	return tasks, nil
}

// SetTime overwrites the task's scheduled time. The date column is left
// untouched even when the new clock value crossed midnight.
func (r *TaskRepository) SetTime(ctx context.Context, taskID uint, timeOfDay string) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", taskID).
		Update("time", timeOfDay)
	if res.Error != nil {
		return translate("set task time", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("set task time", gorm.ErrRecordNotFound)
	}
	return nil
}

// MarkDone sets status=done and appends the log entry in one transaction,
// so a status change never survives without its log record.
func (r *TaskRepository) MarkDone(ctx context.Context, taskID uint, at time.Time) (*model.Task, error) {
	return r.transition(ctx, taskID, model.StatusDone, model.ActionDone, at, true)
}

// MarkMissed sets status=missed and appends the log entry in one transaction.
// A missed task gets no completion timestamp.
func (r *TaskRepository) MarkMissed(ctx context.Context, taskID uint, at time.Time) (*model.Task, error) {
	return r.transition(ctx, taskID, model.StatusMissed, model.ActionMissed, at, false)
}

func (r *TaskRepository) transition(ctx context.Context, taskID uint, status model.Status, action string, at time.Time, recordCompletion bool) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}
		task.Status = status
		if recordCompletion {
			task.CompletedAt = &at
		} else {
			task.CompletedAt = nil
		}
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		entry := model.TaskLog{
			UserID:    task.UserID,
			TaskID:    task.ID,
			Action:    action,
			Timestamp: at,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, translate("transition task", err)
	}
	return &task, nil
}
