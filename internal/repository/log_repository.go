package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

// CompletedTask is a log entry joined with its task title.
type CompletedTask struct {
	Title     string
	Timestamp time.Time
}

// LogRepository reads and appends the append-only task log.
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Append writes one lifecycle event. Entries are never updated or deleted.
func (r *LogRepository) Append(ctx context.Context, userID int64, taskID uint, action string, at time.Time) error {
	entry := model.TaskLog{UserID: userID, TaskID: taskID, Action: action, Timestamp: at}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return translate("append log", err)
	}
	return nil
}

// CountByAction counts the user's log entries with the given action.
func (r *LogRepository) CountByAction(ctx context.Context, userID int64, action string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TaskLog{}).
		Where("user_id = ? AND action = ?", userID, action).
		Count(&count).Error; err != nil {
		return 0, translate("count log", err)
	}
	return count, nil
}

// DoneDays returns the distinct calendar dates with at least one done
// entry, oldest first, as YYYY-MM-DD strings.
func (r *LogRepository) DoneDays(ctx context.Context, userID int64) ([]string, error) {
	// 'localtime' keeps the derived day in server-local time, matching
	// how task dates are stored.
	var days []string
	if err := r.db.WithContext(ctx).Model(&model.TaskLog{}).
		Distinct("DATE(timestamp, 'localtime')").
		Where("user_id = ? AND action = ?", userID, model.ActionDone).
		Order("DATE(timestamp, 'localtime') ASC").
		Pluck("DATE(timestamp, 'localtime')", &days).Error; err != nil {
		return nil, translate("done days", err)
	}
	return days, nil
}

// Completed lists the user's done entries joined with task titles, newest
// first. A non-zero since bounds the range from below.
func (r *LogRepository) Completed(ctx context.Context, userID int64, since time.Time) ([]CompletedTask, error) {
	q := r.db.WithContext(ctx).Table("task_logs").
		Select("tasks.title, task_logs.timestamp").
		Joins("JOIN tasks ON tasks.id = task_logs.task_id").
		Where("task_logs.user_id = ? AND task_logs.action = ?", userID, model.ActionDone)
	if !since.IsZero() {
		q = q.Where("task_logs.timestamp >= ?", since)
	}
	var rows []CompletedTask
	if err := q.Order("task_logs.timestamp DESC").Scan(&rows).Error; err != nil {
		return nil, translate("completed tasks", err)
	}
	return rows, nil
}
