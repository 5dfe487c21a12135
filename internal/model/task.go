package model

import "time"

// Storage layouts for the minute-granularity clock and day-granularity
// date columns. Both sort correctly as plain strings.
const (
	TimeLayout = "15:04"
	DateLayout = "2006-01-02"
)

// Status is the three-way completion state of a task.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusMissed  Status = "missed"
)

// Task represents a single scheduled item in the planner.
type Task struct {
	ID          uint  `gorm:"primaryKey"`
	UserID      int64 `gorm:"index"`
	ProjectID   *uint `gorm:"index"`
	Title       string
	Time        string // HH:MM, server-local
	Date        string // YYYY-MM-DD, server-local
	Status      Status `gorm:"default:pending"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
