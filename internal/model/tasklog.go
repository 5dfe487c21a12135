package model

import "time"

// Lifecycle actions recorded in the task log.
const (
	ActionDone   = "done"
	ActionMissed = "missed"
)

// TaskLog is an append-only record of a task lifecycle event. Entries
// are never updated or deleted; all statistics derive from this table.
type TaskLog struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    int64 `gorm:"index"`
	TaskID    uint  `gorm:"index"`
	Action    string
	Timestamp time.Time
}
