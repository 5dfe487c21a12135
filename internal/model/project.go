package model

import "time"

// Project groups tasks under a user-chosen title. Progress is derived
// from its tasks, never stored.
type Project struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    int64 `gorm:"index"`
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:ProjectID"`
}
