package model

import "time"

// User stores a Telegram account known to the bot. The Telegram id is
// the primary key; there is nothing else to keep about a user.
type User struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}
