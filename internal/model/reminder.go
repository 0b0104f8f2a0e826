package model

import "time"

// Reminder is a text message scheduled for delivery to its owner at TargetTime.
// Completed flips to true once, after delivery or a permanent delivery failure.
type Reminder struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OwnerID    int64     `gorm:"index;not null"`
	Text       string    `gorm:"type:text;not null"`
	TargetTime time.Time `gorm:"index;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	Completed  bool      `gorm:"index;not null;default:false"`
}
