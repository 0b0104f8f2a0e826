package model

import "time"

// Conversation holds the compose dialogue state for one chat participant.
type Conversation struct {
	OwnerID   int64     `gorm:"primaryKey;autoIncrement:false" json:"owner_id"`
	State     string    `gorm:"size:32;not null" json:"state"`
	Text      string    `gorm:"type:text" json:"text,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
