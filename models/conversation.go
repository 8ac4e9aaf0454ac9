package models

import "time"

// Conversation is a client <-> shop chat thread. LastMessage/LastMessageAt are
// denormalized for inbox listing; unread counters are kept per side.
type Conversation struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ClientID      uint       `gorm:"not null;uniqueIndex" json:"client_id"`
	Client        User       `gorm:"foreignKey:ClientID" json:"client"`
	LastMessage   string     `gorm:"type:text" json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	ClientUnread  int        `gorm:"not null;default:0" json:"client_unread"`
	AdminUnread   int        `gorm:"not null;default:0" json:"admin_unread"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}
