package models

import (
	"time"
)

// Notification types
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index:idx_notifications_user_read" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title     string     `gorm:"type:varchar(100)" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Type      string     `gorm:"type:varchar(10);not null;default:'info'" json:"type"`
	Read      bool       `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_read" json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	OrderID   *uint      `json:"order_id,omitempty"`
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
}
