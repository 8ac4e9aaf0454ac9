package models

import "time"

// Message types
const (
	MessageTypeText   = "text"
	MessageTypeFile   = "file"
	MessageTypeImage  = "image"
	MessageTypeSystem = "system"
)

type Message struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	ConversationID uint         `gorm:"not null;index" json:"conversation_id"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SenderID       uint         `gorm:"not null;index" json:"sender_id"`
	Sender         User         `gorm:"foreignKey:SenderID" json:"sender"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	MessageType    string       `gorm:"type:varchar(10);not null;default:'text'" json:"message_type"`
	FileURL        *string      `gorm:"type:varchar(255)" json:"file_url,omitempty"`
	FileName       *string      `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	IsRead         bool         `gorm:"not null;default:false" json:"is_read"`
	ReadAt         *time.Time   `json:"read_at,omitempty"`
	IsDeleted      bool         `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt      *time.Time   `json:"deleted_at,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;index" json:"created_at"`
}
