package models

import "time"

// StatusHistory is the append-only audit trail of an order's status changes.
// Rows are only ever inserted; every order carries at least its creation entry.
type StatusHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	ChangedByID uint      `gorm:"not null" json:"changed_by_id"`
	ChangedBy   User      `gorm:"foreignKey:ChangedByID" json:"changed_by"`
	Notes       string    `gorm:"type:text" json:"notes"`
	ChangedAt   time.Time `gorm:"not null" json:"changed_at"`
}
