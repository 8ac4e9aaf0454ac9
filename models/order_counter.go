package models

import "time"

// OrderCounter holds the per-month order number sequence. The row is locked and
// incremented inside the order creation transaction so two concurrent creates
// can never read the same value.
type OrderCounter struct {
	Period    string    `gorm:"primaryKey;type:varchar(4)" json:"period"` // YYMM
	Seq       int       `gorm:"not null;default:0" json:"seq"`
	UpdatedAt time.Time `json:"updated_at"`
}
