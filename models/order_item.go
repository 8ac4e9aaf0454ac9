package models

import (
	"time"
)

// OrderItem is one priced line within an Order. UnitPrice and TotalPrice are
// frozen snapshots computed at order creation; later catalog changes must not
// alter historical invoices, so they are never recomputed from the Service.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order      Order                  `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ServiceID  uint                   `gorm:"not null" json:"service_id"`
	Service    Service                `gorm:"foreignKey:ServiceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"service"`
	Quantity   int                    `gorm:"not null" json:"quantity"`
	UnitPrice  float64                `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice float64                `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Options    map[string]interface{} `gorm:"serializer:json" json:"options"`
	Files      []string               `gorm:"serializer:json" json:"files"`
	Notes      string                 `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time              `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time              `gorm:"not null" json:"updated_at"`
}
