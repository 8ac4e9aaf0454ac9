package models

import "time"

// Option kinds
const (
	OptionKindSelect   = "select"
	OptionKindCheckbox = "checkbox"
	OptionKindNumber   = "number"
)

// ServiceOption is a configurable modifier on a Service (finish, paper type, ...).
// OptionID is the stable identifier order items reference in their selected
// options map; it survives row re-creation on service updates.
type ServiceOption struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ServiceID     uint      `gorm:"not null;index" json:"service_id"`
	OptionID      string    `gorm:"type:varchar(36);not null" json:"option_id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Kind          string    `gorm:"type:varchar(10);not null" json:"kind"`
	Choices       []string  `gorm:"serializer:json" json:"choices,omitempty"`
	PriceModifier float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price_modifier"`
	Required      bool      `gorm:"not null;default:false" json:"required"`
	SortOrder     int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func IsValidOptionKind(k string) bool {
	return k == OptionKindSelect || k == OptionKindCheckbox || k == OptionKindNumber
}
