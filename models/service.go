package models

import "time"

// Print product categories
const (
	CategoryFlyers    = "flyers"
	CategoryCartes    = "cartes"
	CategoryAffiches  = "affiches"
	CategoryBrochures = "brochures"
	CategoryAutres    = "autres"
)

// Service is one catalog entry describing a printable product and its price model.
type Service struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(20);not null;default:'autres';index" json:"category"`
	BasePrice   float64         `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Unit        string          `gorm:"type:varchar(50);not null" json:"unit"`
	MinQuantity int             `gorm:"not null;default:1" json:"min_quantity"`
	MaxQuantity int             `gorm:"not null;default:10000" json:"max_quantity"`
	Options     []ServiceOption `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"options"`
	ImageURL    *string         `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	IsActive    bool            `gorm:"not null;default:true;index" json:"is_active"`
	SortOrder   int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func IsValidCategory(c string) bool {
	switch c {
	case CategoryFlyers, CategoryCartes, CategoryAffiches, CategoryBrochures, CategoryAutres:
		return true
	}
	return false
}
