package models

import "time"

// Roles
const (
	RoleClient   = "client"
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(100); not null" json:"name"`
	Email    string `gorm:"type:varchar(255); unique;not null" json:"email"`
	Password string `gorm:"type:varchar(255); not null" json:"-"`
	Role     string `gorm:"type:varchar(20); not null;default:'client'" json:"role"`
	Phone    string `gorm:"type:varchar(30)" json:"phone"`
	Address  string `gorm:"type:text" json:"address"`
	// Deactivation flag: account removal never mutates unique fields.
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
