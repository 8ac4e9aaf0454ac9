package models

import "time"

// Order statuses
const (
	OrderStatusDraft      = "draft"
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Payment statuses / methods (fields only, no gateway logic)
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"

	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodMobile   = "mobile"
)

// StatusLabels maps a status to its client-facing label.
var StatusLabels = map[string]string{
	OrderStatusDraft:      "Devis",
	OrderStatusPending:    "En attente",
	OrderStatusProcessing: "En cours de traitement",
	OrderStatusCompleted:  "Terminée",
	OrderStatusDelivered:  "Livrée",
	OrderStatusCancelled:  "Annulée",
}

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderNumber   string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	ClientID      uint            `gorm:"not null;index" json:"client_id"`
	Client        User            `gorm:"foreignKey:ClientID" json:"client"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalPrice    float64         `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_price"`
	DueDate       *time.Time      `gorm:"index" json:"due_date,omitempty"`
	Priority      string          `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	Notes         string          `gorm:"type:text" json:"notes"`
	AssignedToID  *uint           `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo    *User           `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID" json:"status_history"`
	PaymentStatus string          `gorm:"type:varchar(10);not null;default:'pending'" json:"payment_status"`
	PaymentMethod string          `gorm:"type:varchar(10);not null;default:'cash'" json:"payment_method"`
	// Version guards concurrent item mutation + total recompute.
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// RecalculateTotal sets TotalPrice to the sum of current item totals.
func (o *Order) RecalculateTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.TotalPrice
	}
	o.TotalPrice = total
	return total
}

// IsTerminalStatus reports whether no further transitions are possible.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

func IsValidStatus(s string) bool {
	_, ok := StatusLabels[s]
	return ok
}

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
