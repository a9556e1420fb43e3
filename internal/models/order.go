package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Creation always produces OrderStatusPending; the other
// statuses are only reachable through the status-update endpoint.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatuses is the set of statuses accepted by status updates.
var ValidOrderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// OrderItem is a single line of an order. Price is a snapshot of the
// product's price at order time and never changes afterwards, even if the
// product's price does.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"index"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
}

// Order represents a customer order. Total is computed once at creation
// from the item price snapshots and never recomputed.
type Order struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items     []OrderItem     `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(12,2)"`
	Status    string          `json:"status" gorm:"type:varchar(16)"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
