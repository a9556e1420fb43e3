package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	// GetByID returns the order with its items preloaded.
	GetByID(id uint) (*models.Order, error)
	// Create persists the order with its items and decrements each
	// referenced product's stock, all inside one transaction. A product
	// whose stock would go negative aborts the whole transaction with
	// ErrInsufficientStock; nothing is left behind on failure.
	Create(order *models.Order) error
	UpdateStatus(id uint, status string) error
}
