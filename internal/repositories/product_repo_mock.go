package repositories

import (
	"fmt"
	"sync"

	"storefront/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// GetByIDs returns the requested products keyed by ID; missing ids are
// simply absent.
func (r *MockProductRepository) GetByIDs(ids []uint) (map[uint]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byID := make(map[uint]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			byID[id] = p
		}
	}
	return byID, nil
}

// Create adds a new product, assigning the next free ID when unset.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}

// decrementAll atomically checks and decrements stock for every item, or
// applies nothing. Used by MockOrderRepository to mirror the all-or-nothing
// behavior of the database transaction.
func (r *MockProductRepository) decrementAll(items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		product, ok := r.products[item.ProductID]
		if !ok {
			return fmt.Errorf("product with ID %d: %w", item.ProductID, ErrProductNotFound)
		}
		if product.Stock < item.Quantity {
			return fmt.Errorf("product %d: requested %d, available %d: %w",
				item.ProductID, item.Quantity, product.Stock, ErrInsufficientStock)
		}
	}
	for _, item := range items {
		product := r.products[item.ProductID]
		product.Stock -= item.Quantity
		r.products[item.ProductID] = product
	}
	return nil
}
