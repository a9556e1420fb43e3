package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/retry"
)

// EventPublisher is the messaging surface the order service needs. A nil
// publisher disables event publication.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// OrderItemResponse is one line of an order as returned to clients.
// ProductName is the product's current name, looked up at read time;
// Price is the snapshot taken when the order was created.
type OrderItemResponse struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderResponse is the client-facing shape of an order.
type OrderResponse struct {
	ID        uint                `json:"id"`
	UserID    string              `json:"user_id"`
	Total     decimal.Decimal     `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Items     []OrderItemResponse `json:"items"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
	retryCfg    retry.Config
}

// NewOrderService creates a new OrderService. A zero retry.Config means the
// executor defaults (3 attempts, 1s base delay).
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher, retryCfg retry.Config) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		retryCfg:    retryCfg,
	}
}

// validatedItem pairs a fetched product with the requested quantity.
type validatedItem struct {
	product  models.Product
	quantity int
}

// validateItems fetches each referenced product (lookups run in parallel,
// results stay aligned with the input order) and checks existence, quantity
// and stock. All violations are collected and reported together in one
// invalid_order error; the validated pairs are returned only when every
// item passes. The check is advisory: stock can change before the
// transaction commits, which re-checks at decrement time.
func (s *OrderService) validateItems(items []OrderItemInput) ([]validatedItem, error) {
	found := make([]*models.Product, len(items))
	var g errgroup.Group
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			product, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrProductNotFound) {
					return nil // recorded as a violation below
				}
				return err
			}
			found[i] = product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var problems []string
	validated := make([]validatedItem, 0, len(items))
	for i, item := range items {
		product := found[i]
		switch {
		case product == nil:
			problems = append(problems, fmt.Sprintf("product %d does not exist", item.ProductID))
		case item.Quantity <= 0:
			problems = append(problems, fmt.Sprintf("product %d: quantity must be positive, got %d", item.ProductID, item.Quantity))
		case item.Quantity > product.Stock:
			problems = append(problems, fmt.Sprintf("product %d: requested %d, available %d", item.ProductID, item.Quantity, product.Stock))
		default:
			validated = append(validated, validatedItem{product: *product, quantity: item.Quantity})
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.InvalidOrder(problems)
	}
	return validated, nil
}

// CreateOrder validates the requested items, computes the total, and
// persists the order with its line items while decrementing stock, all in
// one transaction. Both the validation and the transaction are wrapped in
// the retry executor; domain failures are marked permanent so they surface
// immediately instead of being retried.
func (s *OrderService) CreateOrder(userID string, items []OrderItemInput) (*OrderResponse, error) {
	if len(items) == 0 {
		return nil, apperrors.InvalidItems("order must contain at least one item")
	}

	validated, err := retry.Do("validate order items", s.retryCfg, func() ([]validatedItem, error) {
		v, err := s.validateItems(items)
		if err != nil && apperrors.IsDomain(err) {
			return nil, retry.Permanent(err)
		}
		return v, err
	})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	orderItems := make([]models.OrderItem, len(validated))
	for i, v := range validated {
		orderItems[i] = models.OrderItem{
			ProductID: v.product.ID,
			Quantity:  v.quantity,
			Price:     v.product.Price, // snapshot, never recomputed
		}
		total = total.Add(v.product.Price.Mul(decimal.NewFromInt(int64(v.quantity))))
	}

	order, err := retry.Do("create order transaction", s.retryCfg, func() (*models.Order, error) {
		// Fresh order value per attempt so IDs assigned by a rolled-back
		// attempt never leak into the next one.
		order := &models.Order{
			UserID: userID,
			Items:  append([]models.OrderItem(nil), orderItems...),
			Total:  total,
			Status: models.OrderStatusPending,
		}
		if err := s.orderRepo.Create(order); err != nil {
			// Stock drained (or product deleted) between validation and
			// commit: terminal, retrying cannot change the outcome.
			if errors.Is(err, repositories.ErrInsufficientStock) || errors.Is(err, repositories.ErrProductNotFound) {
				return nil, retry.Permanent(apperrors.InvalidOrder([]string{err.Error()}))
			}
			return nil, err
		}
		return order, nil
	})
	if err != nil {
		return nil, err
	}

	response, err := s.assembleOrder(order.ID)
	if err != nil {
		return nil, err
	}

	s.publishOrderCreated(response)

	return response, nil
}

// GetOrderByID retrieves a single order in its client-facing shape.
func (s *OrderService) GetOrderByID(id uint) (*OrderResponse, error) {
	return s.assembleOrder(id)
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersByUser retrieves all orders placed by one user.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// assembleOrder re-reads the order and its items and joins each item with
// the product's current name. Item prices stay the creation-time snapshot;
// the displayed name is whatever the product is called now.
func (s *OrderService) assembleOrder(id uint) (*OrderResponse, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.OrderNotFound(id)
		}
		return nil, apperrors.Unexpected(err)
	}

	productIDs := make([]uint, len(order.Items))
	for i, item := range order.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(productIDs)
	if err != nil {
		return nil, apperrors.Unexpected(err)
	}

	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		name := ""
		if product, ok := products[item.ProductID]; ok {
			name = product.Name
		}
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}

	return &OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		Items:     items,
	}, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id uint, status string) error {
	if !models.ValidOrderStatuses[status] {
		return apperrors.InvalidItems(fmt.Sprintf("invalid order status: %s", status))
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return apperrors.OrderNotFound(id)
		}
		return apperrors.Unexpected(err)
	}
	return nil
}

// publishOrderCreated emits an order.created event. Publication is best
// effort: a failure is logged and never fails the order.
func (s *OrderService) publishOrderCreated(order *OrderResponse) {
	if s.publisher == nil {
		log.Println("Event publisher is not configured. Skipping order.created event.")
		return
	}

	event := map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.Total,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order.created event for order %d: %v", order.ID, err)
		return
	}
	if err := s.publisher.Publish("orders", "order.created", body); err != nil {
		log.Printf("Warning: failed to publish order.created event for order %d: %v", order.ID, err)
		return
	}
	log.Printf("Published order.created event for order %d", order.ID)
}
