package services

import (
	"fmt"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/repositories"
)

// OrderService handles order creation, retrieval and the delivered
// transition. The paid transition belongs to PaymentService.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mq          EventPublisher

	// requirePaidForDelivery forbids the delivered transition on an
	// unpaid order when set.
	requirePaidForDelivery bool
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mq EventPublisher, requirePaidForDelivery bool) *OrderService {
	return &OrderService{
		orderRepo:              orderRepo,
		productRepo:            productRepo,
		mq:                     mq,
		requirePaidForDelivery: requirePaidForDelivery,
	}
}

// CreateOrder builds and persists a new unpaid, undelivered order for a
// user's cart. Unit prices, names and images come from the catalog;
// anything the client submitted for those fields is discarded.
func (s *OrderService) CreateOrder(userID string, items []models.OrderItem, shipping models.ShippingAddress, paymentMethod string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order has no items: %w", apperrors.ErrValidation)
	}

	ids := make([]string, len(items))
	for i, item := range items {
		if item.Qty <= 0 {
			return nil, fmt.Errorf("item %s has non-positive quantity %d: %w", item.ProductID, item.Qty, apperrors.ErrValidation)
		}
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.GetManyByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	orderItems := make([]models.OrderItem, len(items))
	for i, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, apperrors.ErrNotFound)
		}
		orderItems[i] = models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Qty:       item.Qty,
		}
	}

	prices, err := pricing.Calculate(orderItems)
	if err != nil {
		return nil, err
	}

	newOrder := &models.Order{
		UserID:        userID,
		Items:         orderItems,
		Shipping:      shipping,
		PaymentMethod: paymentMethod,
		ItemsPrice:    prices.ItemsPrice,
		TaxPrice:      prices.TaxPrice,
		ShippingPrice: prices.ShippingPrice,
		TotalPrice:    prices.TotalPrice,
		IsPaid:        false,
		IsDelivered:   false,
	}

	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	publishOrderEvent(s.mq, "order.created", map[string]interface{}{
		"orderID": newOrder.ID,
		"userID":  newOrder.UserID,
		"total":   newOrder.TotalPrice,
	})

	return newOrder, nil
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetMyOrders retrieves the orders placed by one user.
func (s *OrderService) GetMyOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetAllOrders retrieves every order. Admin gating happens at the route.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// MarkDelivered flips the delivered flag on an order and stamps the
// delivery time. Re-delivering is rejected; the flag is monotonic.
func (s *OrderService) MarkDelivered(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.IsDelivered {
		return nil, fmt.Errorf("order %s is already delivered: %w", id, apperrors.ErrConflict)
	}
	if s.requirePaidForDelivery && !order.IsPaid {
		return nil, fmt.Errorf("order %s is not paid yet: %w", id, apperrors.ErrConflict)
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to mark order %s delivered: %w", id, err)
	}

	publishOrderEvent(s.mq, "order.delivered", map[string]interface{}{
		"orderID":     order.ID,
		"userID":      order.UserID,
		"deliveredAt": order.DeliveredAt,
	})

	return order, nil
}
