package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are never deleted in normal operation, so no Delete method.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	// ExistsPaidWithTransactionID reports whether any paid order has
	// already consumed the given gateway transaction id.
	ExistsPaidWithTransactionID(transactionID string) (bool, error)
}
