package repositories

import (
	"storefront/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetTop(limit int) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetManyByIDs(ids []string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	AddReview(review *models.Review) error
}
