package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetTopProducts retrieves the highest-rated products.
func (s *ProductService) GetTopProducts(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 3
	}
	return s.repo.GetTop(limit)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// CreateReview adds a review to a product and recomputes its rating.
// A user may review a given product only once.
func (s *ProductService) CreateReview(productID, userID, userName string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", apperrors.ErrValidation)
	}

	product, err := s.repo.GetByID(productID)
	if err != nil {
		return err
	}
	for _, review := range product.Reviews {
		if review.UserID == userID {
			return fmt.Errorf("product %s already reviewed by user %s: %w", productID, userID, apperrors.ErrConflict)
		}
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Name:      userName,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.repo.AddReview(review); err != nil {
		return err
	}

	sum := decimal.NewFromInt(int64(rating))
	for _, r := range product.Reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	product.NumReviews = len(product.Reviews) + 1
	product.Rating = sum.Div(decimal.NewFromInt(int64(product.NumReviews))).Round(2)

	if err := s.repo.Update(product); err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}
	return nil
}
